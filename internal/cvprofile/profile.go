// Package cvprofile parses work experience, education, personal details and
// language skills out of CV text and blends them into a weighted assessment.
// Parsing is heuristic and line oriented; a CV with none of the expected
// sections still yields a valid zero-score profile.
package cvprofile

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/talentsift/candidate-screener/internal/domain"
)

// Assessment blend weights.
const (
	weightSkills     = 0.40
	weightExperience = 0.35
	weightEducation  = 0.15
	weightMatching   = 0.10
)

var experienceSectionWords = []string{
	"werkervaring", "ervaring", "experience", "werk", "functie", "position",
	"job", "baan", "carrière", "loopbaan", "professional",
}

var educationSectionWords = []string{
	"opleiding", "onderwijs", "education", "studie", "universiteit",
	"hogeschool", "school", "diploma", "certificaat", "degree", "bachelor",
	"master", "phd",
}

var achievementWords = []string{
	"behaald", "gerealiseerd", "verbeterd", "geoptimaliseerd", "geleid",
	"ontwikkeld", "geïmplementeerd", "achieved", "improved", "led",
	"developed", "implemented",
}

var industryWords = []string{
	"technologie", "finance", "healthcare", "education", "retail",
	"manufacturing", "consulting", "media", "telecommunications",
	"automotive", "aerospace", "fintech", "e-commerce", "gaming", "startup",
}

var dutchCities = []string{
	"amsterdam", "rotterdam", "den haag", "utrecht", "eindhoven", "tilburg",
	"groningen", "almere", "breda", "nijmegen", "enschede", "haarlem",
	"arnhem", "zaanstad", "amersfoort", "apeldoorn", "den bosch",
	"hoofddorp", "maastricht", "leiden", "dordrecht", "zoetermeer",
	"zwolle", "deventer",
}

var techFields = []string{
	"informatica", "computer", "software", "techniek", "engineering",
	"mathematics", "physics", "data science", "artificial intelligence",
}

// educationLevels orders degrees from lowest to highest.
var educationLevels = []string{"mbo", "hbo", "bachelor", "master", "phd"}

var knownInstitutions = []string{
	"universiteit", "hogeschool", "university", "college", "school",
	"tu delft", "uva", "vu", "erasmus", "tilburg", "groningen",
}

var languageVariants = map[string][]string{
	"nederlands": {"nederlands", "dutch"},
	"english":    {"english", "engels"},
	"german":     {"german", "duits", "deutsch"},
	"french":     {"french", "frans", "français"},
	"spanish":    {"spanish", "spaans", "español"},
}

// languageOrder fixes iteration order over languageVariants.
var languageOrder = []string{"nederlands", "english", "german", "french", "spanish"}

var proficiencyLevels = []struct {
	level      string
	indicators []string
}{
	{"native", []string{"moedertaal", "native", "mother tongue"}},
	{"fluent", []string{"vloeiend", "fluent", "vlot"}},
	{"advanced", []string{"gevorderd", "advanced", "goed"}},
	{"intermediate", []string{"gemiddeld", "intermediate", "basis"}},
	{"basic", []string{"basis", "basic", "elementair"}},
}

var (
	jobLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(.+?)\s+(?:bij|at|@)\s+(.+)`),
		regexp.MustCompile(`(?i)(.+?)\s+-\s+(.+)`),
		regexp.MustCompile(`(?i)(.+?)\s+\|\s+(.+)`),
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}\s*-\s*\d{4}`),
		regexp.MustCompile(`(?i)\d{4}\s*-\s*(?:heden|present|nu)`),
		regexp.MustCompile(`(?i)(?:jan|feb|mrt|apr|mei|jun|jul|aug|sep|okt|nov|dec)\s+\d{4}`),
	}
	yearRe        = regexp.MustCompile(`\d{4}`)
	yearsExpRe    = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:jaar|jaren|year|years)`)
	monthsExpRe   = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:maanden|months)`)
	nameLineRe    = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+`)
	emailRe       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	dutchPhoneRe  = regexp.MustCompile(`(?:\+31|0031|0)\s*[1-9]\s*\d{8}`)
	intlPhoneRe   = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)
	linkedinRe    = regexp.MustCompile(`(?i)linkedin\.com/in/[a-zA-Z0-9-]+`)
	githubRe      = regexp.MustCompile(`(?i)github\.com/[a-zA-Z0-9-]+`)
	degreeRe      = regexp.MustCompile(`(?i)(bachelor|master|phd|hbo|wo|mbo)\s+(.+)`)
	dashEntryRe   = regexp.MustCompile(`(?i)(.+?)\s+-\s+(.+)`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

// Analyzer builds CV profiles. The extracted skill set and the wishlist feed
// the assessment blend.
type Analyzer struct{}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze parses the CV text and computes the weighted assessment.
func (a *Analyzer) Analyze(text string, skills domain.SkillSet, desired []domain.DesiredSkill) domain.CVProfile {
	positions := parsePositions(text)
	totalYears := totalExperienceYears(text, positions)
	educations := parseEducation(text)
	highest := highestDegree(educations)
	tech := techRelevant(educations)
	matched, missing := matchWishlist(skills, desired)

	profile := domain.CVProfile{
		Personal:      parsePersonalInfo(text),
		Positions:     positions,
		TotalYears:    totalYears,
		Seniority:     seniority(totalYears),
		Achievements:  achievements(text),
		Industries:    industries(text),
		Educations:    educations,
		HighestDegree: highest,
		TechEducation: tech,
		Languages:     parseLanguages(text),
	}
	a.assess(&profile, skills.Total(), matched, missing, len(desired))
	return profile
}

// assess blends skills, experience, education and wishlist coverage into the
// overall assessment score and narrative.
func (a *Analyzer) assess(p *domain.CVProfile, totalSkills int, matched, missing []string, required int) {
	skillsScore := minInt(totalSkills*10, 100)
	experienceScore := minInt(p.TotalYears*15, 100)
	educationScore := 60
	if p.TechEducation {
		educationScore = 80
	}
	matchingScore := 0
	if required > 0 {
		matchingScore = int(math.Round(float64(len(matched)) / float64(required) * 100))
	}

	p.AssessmentScore = int(math.Round(
		float64(skillsScore)*weightSkills +
			float64(experienceScore)*weightExperience +
			float64(educationScore)*weightEducation +
			float64(matchingScore)*weightMatching))

	if totalSkills > 10 {
		p.Strengths = append(p.Strengths, "Uitgebreide technische vaardigheden")
	}
	if p.TotalYears > 5 {
		p.Strengths = append(p.Strengths, "Ruime werkervaring")
	}
	if p.TechEducation {
		p.Strengths = append(p.Strengths, "Relevante technische opleiding")
	}

	if len(missing) > 0 {
		top := missing
		if len(top) > 3 {
			top = top[:3]
		}
		p.Improvements = append(p.Improvements,
			fmt.Sprintf("Ontbrekende vaardigheden: %s", strings.Join(top, ", ")))
	}
	if p.TotalYears < 2 {
		p.Improvements = append(p.Improvements, "Beperkte werkervaring")
	}

	switch {
	case p.AssessmentScore >= 80:
		p.Recommendation = "Sterke kandidaat met uitstekende match"
	case p.AssessmentScore >= 60:
		p.Recommendation = "Goede kandidaat met potentieel"
	default:
		p.Recommendation = "Kandidaat heeft ontwikkeling nodig"
	}
}

// matchWishlist does loose substring matching of desired skills against the
// extracted set, either direction. This is coverage only; confidence-weighted
// matching happens at aggregation.
func matchWishlist(skills domain.SkillSet, desired []domain.DesiredSkill) (matched, missing []string) {
	var extracted []string
	for _, s := range skills.Flatten() {
		extracted = append(extracted, strings.ToLower(s.Name))
	}
	for _, d := range desired {
		want := strings.ToLower(d.Name)
		found := false
		for _, have := range extracted {
			if strings.Contains(have, want) || strings.Contains(want, have) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, want)
		} else {
			missing = append(missing, want)
		}
	}
	return matched, missing
}

// parsePositions walks the CV line by line, tracking whether the cursor is
// inside an experience section, and splits lines like "Developer bij Acme"
// into title and company.
func parsePositions(text string) []domain.Position {
	var positions []domain.Position
	var current *domain.Position
	lines := strings.Split(text, "\n")
	inSection := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		if containsAny(lower, experienceSectionWords) {
			inSection = true
			continue
		}
		if containsAny(lower, educationSectionWords[:4]) ||
			strings.Contains(lower, "vaardigheden") || strings.Contains(lower, "skills") {
			inSection = false
			if current != nil {
				positions = append(positions, *current)
				current = nil
			}
		}

		if inSection && len(line) > 10 {
			hi := i + 3
			if hi > len(lines) {
				hi = len(lines)
			}
			if pos := parseJobLine(line, strings.Join(lines[i:hi], " ")); pos != nil {
				if current != nil {
					positions = append(positions, *current)
				}
				current = pos
			} else if current != nil {
				current.Description += " " + line
			}
		}
	}
	if current != nil {
		positions = append(positions, *current)
	}
	return positions
}

func parseJobLine(line, context string) *domain.Position {
	for _, re := range jobLinePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		dates := extractDates(context)
		return &domain.Position{
			Title:   strings.TrimSpace(m[1]),
			Company: strings.TrimSpace(m[2]),
			Dates:   dates,
			Years:   durationYears(dates),
		}
	}
	return nil
}

func extractDates(text string) []string {
	var dates []string
	for _, re := range datePatterns {
		dates = append(dates, re.FindAllString(text, -1)...)
	}
	return dates
}

// durationYears derives a span from the first two four-digit years found.
func durationYears(dates []string) int {
	years := yearRe.FindAllString(strings.Join(dates, " "), -1)
	if len(years) < 2 {
		return 0
	}
	start, _ := strconv.Atoi(years[0])
	end, _ := strconv.Atoi(years[1])
	if end < start {
		return 0
	}
	return end - start
}

// totalExperienceYears prefers an explicit "N jaar ervaring" style mention;
// the maximum mentioned count wins. Without one it sums position spans,
// counting spanless positions as one year each.
func totalExperienceYears(text string, positions []domain.Position) int {
	total := 0
	for _, m := range yearsExpRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > total {
			total = n
		}
	}
	for _, m := range monthsExpRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n/12 > total {
			total = n / 12
		}
	}
	if total == 0 {
		for _, p := range positions {
			if p.Years > 0 {
				total += p.Years
			} else {
				total++
			}
		}
	}
	return total
}

func seniority(years int) string {
	switch {
	case years >= 8:
		return "Senior"
	case years >= 4:
		return "Medior"
	case years >= 1:
		return "Junior"
	default:
		return "Starter"
	}
}

func achievements(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if containsAny(strings.ToLower(s), achievementWords) {
			out = append(out, strings.TrimSpace(s))
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

func industries(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, ind := range industryWords {
		if strings.Contains(lower, ind) {
			out = append(out, ind)
		}
	}
	return out
}

func parsePersonalInfo(text string) domain.PersonalInfo {
	info := domain.PersonalInfo{}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		if len(line) > 2 && len(line) < 50 && nameLineRe.MatchString(line) {
			info.Name = line
			break
		}
	}

	info.Email = emailRe.FindString(text)
	if phone := dutchPhoneRe.FindString(text); phone != "" {
		info.Phone = phone
	} else {
		info.Phone = intlPhoneRe.FindString(text)
	}

	lower := strings.ToLower(text)
	for _, city := range dutchCities {
		if strings.Contains(lower, city) {
			info.Location = strings.ToUpper(city[:1]) + city[1:]
			break
		}
	}
	info.LinkedIn = linkedinRe.FindString(text)
	info.GitHub = githubRe.FindString(text)
	return info
}

func parseEducation(text string) []domain.Education {
	var entries []domain.Education
	inSection := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)
		if containsAny(lower, educationSectionWords) {
			inSection = true
			if e := parseEducationLine(line); e != nil {
				entries = append(entries, *e)
			}
		} else if inSection && len(line) > 10 {
			if e := parseEducationLine(line); e != nil {
				entries = append(entries, *e)
			}
		}
	}
	return entries
}

func parseEducationLine(line string) *domain.Education {
	if m := degreeRe.FindStringSubmatch(line); m != nil {
		return &domain.Education{
			Degree:      strings.TrimSpace(m[1]),
			Field:       strings.TrimSpace(m[2]),
			Institution: institution(line),
		}
	}
	if m := dashEntryRe.FindStringSubmatch(line); m != nil {
		return &domain.Education{
			Degree:      strings.TrimSpace(m[1]),
			Field:       strings.TrimSpace(m[2]),
			Institution: institution(line),
		}
	}
	return nil
}

func institution(line string) string {
	lower := strings.ToLower(line)
	for _, inst := range knownInstitutions {
		if strings.Contains(lower, inst) {
			return inst
		}
	}
	return ""
}

func highestDegree(entries []domain.Education) string {
	highest := -1
	for _, e := range entries {
		degree := strings.ToLower(e.Degree)
		for i, level := range educationLevels {
			if strings.Contains(degree, level) && i > highest {
				highest = i
			}
		}
	}
	if highest < 0 {
		return "unknown"
	}
	return educationLevels[highest]
}

func techRelevant(entries []domain.Education) bool {
	for _, e := range entries {
		for _, f := range techFields {
			if strings.Contains(strings.ToLower(e.Field), f) ||
				strings.Contains(strings.ToLower(e.Degree), f) {
				return true
			}
		}
	}
	return false
}

// parseLanguages detects language mentions and infers proficiency from a
// +/-30 character window around the mention.
func parseLanguages(text string) []domain.LanguageSkill {
	lower := strings.ToLower(text)
	var out []domain.LanguageSkill
	for _, lang := range languageOrder {
		for _, variant := range languageVariants[lang] {
			idx := strings.Index(lower, variant)
			if idx < 0 {
				continue
			}
			lo := idx - 30
			if lo < 0 {
				lo = 0
			}
			hi := idx + len(variant) + 30
			if hi > len(lower) {
				hi = len(lower)
			}
			out = append(out, domain.LanguageSkill{
				Language:    lang,
				Proficiency: proficiencyFromContext(lower[lo:hi]),
			})
			break
		}
	}
	return out
}

func proficiencyFromContext(context string) string {
	for _, p := range proficiencyLevels {
		if containsAny(context, p.indicators) {
			return p.level
		}
	}
	return "intermediate"
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
