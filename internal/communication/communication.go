// Package communication scores interview transcripts on clarity, spoken
// confidence, fluency and technical register, and derives personality traits
// and soft-skill signals from indicator word counts.
package communication

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/domain"
)

// minTranscriptLen is the cutoff below which a transcript carries too little
// signal to score; shorter input yields the no-data result.
const minTranscriptLen = 50

const defaultBaseScore = 75

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Analyzer scores transcripts against the catalog's communication indicators.
type Analyzer struct {
	cat *catalog.Catalog
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(cat *catalog.Catalog) *Analyzer { return &Analyzer{cat: cat} }

// Analyze scores a transcript. meta may be nil when the transcriber reported
// no confidence or language. Transcripts under 50 characters return the
// no-data result with LanguageProficiency "unknown" and all scores zero.
func (a *Analyzer) Analyze(transcript string, meta *domain.Transcription) domain.CommunicationAnalysis {
	if len(transcript) < minTranscriptLen {
		return domain.CommunicationAnalysis{
			PersonalityTraits:   []domain.PersonalityTrait{},
			Insights:            []string{},
			KeyPoints:           []string{},
			LanguageProficiency: "unknown",
		}
	}

	lower := strings.ToLower(transcript)
	words := strings.Fields(lower)
	scoring := sentencesLongerThan(transcript, 10)

	base := defaultBaseScore
	if meta != nil && meta.Confidence > 0 {
		base = int(math.Round(meta.Confidence * 100))
	}

	clarity := a.clarityScore(lower, words, scoring, base)
	confidence := a.confidenceScore(lower, base)
	fluency := a.fluencyScore(words, scoring, base)
	technical := a.technicalScore(lower)
	quality := int(math.Round(float64(clarity+confidence+fluency+technical) / 4))

	traits, traitConfidence, traitInsights := a.personality(lower)
	leadership := clamp0100(countAll(lower, a.cat.Communication.Leadership) * 15)
	problemSolving := clamp0100(countAll(lower, a.cat.Communication.ProblemSolving) * 12)

	insights := a.qualityInsights(clarity, confidence, technical, meta)
	insights = append(insights, traitInsights...)
	insights = append(insights, softSkillInsights(leadership, problemSolving)...)

	overall := int(math.Round(
		(float64(quality) + float64(traitConfidence) +
			float64(leadership+problemSolving)/2) / 3))

	return domain.CommunicationAnalysis{
		Clarity:                clarity,
		Confidence:             confidence,
		Fluency:                fluency,
		TechnicalCommunication: technical,
		OverallScore:           overall,
		PersonalityTraits:      traits,
		PersonalityConfidence:  traitConfidence,
		LeadershipScore:        leadership,
		ProblemSolvingScore:    problemSolving,
		Insights:               insights,
		KeyPoints:              keyPoints(transcript),
		LanguageProficiency:    proficiency(meta),
		WordCount:              len(words),
		SentenceCount:          len(scoring),
	}
}

// clarityScore rewards explicit phrasing, penalizes vagueness and filler
// density, and grants a small bonus for well-sized sentences.
func (a *Analyzer) clarityScore(lower string, words, sentences []string, base int) int {
	score := base
	score += countAll(lower, a.cat.Communication.Clarity.Positive) * 3
	score -= countAll(lower, a.cat.Communication.Clarity.Negative) * 2

	fillers := countAll(lower, a.cat.Communication.Clarity.Fillers)
	if len(words) > 0 {
		score -= int(math.Round(float64(fillers) / float64(len(words)) * 100))
	}

	if len(sentences) > 0 {
		avg := float64(len(words)) / float64(len(sentences))
		if avg >= 8 && avg <= 20 {
			score += 5
		}
	}
	return clamp0100(score)
}

func (a *Analyzer) confidenceScore(lower string, base int) int {
	score := base
	score += countAll(lower, a.cat.Communication.Confidence.High) * 5
	score += countAll(lower, a.cat.Communication.Confidence.Medium) * 2
	score -= countAll(lower, a.cat.Communication.Confidence.Low) * 3
	return clamp0100(score)
}

// fluencyScore penalizes heavy word repetition and rewards sentence length
// variety.
func (a *Analyzer) fluencyScore(words, sentences []string, base int) int {
	score := base

	freq := make(map[string]int)
	for _, w := range words {
		if len(w) > 3 {
			freq[w]++
		}
	}
	repetitions := 0
	for _, n := range freq {
		if n > 3 {
			repetitions++
		}
	}
	score -= repetitions * 2

	if len(sentences) > 0 {
		lengths := make([]float64, len(sentences))
		sum := 0.0
		for i, s := range sentences {
			lengths[i] = float64(len(strings.Fields(s)))
			sum += lengths[i]
		}
		mean := sum / float64(len(lengths))
		variance := 0.0
		for _, l := range lengths {
			variance += (l - mean) * (l - mean)
		}
		variance /= float64(len(lengths))
		if variance > 10 {
			score += 5
		}
	}
	return clamp0100(score)
}

func (a *Analyzer) technicalScore(lower string) int {
	score := 60
	score += countAll(lower, a.cat.Communication.Technical.Terms) * 4
	score += countAll(lower, a.cat.Communication.Technical.Methodologies) * 5
	score += countAll(lower, a.cat.Communication.Technical.Languages) * 3
	return clamp0100(score)
}

// personality scores each trait dimension by indicator occurrences, keeps the
// top three and derives the analysis confidence from the strongest trait.
// Score ties break on trait name for deterministic output.
func (a *Analyzer) personality(lower string) ([]domain.PersonalityTrait, int, []string) {
	var traits []domain.PersonalityTrait
	for _, g := range a.cat.Personality {
		hits := countAll(lower, g.Keywords)
		if hits == 0 {
			continue
		}
		var matched []string
		for _, ind := range g.Keywords {
			if strings.Contains(lower, ind) {
				matched = append(matched, ind)
			}
		}
		traits = append(traits, domain.PersonalityTrait{
			Trait:      g.Name,
			Score:      clamp0100(hits * 10),
			Indicators: matched,
		})
	}
	sort.Slice(traits, func(i, j int) bool {
		if traits[i].Score != traits[j].Score {
			return traits[i].Score > traits[j].Score
		}
		return traits[i].Trait < traits[j].Trait
	})

	confidence := 0
	if len(traits) > 0 {
		confidence = traits[0].Score
		if confidence > 85 {
			confidence = 85
		}
	}
	insights := personalityInsights(traits)
	if len(traits) > 3 {
		traits = traits[:3]
	}
	return traits, confidence, insights
}

func (a *Analyzer) qualityInsights(clarity, confidence, technical int, meta *domain.Transcription) []string {
	var insights []string
	switch {
	case clarity >= 85:
		insights = append(insights, "Zeer heldere en duidelijke communicatie")
	case clarity >= 70:
		insights = append(insights, "Goede communicatiehelderheid")
	case clarity < 60:
		insights = append(insights, "Communicatie kan duidelijker en gestructureerder")
	}
	if confidence >= 85 {
		insights = append(insights, "Toont hoog zelfvertrouwen in antwoorden")
	} else if confidence < 60 {
		insights = append(insights, "Zou meer zelfvertrouwen kunnen tonen")
	}
	switch {
	case technical >= 80:
		insights = append(insights, "Sterke technische communicatievaardigheden")
	case technical >= 60:
		insights = append(insights, "Adequate technische communicatie")
	default:
		insights = append(insights, "Technische communicatie kan worden verbeterd")
	}
	if meta != nil && meta.Confidence > 0 {
		if meta.Confidence >= 0.9 {
			insights = append(insights, "Zeer duidelijke uitspraak en articulatie")
		} else if meta.Confidence < 0.7 {
			insights = append(insights, "Uitspraak of audio kwaliteit kan beter")
		}
	}
	return insights
}

var traitInsightText = map[string]string{
	"analytical":      "Toont analytische denkwijze en systematische aanpak",
	"creative":        "Demonstreert creativiteit en innovatief denken",
	"collaborative":   "Sterke focus op samenwerking en teamwork",
	"detail_oriented": "Aandacht voor detail en nauwkeurigheid",
	"adaptable":       "Flexibel en aanpasbaar in verschillende situaties",
}

func personalityInsights(traits []domain.PersonalityTrait) []string {
	if len(traits) == 0 {
		return []string{"Onvoldoende data voor persoonlijkheidsanalyse"}
	}
	var insights []string
	if text, ok := traitInsightText[traits[0].Trait]; ok {
		insights = append(insights, text)
	}
	if len(traits) > 1 {
		insights = append(insights, fmt.Sprintf("Toont ook kenmerken van %s",
			strings.ReplaceAll(traits[1].Trait, "_", " ")))
	}
	return insights
}

func softSkillInsights(leadership, problemSolving int) []string {
	var insights []string
	if leadership >= 70 {
		insights = append(insights, "Sterke leiderschapsvaardigheden en teamgerichtheid")
	} else if leadership >= 40 {
		insights = append(insights, "Toont potentieel voor leiderschapsrollen")
	}
	if problemSolving >= 70 {
		insights = append(insights, "Uitstekende probleemoplossende vaardigheden")
	} else if problemSolving >= 40 {
		insights = append(insights, "Goede analytische en probleemoplossende aanpak")
	}
	if leadership < 30 && problemSolving < 30 {
		insights = append(insights, "Meer focus op soft skills ontwikkeling aanbevolen")
	}
	return insights
}

// keyPoints returns up to four substantial sentences as discussion points.
func keyPoints(transcript string) []string {
	points := []string{}
	for _, s := range sentencesLongerThan(transcript, 20) {
		points = append(points, strings.TrimSpace(s))
		if len(points) == 4 {
			break
		}
	}
	return points
}

// proficiency tiers Dutch transcription confidence; other languages or
// missing metadata default to intermediate.
func proficiency(meta *domain.Transcription) string {
	if meta == nil || meta.Language != "nl" || meta.Confidence <= 0 {
		return "intermediate"
	}
	confidence := int(math.Round(meta.Confidence * 100))
	switch {
	case confidence >= 90:
		return "native"
	case confidence >= 80:
		return "fluent"
	case confidence >= 70:
		return "intermediate"
	default:
		return "basic"
	}
}

func sentencesLongerThan(text string, minLen int) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if len(strings.TrimSpace(s)) > minLen {
			out = append(out, s)
		}
	}
	return out
}

func countAll(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}

func clamp0100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
