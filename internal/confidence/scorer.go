// Package confidence recomputes skill confidence from four weighted context
// signals: context relevance, experience level, evidence strength and
// mention frequency.
package confidence

import (
	"math"
	"strings"

	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/domain"
)

// Factor weights; together they sum to 1.
const (
	weightContextRelevance = 0.3
	weightExperienceLevel  = 0.25
	weightEvidenceStrength = 0.25
	weightFrequencyMention = 0.2
)

const contextWindow = 50

// Scorer enhances raw extraction confidences against the full document text.
type Scorer struct {
	cat *catalog.Catalog
}

// NewScorer constructs a Scorer over the given catalog.
func NewScorer(cat *catalog.Catalog) *Scorer { return &Scorer{cat: cat} }

// Enhance recomputes the confidence for one extracted skill. It always
// returns a complete result; missing signals fall back to neutral defaults.
func (s *Scorer) Enhance(skill domain.ExtractedSkill, fullText string, experienceYears int) domain.EnhancedConfidence {
	factors := domain.ConfidenceFactors{
		ContextRelevance: s.contextRelevance(skill.Name, fullText),
		ExperienceLevel:  s.experienceLevel(skill.Name, experienceYears),
		EvidenceStrength: s.evidenceStrength(fullText),
		FrequencyMention: s.frequencyMention(skill.Name, fullText),
	}
	weighted := factors.ContextRelevance*weightContextRelevance +
		factors.ExperienceLevel*weightExperienceLevel +
		factors.EvidenceStrength*weightEvidenceStrength +
		factors.FrequencyMention*weightFrequencyMention

	enhanced := skill.Confidence*0.4 + weighted*0.6
	enhanced = math.Min(1.0, math.Max(0.1, enhanced))

	out := domain.EnhancedConfidence{
		Skill:              skill.Name,
		OriginalConfidence: skill.Confidence,
		EnhancedConfidence: enhanced,
		Factors:            factors,
		Level:              level(enhanced),
	}
	s.describe(&out)
	return out
}

// EnhanceAll enhances every skill in the set, in flattened category order.
func (s *Scorer) EnhanceAll(set domain.SkillSet, fullText string, experienceYears int) []domain.EnhancedConfidence {
	flat := set.Flatten()
	out := make([]domain.EnhancedConfidence, 0, len(flat))
	for _, sk := range flat {
		out = append(out, s.Enhance(sk, fullText, experienceYears))
	}
	return out
}

// contextRelevance weighs positive against negative indicator words in a
// +/-50 character window around the first mention. A skill not found
// verbatim scores the 0.3 default.
func (s *Scorer) contextRelevance(name, fullText string) float64 {
	skill := strings.ToLower(name)
	text := strings.ToLower(fullText)
	idx := strings.Index(text, skill)
	if idx < 0 {
		return 0.3
	}
	lo := idx - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := idx + len(skill) + contextWindow
	if hi > len(text) {
		hi = len(text)
	}
	window := text[lo:hi]

	positive := countContained(window, s.cat.Context.Positive)
	negative := countContained(window, s.cat.Context.Negative)
	switch {
	case positive > negative:
		return math.Min(1.0, 0.6+float64(positive)*0.1)
	case negative > positive:
		return math.Max(0.2, 0.5-float64(negative)*0.1)
	default:
		return 0.5
	}
}

// experienceLevel tiers by total years, with a seniority-term override when
// the skill name itself signals a senior role.
func (s *Scorer) experienceLevel(name string, years int) float64 {
	switch {
	case years >= 5:
		return 0.9
	case years >= 3:
		return 0.7
	case years >= 1:
		return 0.5
	}
	skill := strings.ToLower(name)
	for _, t := range s.cat.SeniorityTerms {
		if strings.Contains(skill, t) {
			return 0.8
		}
	}
	return 0.4
}

// evidenceStrength weighs strong/medium/weak evidence words present in the
// document, normalized to [0,1].
func (s *Scorer) evidenceStrength(fullText string) float64 {
	text := strings.ToLower(fullText)
	score := float64(countContained(text, s.cat.Evidence.Strong))*0.8 +
		float64(countContained(text, s.cat.Evidence.Medium))*0.5 +
		float64(countContained(text, s.cat.Evidence.Weak))*0.2
	return math.Min(1.0, score/3)
}

// frequencyMention tiers by direct mentions plus half-weighted related-term
// mentions.
func (s *Scorer) frequencyMention(name, fullText string) float64 {
	skill := strings.ToLower(name)
	text := strings.ToLower(fullText)
	total := float64(strings.Count(text, skill))
	for _, term := range s.cat.Related(skill) {
		total += 0.5 * float64(strings.Count(text, term))
	}
	switch {
	case total >= 5:
		return 1.0
	case total >= 3:
		return 0.8
	case total >= 2:
		return 0.6
	case total >= 1:
		return 0.4
	default:
		return 0.2
	}
}

func level(c float64) domain.ConfidenceLevel {
	switch {
	case c >= 0.8:
		return domain.ConfidenceVeryHigh
	case c >= 0.6:
		return domain.ConfidenceHigh
	case c >= 0.4:
		return domain.ConfidenceMedium
	case c >= 0.2:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceVeryLow
	}
}

var factorDescriptions = map[string][2]string{
	"context_relevance": {
		"Vaardigheid wordt genoemd in sterke professionele context",
		"Vaardigheid mist duidelijke professionele context",
	},
	"experience_level": {
		"Duidelijke ervaring en senioriteit aangetoond",
		"Beperkte ervaring of beginnend niveau",
	},
	"evidence_strength": {
		"Sterke bewijzen zoals projecten en certificeringen",
		"Weinig concrete bewijzen voor vaardigheid",
	},
	"frequency_mention": {
		"Vaardigheid wordt frequent genoemd",
		"Vaardigheid wordt zelden genoemd",
	},
}

// describe fills the human-readable strengths/weaknesses/recommendations.
func (s *Scorer) describe(ec *domain.EnhancedConfidence) {
	for _, f := range []struct {
		key   string
		score float64
	}{
		{"context_relevance", ec.Factors.ContextRelevance},
		{"experience_level", ec.Factors.ExperienceLevel},
		{"evidence_strength", ec.Factors.EvidenceStrength},
		{"frequency_mention", ec.Factors.FrequencyMention},
	} {
		d := factorDescriptions[f.key]
		if f.score >= 0.7 {
			ec.Strengths = append(ec.Strengths, d[0])
		} else if f.score <= 0.3 {
			ec.Weaknesses = append(ec.Weaknesses, d[1])
		}
	}
	if ec.EnhancedConfidence < 0.5 {
		ec.Recommendations = append(ec.Recommendations,
			"Voeg meer specifieke voorbeelden toe van projecten waar deze vaardigheid is gebruikt",
			"Vermeld certificeringen of trainingen gerelateerd aan deze vaardigheid")
	} else if ec.EnhancedConfidence < 0.7 {
		ec.Recommendations = append(ec.Recommendations,
			"Beschrijf concrete resultaten behaald met deze vaardigheid")
	}
}

func countContained(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
