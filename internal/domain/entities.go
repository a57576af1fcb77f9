// Package domain holds the core entities, ports and error taxonomy of the
// candidate screening pipeline.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels). Stage sentinels tag which pipeline stage failed
// so callers can tell CV processing apart from audio processing; upstream
// failures are never masked with synthetic data.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("collaborator unavailable")
	ErrCVProcessing    = errors.New("cv processing failed")
	ErrAudioProcessing = errors.New("audio processing failed")
	ErrAnalysis        = errors.New("candidate analysis failed")
)

// SourceKind identifies where a document's text came from.
type SourceKind string

const (
	SourceCV         SourceKind = "cv"
	SourceTranscript SourceKind = "transcript"
)

// Document is an immutable text input produced by an external collaborator
// (PDF extraction or speech-to-text). SourceConfidence is 0 when the
// collaborator reported none.
type Document struct {
	RawText          string
	Kind             SourceKind
	Length           int
	ExtractedAt      time.Time
	SourceConfidence float64
}

// NewDocument builds a Document for raw collaborator output.
func NewDocument(text string, kind SourceKind, confidence float64) Document {
	return Document{
		RawText:          text,
		Kind:             kind,
		Length:           len(text),
		ExtractedAt:      time.Now().UTC(),
		SourceConfidence: confidence,
	}
}

// SkillCategory is the closed set of catalog categories.
type SkillCategory string

const (
	CategoryProgrammingLanguage SkillCategory = "programming_language"
	CategoryFramework           SkillCategory = "framework"
	CategoryTool                SkillCategory = "tool"
	CategoryCloudPlatform       SkillCategory = "cloud_platform"
	CategoryDatabase            SkillCategory = "database"
	CategorySoftSkill           SkillCategory = "soft_skill"
	CategoryMethodology         SkillCategory = "methodology"
	CategoryHumanLanguage       SkillCategory = "human_language"
)

// SkillCategories lists all categories in a fixed, deterministic order.
var SkillCategories = []SkillCategory{
	CategoryProgrammingLanguage,
	CategoryFramework,
	CategoryTool,
	CategoryCloudPlatform,
	CategoryDatabase,
	CategorySoftSkill,
	CategoryMethodology,
	CategoryHumanLanguage,
}

// ExtractedSkill is a single catalog hit in a document. Confidence is the raw
// extraction confidence in [0,1]; Context is a window around the first match.
type ExtractedSkill struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Confidence float64       `json:"confidence"`
	Context    string        `json:"context,omitempty"`
	Start      int           `json:"start"`
	End        int           `json:"end"`
}

// SkillSet groups extracted skills by category. Entries within a category
// follow catalog order, not confidence order.
type SkillSet map[SkillCategory][]ExtractedSkill

// Flatten returns all skills across categories in fixed category order.
func (s SkillSet) Flatten() []ExtractedSkill {
	var out []ExtractedSkill
	for _, cat := range SkillCategories {
		out = append(out, s[cat]...)
	}
	return out
}

// Total counts all extracted skills across categories.
func (s SkillSet) Total() int {
	n := 0
	for _, skills := range s {
		n += len(skills)
	}
	return n
}

// SkillExtractor is the extraction strategy port. Implementations must never
// fail on well-formed input text; empty input yields an empty SkillSet.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string) (SkillSet, error)
}

// ConfidenceLevel buckets an enhanced confidence score.
type ConfidenceLevel string

const (
	ConfidenceVeryLow  ConfidenceLevel = "zeer_laag"
	ConfidenceLow      ConfidenceLevel = "laag"
	ConfidenceMedium   ConfidenceLevel = "gemiddeld"
	ConfidenceHigh     ConfidenceLevel = "hoog"
	ConfidenceVeryHigh ConfidenceLevel = "zeer_hoog"
)

// ConfidenceFactors is the weighted-signal breakdown behind an enhanced
// confidence score; every field is in [0,1].
type ConfidenceFactors struct {
	ContextRelevance float64 `json:"context_relevance"`
	ExperienceLevel  float64 `json:"experience_level"`
	EvidenceStrength float64 `json:"evidence_strength"`
	FrequencyMention float64 `json:"frequency_mention"`
}

// EnhancedConfidence is the recomputed confidence for one extracted skill.
type EnhancedConfidence struct {
	Skill              string            `json:"skill"`
	OriginalConfidence float64           `json:"original_confidence"`
	EnhancedConfidence float64           `json:"enhanced_confidence"`
	Factors            ConfidenceFactors `json:"factors"`
	Level              ConfidenceLevel   `json:"level"`
	Strengths          []string          `json:"strengths"`
	Weaknesses         []string          `json:"weaknesses"`
	Recommendations    []string          `json:"recommendations"`
}

// Priority weights a desired skill in the wishlist.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight maps a priority to its fixed scoring weight.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// DesiredSkill is a caller-supplied wishlist entry.
type DesiredSkill struct {
	Name     string   `json:"name"`
	Priority Priority `json:"priority"`
}

// SkillMatch records how one desired skill matched the candidate's evidence.
// Score is Confidence x Weight and is always 0 when Found is false.
type SkillMatch struct {
	Skill      string        `json:"skill"`
	Priority   Priority      `json:"priority"`
	Weight     int           `json:"weight"`
	Found      bool          `json:"found"`
	Confidence float64       `json:"confidence"`
	Score      float64       `json:"score"`
	Source     []string      `json:"source"`
	Category   SkillCategory `json:"category,omitempty"`
}

// CandidateCategory labels the final assessment tier.
type CandidateCategory string

const (
	CategoryHighMatch         CandidateCategory = "high_match"
	CategoryGoodCommunication CandidateCategory = "good_communication"
	CategoryPotential         CandidateCategory = "potential"
	CategoryUnderqualified    CandidateCategory = "underqualified"
)

// CandidateReport is the root aggregate returned for one analysis run. It has
// no lifecycle beyond the request that produced it.
type CandidateReport struct {
	ID              string                `json:"id"`
	OverallScore    int                   `json:"overall_score"`
	NLPScore        int                   `json:"nlp_score"`
	SkillMatchScore int                   `json:"skill_match_score"`
	Category        CandidateCategory     `json:"category"`
	SkillMatches    []SkillMatch          `json:"skill_matches"`
	ExtractedSkills []ExtractedSkill      `json:"extracted_skills"`
	Confidences     []EnhancedConfidence  `json:"skill_confidences"`
	Strengths       []string              `json:"strengths"`
	Weaknesses      []string              `json:"weaknesses"`
	Recommendation  string                `json:"recommendation"`
	Profile         CVProfile             `json:"profile"`
	Analytics       AnalyticsReport       `json:"analytics"`
	Communication   CommunicationAnalysis `json:"communication"`
	AnalyzedAt      time.Time             `json:"analyzed_at"`
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp0100 clamps v into [0,100].
func Clamp0100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
