// Package catalog holds the static keyword tables that drive skill
// extraction, confidence scoring and text analysis. The tables are embedded
// at build time, loaded once at process start and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/talentsift/candidate-screener/internal/domain"
)

//go:embed data.yaml
var rawCatalog []byte

// KeywordGroup is a named, ordered keyword set. Declaration order in the
// data file is the deterministic iteration order for scoring.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// ContextIndicators lists positive and negative context words around a
// skill mention.
type ContextIndicators struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// EvidenceTiers lists evidence words by claim strength.
type EvidenceTiers struct {
	Strong []string `yaml:"strong"`
	Medium []string `yaml:"medium"`
	Weak   []string `yaml:"weak"`
}

// SentimentWords lists polarity indicator words.
type SentimentWords struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// ToneWords lists professional vs informal register indicators.
type ToneWords struct {
	Professional []string `yaml:"professional"`
	Informal     []string `yaml:"informal"`
}

// ClarityIndicators drive the clarity sub-score of transcript analysis.
type ClarityIndicators struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Fillers  []string `yaml:"fillers"`
}

// ConfidenceIndicators drive the spoken-confidence sub-score.
type ConfidenceIndicators struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
	Low    []string `yaml:"low"`
}

// TechnicalIndicators drive the technical-communication sub-score.
type TechnicalIndicators struct {
	Terms         []string `yaml:"terms"`
	Methodologies []string `yaml:"methodologies"`
	Languages     []string `yaml:"languages"`
}

// Communication groups all transcript indicator lists.
type Communication struct {
	Clarity        ClarityIndicators    `yaml:"clarity"`
	Confidence     ConfidenceIndicators `yaml:"confidence"`
	Technical      TechnicalIndicators  `yaml:"technical"`
	Leadership     []string             `yaml:"leadership"`
	ProblemSolving []string             `yaml:"problem_solving"`
}

// Catalog is the full keyword catalog.
type Catalog struct {
	Skills               map[domain.SkillCategory][]string `yaml:"skills"`
	ExperienceIndicators []string                          `yaml:"experience_indicators"`
	Context              ContextIndicators                 `yaml:"context"`
	Evidence             EvidenceTiers                     `yaml:"evidence"`
	SeniorityTerms       []string                          `yaml:"seniority_terms"`
	RelatedTerms         map[string][]string               `yaml:"related_terms"`
	Stopwords            []string                          `yaml:"stopwords"`
	SemanticDomains      []KeywordGroup                    `yaml:"semantic_domains"`
	Sentiment            SentimentWords                    `yaml:"sentiment"`
	Tone                 ToneWords                         `yaml:"tone"`
	Topics               []KeywordGroup                    `yaml:"topics"`
	Communication        Communication                     `yaml:"communication"`
	Personality          []KeywordGroup                    `yaml:"personality"`

	stopwordSet map[string]struct{}
}

// Load parses the embedded catalog data.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(rawCatalog, &c); err != nil {
		return nil, fmt.Errorf("op=catalog.Load: %w", err)
	}
	for _, cat := range domain.SkillCategories {
		if len(c.Skills[cat]) == 0 {
			return nil, fmt.Errorf("op=catalog.Load: category %q has no terms", cat)
		}
	}
	c.stopwordSet = make(map[string]struct{}, len(c.Stopwords))
	for _, w := range c.Stopwords {
		c.stopwordSet[w] = struct{}{}
	}
	return &c, nil
}

var defaultOnce = sync.OnceValues(Load)

// Default returns the process-wide catalog instance.
func Default() (*Catalog, error) { return defaultOnce() }

// IsStopword reports whether the lowercased word is in the stopword set.
func (c *Catalog) IsStopword(w string) bool {
	_, ok := c.stopwordSet[strings.ToLower(w)]
	return ok
}

// Related returns the related-terms fallback list for a lowercased skill
// name, or nil when none is defined.
func (c *Catalog) Related(skill string) []string {
	return c.RelatedTerms[strings.ToLower(skill)]
}
