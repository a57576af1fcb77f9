// Package skills implements catalog-based skill extraction over normalized
// document text. It is the in-process implementation of the
// domain.SkillExtractor strategy; an external NLP sidecar client provides
// the enhanced alternative.
package skills

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/domain"
	"github.com/talentsift/candidate-screener/pkg/textx"
)

const contextWindow = 50

// Extractor scans normalized text against the keyword catalog.
type Extractor struct {
	cat   *catalog.Catalog
	terms map[domain.SkillCategory][]termPattern
}

type termPattern struct {
	term string
	re   *regexp.Regexp
}

// NewExtractor compiles the catalog terms into whole-word patterns.
func NewExtractor(cat *catalog.Catalog) *Extractor {
	terms := make(map[domain.SkillCategory][]termPattern, len(domain.SkillCategories))
	for _, c := range domain.SkillCategories {
		patterns := make([]termPattern, 0, len(cat.Skills[c]))
		for _, t := range cat.Skills[c] {
			patterns = append(patterns, termPattern{
				term: t,
				re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`),
			})
		}
		terms[c] = patterns
	}
	return &Extractor{cat: cat, terms: terms}
}

// ExtractSkills returns all catalog hits grouped by category. Within a
// category entries follow catalog order. Empty or whitespace-only input
// yields an empty set; extraction never fails on well-formed text.
func (e *Extractor) ExtractSkills(_ context.Context, text string) (domain.SkillSet, error) {
	set := make(domain.SkillSet, len(domain.SkillCategories))
	for _, c := range domain.SkillCategories {
		set[c] = nil
	}
	clean := textx.Normalize(text)
	if clean == "" {
		return set, nil
	}
	for _, c := range domain.SkillCategories {
		for _, tp := range e.terms[c] {
			locs := tp.re.FindAllStringIndex(clean, -1)
			if len(locs) == 0 {
				continue
			}
			first := locs[0]
			set[c] = append(set[c], domain.ExtractedSkill{
				Name:       tp.term,
				Category:   c,
				Confidence: e.termConfidence(clean, len(locs)),
				Context:    window(clean, first[0], first[1]),
				Start:      first[0],
				End:        first[1],
			})
		}
	}
	return set, nil
}

// termConfidence derives the raw confidence from occurrence count, boosted
// per experience-indicator word co-occurring in the text.
func (e *Extractor) termConfidence(clean string, occurrences int) float64 {
	conf := math.Min(0.5+float64(occurrences)*0.2, 1.0)
	for _, ind := range e.cat.ExperienceIndicators {
		if strings.Contains(clean, ind) {
			conf = math.Min(conf+0.2, 1.0)
		}
	}
	return math.Round(conf*100) / 100
}

func window(s string, start, end int) string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(s) {
		hi = len(s)
	}
	return s[lo:hi]
}
