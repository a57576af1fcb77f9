// Package analytics computes readability, complexity, semantic and
// structural metrics over raw document text. Analysis is a pure function of
// its input: no state, no randomness, identical output for identical text.
package analytics

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/domain"
	"github.com/talentsift/candidate-screener/pkg/textx"
)

var (
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	allCapsRe   = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	bulletRe    = regexp.MustCompile(`^[-•*]\s`)
	numberedRe  = regexp.MustCompile(`^\d+\.\s`)
	emailRe     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe     = regexp.MustCompile(`[+]?[\d\s\-()]{10,}`)
	urlRe       = regexp.MustCompile(`https?://\S+`)
	alphaRe     = regexp.MustCompile(`^[a-zA-Z]+$`)
)

const topKeywords = 20

// Engine computes analytics reports against the catalog's keyword sets.
type Engine struct {
	cat *catalog.Catalog
}

// NewEngine constructs an analytics Engine.
func NewEngine(cat *catalog.Catalog) *Engine { return &Engine{cat: cat} }

// Analyze produces the full analytics report. Empty or whitespace-only text
// yields a well-formed zero report with neutral sentiment.
func (e *Engine) Analyze(text string) domain.AnalyticsReport {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return emptyReport()
	}
	words := textx.Words(clean)
	if len(words) == 0 {
		return emptyReport()
	}
	sentences := textx.Sentences(clean)
	return domain.AnalyticsReport{
		Readability: e.readability(words, sentences),
		Complexity:  e.complexity(clean, words, sentences),
		Semantics:   e.semantics(clean),
		Structure:   e.structure(clean, sentences),
		Keywords:    e.keywords(words),
		Topics:      e.topics(clean),
		TextLength:  len(clean),
	}
}

func emptyReport() domain.AnalyticsReport {
	return domain.AnalyticsReport{
		Readability: domain.Readability{Level: "unknown"},
		Semantics: domain.Semantics{
			DomainScores:     map[string]int{},
			SentimentScore:   50,
			ProfessionalTone: "neutral",
		},
		Structure: domain.Structure{},
		Keywords:  []domain.Keyword{},
		Topics:    []domain.Topic{},
	}
}

// readability applies the Flesch formula adapted with a Dutch syllable
// heuristic, clamped to [0,100].
func (e *Engine) readability(words, sentences []string) domain.Readability {
	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}
	totalSyllables := 0
	for _, w := range words {
		totalSyllables += countSyllables(w)
	}
	avgSentenceLength := float64(len(words)) / float64(sentenceCount)
	avgSyllablesPerWord := float64(totalSyllables) / float64(len(words))
	flesch := 206.835 - 1.015*avgSentenceLength - 84.6*avgSyllablesPerWord
	flesch = domain.Clamp0100(flesch)

	var lvl string
	switch {
	case flesch >= 90:
		lvl = "zeer_makkelijk"
	case flesch >= 80:
		lvl = "makkelijk"
	case flesch >= 70:
		lvl = "redelijk_makkelijk"
	case flesch >= 60:
		lvl = "standaard"
	case flesch >= 50:
		lvl = "redelijk_moeilijk"
	case flesch >= 30:
		lvl = "moeilijk"
	default:
		lvl = "zeer_moeilijk"
	}
	return domain.Readability{
		FleschScore:         flesch,
		Level:               lvl,
		AvgSentenceLength:   avgSentenceLength,
		AvgSyllablesPerWord: avgSyllablesPerWord,
		TotalSentences:      len(sentences),
		TotalWords:          len(words),
		TotalSyllables:      totalSyllables,
	}
}

func (e *Engine) complexity(text string, words, sentences []string) domain.Complexity {
	unique := make(map[string]struct{}, len(words))
	complexWords := 0
	totalLen := 0
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
		if countSyllables(w) >= 3 {
			complexWords++
		}
		totalLen += len(w)
	}
	diversity := float64(len(unique)) / float64(len(words))
	complexRatio := float64(complexWords) / float64(len(words))
	avgWordLen := float64(totalLen) / float64(len(words))

	avgSentenceWords := 0.0
	if len(sentences) > 0 {
		total := 0
		for _, s := range sentences {
			total += len(textx.Words(s))
		}
		avgSentenceWords = float64(total) / float64(len(sentences))
	}

	score := math.Round(diversity*30 + complexRatio*25 +
		math.Min(avgWordLen/10, 1)*25 + math.Min(avgSentenceWords/30, 1)*20)
	return domain.Complexity{
		Score:            int(domain.Clamp0100(score)),
		LexicalDiversity: round2(diversity),
		ComplexWordRatio: round2(complexRatio),
		AvgWordLength:    round1(avgWordLen),
		AvgSentenceWords: round1(avgSentenceWords),
		UniqueWords:      len(unique),
		ComplexWords:     complexWords,
		Paragraphs:       len(paragraphs(text)),
	}
}

// semantics scores the text against the fixed professional domains and
// sentiment word lists. Ties on the primary domain resolve to the first
// domain in catalog order.
func (e *Engine) semantics(text string) domain.Semantics {
	lower := strings.ToLower(text)

	scores := make(map[string]int, len(e.cat.SemanticDomains))
	primary := ""
	best := -1
	for _, d := range e.cat.SemanticDomains {
		matches := countContained(lower, d.Keywords)
		score := int(math.Round(float64(matches) / float64(len(d.Keywords)) * 100))
		scores[d.Name] = score
		if score > best {
			best = score
			primary = d.Name
		}
	}

	positive := countContained(lower, e.cat.Sentiment.Positive)
	negative := countContained(lower, e.cat.Sentiment.Negative)
	sentiment := 50
	if positive > 0 || negative > 0 {
		sentiment = int(math.Round(float64(positive) / float64(positive+negative) * 100))
	}

	return domain.Semantics{
		DomainScores:       scores,
		PrimaryDomain:      primary,
		SentimentScore:     sentiment,
		PositiveIndicators: positive,
		NegativeIndicators: negative,
		ProfessionalTone:   e.tone(lower),
	}
}

func (e *Engine) tone(lower string) string {
	professional := countContained(lower, e.cat.Tone.Professional)
	informal := countContained(lower, e.cat.Tone.Informal)
	switch {
	case professional > informal:
		return "professional"
	case informal > professional:
		return "informal"
	default:
		return "neutral"
	}
}

func (e *Engine) structure(text string, sentences []string) domain.Structure {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	paras := paragraphs(text)

	headers, lists := 0, 0
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if len(trimmed) < 50 && (strings.Contains(l, ":") || allCapsRe.MatchString(l)) {
			headers++
		}
		if bulletRe.MatchString(trimmed) || numberedRe.MatchString(trimmed) {
			lists++
		}
	}

	avgParaLen := 0
	if len(paras) > 0 {
		total := 0
		for _, p := range paras {
			total += len(p)
		}
		avgParaLen = int(math.Round(float64(total) / float64(len(paras))))
	}

	return domain.Structure{
		TotalLines:      len(lines),
		TotalSentences:  len(sentences),
		TotalParagraphs: len(paras),
		Headers:         headers,
		Lists:           lists,
		Contact: domain.ContactInfo{
			Emails: len(emailRe.FindAllString(text, -1)),
			Phones: len(phoneRe.FindAllString(text, -1)),
			URLs:   len(urlRe.FindAllString(text, -1)),
		},
		AvgParagraphLength: avgParaLen,
		Score:              structureScore(headers, lists, len(paras)),
	}
}

func structureScore(headers, lists, paragraphs int) int {
	score := 0
	if headers > 0 {
		score += 30
	}
	if lists > 0 {
		score += 20
	}
	if paragraphs > 1 {
		score += 25
	}
	if paragraphs > 3 {
		score += 25
	}
	if score > 100 {
		score = 100
	}
	return score
}

// keywords ranks non-stopword alphabetic tokens by frequency. Frequency ties
// break lexicographically so output is deterministic.
func (e *Engine) keywords(words []string) []domain.Keyword {
	freq := make(map[string]int)
	for _, w := range words {
		lower := strings.ToLower(w)
		if len(lower) > 2 && !e.cat.IsStopword(lower) && alphaRe.MatchString(lower) {
			freq[lower]++
		}
	}
	ranked := make([]domain.Keyword, 0, len(freq))
	for w, f := range freq {
		ranked = append(ranked, domain.Keyword{
			Word:      w,
			Frequency: f,
			Relevance: min100(int(math.Round(float64(f) / float64(len(words)) * 1000))),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frequency != ranked[j].Frequency {
			return ranked[i].Frequency > ranked[j].Frequency
		}
		return ranked[i].Word < ranked[j].Word
	})
	if len(ranked) > topKeywords {
		ranked = ranked[:topKeywords]
	}
	return ranked
}

// topics matches the fixed topic dictionary; topics with no matched keyword
// are excluded and the rest sorted by descending relevance.
func (e *Engine) topics(text string) []domain.Topic {
	lower := strings.ToLower(text)
	var out []domain.Topic
	for _, t := range e.cat.Topics {
		var matched []string
		for _, kw := range t.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, domain.Topic{
			Topic:           t.Name,
			Relevance:       int(math.Round(float64(len(matched)) / float64(len(t.Keywords)) * 100)),
			MatchedKeywords: matched,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// countSyllables counts transitions into vowel runs; every word counts as at
// least one syllable.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphRe.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
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

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func min100(v int) int {
	if v > 100 {
		return 100
	}
	return v
}
