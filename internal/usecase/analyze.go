// Package usecase wires the analysis pipeline: collaborator text acquisition,
// skill extraction, confidence enhancement, text analytics, transcript
// analysis and the final candidate scoring.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/talentsift/candidate-screener/internal/analytics"
	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/communication"
	"github.com/talentsift/candidate-screener/internal/confidence"
	"github.com/talentsift/candidate-screener/internal/cvprofile"
	"github.com/talentsift/candidate-screener/internal/domain"
)

// Overall score blend: NLP assessment dominates wishlist coverage.
const (
	weightNLP        = 0.7
	weightSkillMatch = 0.3
)

var reportEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // Weak random is sufficient for ULID entropy.

// AnalyzeService runs the full screening pipeline for one candidate.
type AnalyzeService struct {
	Extractor   domain.TextExtractor
	Transcriber domain.Transcriber
	Skills      domain.SkillExtractor

	cat     *catalog.Catalog
	scorer  *confidence.Scorer
	engine  *analytics.Engine
	comms   *communication.Analyzer
	profile *cvprofile.Analyzer
}

// NewAnalyzeService constructs the service. Extractor and Transcriber may be
// nil when the caller supplies raw text instead of files.
func NewAnalyzeService(cat *catalog.Catalog, skills domain.SkillExtractor, extractor domain.TextExtractor, transcriber domain.Transcriber) *AnalyzeService {
	return &AnalyzeService{
		Extractor:   extractor,
		Transcriber: transcriber,
		Skills:      skills,
		cat:         cat,
		scorer:      confidence.NewScorer(cat),
		engine:      analytics.NewEngine(cat),
		comms:       communication.NewAnalyzer(cat),
		profile:     cvprofile.NewAnalyzer(),
	}
}

// AnalyzeFiles extracts the CV text and transcribes the audio, then runs the
// text pipeline. audioPath may be empty; the report then carries the no-data
// communication analysis. Collaborator failures surface wrapped in the stage
// sentinel of the input that failed.
func (s *AnalyzeService) AnalyzeFiles(ctx context.Context, cvName, cvPath, audioName, audioPath string, desired []domain.DesiredSkill) (domain.CandidateReport, error) {
	if s.Extractor == nil {
		return domain.CandidateReport{}, fmt.Errorf("%w: no text extractor configured", domain.ErrUnavailable)
	}
	extraction, err := s.Extractor.ExtractPath(ctx, cvName, cvPath)
	if err != nil {
		return domain.CandidateReport{}, fmt.Errorf("%w: %v", domain.ErrCVProcessing, err)
	}
	slog.Info("cv text extracted", slog.Int("chars", len(extraction.Text)), slog.Int("pages", extraction.PageCount))

	var transcript string
	var meta *domain.Transcription
	if audioPath != "" {
		if s.Transcriber == nil {
			return domain.CandidateReport{}, fmt.Errorf("%w: no transcriber configured", domain.ErrUnavailable)
		}
		tr, err := s.Transcriber.Transcribe(ctx, audioName, audioPath)
		if err != nil {
			return domain.CandidateReport{}, fmt.Errorf("%w: %v", domain.ErrAudioProcessing, err)
		}
		slog.Info("audio transcribed", slog.String("language", tr.Language), slog.Float64("confidence", tr.Confidence), slog.Int("words", tr.WordCount))
		transcript = tr.Text
		meta = &tr
	}
	return s.AnalyzeText(ctx, extraction.Text, transcript, meta, desired)
}

// AnalyzeText runs the pipeline over already-acquired texts. meta carries the
// transcription metadata when the transcript came from speech-to-text, nil
// otherwise.
func (s *AnalyzeService) AnalyzeText(ctx context.Context, cvText, transcript string, meta *domain.Transcription, desired []domain.DesiredSkill) (domain.CandidateReport, error) {
	if strings.TrimSpace(cvText) == "" {
		return domain.CandidateReport{}, fmt.Errorf("%w: empty cv text", domain.ErrInvalidArgument)
	}

	skillSet, err := s.Skills.ExtractSkills(ctx, cvText)
	if err != nil {
		return domain.CandidateReport{}, fmt.Errorf("%w: skill extraction: %v", domain.ErrAnalysis, err)
	}

	profile := s.profile.Analyze(cvText, skillSet, desired)
	confidences := s.scorer.EnhanceAll(skillSet, cvText, profile.TotalYears)
	report := s.engine.Analyze(cvText)
	comm := s.comms.Analyze(transcript, meta)

	extracted := dedupeSkills(skillSet)
	matches := s.matchSkills(extracted, cvText, transcript, desired)

	nlpScore := profile.AssessmentScore
	matchScore := skillMatchScore(matches, desired)
	overall := int(math.Round(float64(nlpScore)*weightNLP + float64(matchScore)*weightSkillMatch))
	category := categorize(overall, matches, desired)

	out := domain.CandidateReport{
		ID:              newReportID(),
		OverallScore:    overall,
		NLPScore:        nlpScore,
		SkillMatchScore: matchScore,
		Category:        category,
		SkillMatches:    matches,
		ExtractedSkills: extracted,
		Confidences:     confidences,
		Strengths:       matchStrengths(matches),
		Weaknesses:      matchWeaknesses(matches),
		Recommendation:  recommendation(category),
		Profile:         profile,
		Analytics:       report,
		Communication:   comm,
		AnalyzedAt:      time.Now().UTC(),
	}
	slog.Info("candidate analyzed",
		slog.String("report_id", out.ID),
		slog.Int("overall_score", overall),
		slog.String("category", string(category)),
		slog.Int("skills_found", len(extracted)))
	return out, nil
}

// dedupeSkills flattens the set to one entry per lowercased skill name;
// on duplicates the highest confidence wins.
func dedupeSkills(set domain.SkillSet) []domain.ExtractedSkill {
	seen := make(map[string]int)
	var out []domain.ExtractedSkill
	for _, sk := range set.Flatten() {
		key := strings.ToLower(sk.Name)
		if i, ok := seen[key]; ok {
			if sk.Confidence > out[i].Confidence {
				out[i] = sk
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, sk)
	}
	return out
}

// matchSkills resolves each desired skill in three tiers: an extracted skill
// with its enhanced confidence, a direct text mention at 0.7, or a
// related-term mention at 0.5.
func (s *AnalyzeService) matchSkills(extracted []domain.ExtractedSkill, cvText, transcript string, desired []domain.DesiredSkill) []domain.SkillMatch {
	combined := strings.ToLower(cvText + " " + transcript)
	matches := make([]domain.SkillMatch, 0, len(desired))
	for _, d := range desired {
		want := strings.ToLower(d.Name)
		m := domain.SkillMatch{
			Skill:    d.Name,
			Priority: d.Priority,
			Weight:   d.Priority.Weight(),
			Source:   []string{},
		}

		for _, sk := range extracted {
			have := strings.ToLower(sk.Name)
			if strings.Contains(have, want) || strings.Contains(want, have) {
				m.Found = true
				m.Confidence = sk.Confidence
				m.Source = []string{"CV (NLP)"}
				m.Category = sk.Category
				break
			}
		}
		if !m.Found && strings.Contains(combined, want) {
			m.Found = true
			m.Confidence = 0.7
			m.Source = []string{"CV", "Interview"}
		}
		if !m.Found {
			for _, term := range s.cat.Related(want) {
				if strings.Contains(combined, term) {
					m.Found = true
					m.Confidence = 0.5
					m.Source = []string{"Related terms"}
					break
				}
			}
		}
		if m.Found {
			m.Score = m.Confidence * float64(m.Weight)
		}
		matches = append(matches, m)
	}
	return matches
}

// skillMatchScore normalizes the weighted match scores to [0,100]. No
// wishlist means no coverage signal, scored 0.
func skillMatchScore(matches []domain.SkillMatch, desired []domain.DesiredSkill) int {
	possible := 0
	for _, d := range desired {
		possible += d.Priority.Weight()
	}
	if possible == 0 {
		return 0
	}
	actual := 0.0
	for _, m := range matches {
		actual += m.Score
	}
	return int(math.Round(actual / float64(possible) * 100))
}

// categorize applies the assessment ladder. The high tier additionally gates
// on coverage of high-priority skills; with none required the gate passes.
func categorize(overall int, matches []domain.SkillMatch, desired []domain.DesiredSkill) domain.CandidateCategory {
	highFound := 0
	for _, m := range matches {
		if m.Priority == domain.PriorityHigh && m.Found {
			highFound++
		}
	}
	highTotal := 0
	for _, d := range desired {
		if d.Priority == domain.PriorityHigh {
			highTotal++
		}
	}

	switch {
	case overall >= 80 && float64(highFound) >= float64(highTotal)*0.8:
		return domain.CategoryHighMatch
	case overall >= 60:
		return domain.CategoryGoodCommunication
	case overall >= 40:
		return domain.CategoryPotential
	default:
		return domain.CategoryUnderqualified
	}
}

// matchStrengths returns up to five confidently matched skills, strongest
// first.
func matchStrengths(matches []domain.SkillMatch) []string {
	strong := make([]domain.SkillMatch, 0, len(matches))
	for _, m := range matches {
		if m.Found && m.Confidence > 0.7 {
			strong = append(strong, m)
		}
	}
	sort.SliceStable(strong, func(i, j int) bool { return strong[i].Confidence > strong[j].Confidence })
	out := []string{}
	for _, m := range strong {
		out = append(out, m.Skill)
		if len(out) == 5 {
			break
		}
	}
	return out
}

// matchWeaknesses returns up to five unmatched skills that matter, skipping
// low-priority entries.
func matchWeaknesses(matches []domain.SkillMatch) []string {
	out := []string{}
	for _, m := range matches {
		if !m.Found && m.Priority != domain.PriorityLow {
			out = append(out, m.Skill)
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

func recommendation(c domain.CandidateCategory) string {
	switch c {
	case domain.CategoryHighMatch:
		return "Sterk aanbevolen voor de functie. Kandidaat toont uitstekende match met vereiste vaardigheden."
	case domain.CategoryGoodCommunication:
		return "Overweeg voor de functie met aanvullende technische training. Sterke communicatievaardigheden zijn waardevol."
	case domain.CategoryPotential:
		return "Mogelijk geschikt voor junior positie of met uitgebreid ontwikkelingsprogramma."
	default:
		return "Niet aanbevolen voor deze functie. Overweeg voor andere posities binnen de organisatie."
	}
}

func newReportID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), reportEntropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}
