package communication_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/candidate-screener/internal/catalog"
	"github.com/talentsift/candidate-screener/internal/communication"
	"github.com/talentsift/candidate-screener/internal/domain"
)

func newAnalyzer(t *testing.T) *communication.Analyzer {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return communication.NewAnalyzer(cat)
}

const richTranscript = "Ik werk graag in een team en neem verantwoordelijkheid voor de analyse van data. " +
	"Wij doen onderzoek naar een duidelijk probleem en kiezen een concrete oplossing. " +
	"Dat is zeker een goede aanpak voor dit project en het systeem."

func TestAnalyze_ShortTranscriptYieldsNoData(t *testing.T) {
	t.Parallel()
	a := newAnalyzer(t)
	got := a.Analyze("veel te kort", nil)

	assert.False(t, got.HasData())
	assert.Equal(t, "unknown", got.LanguageProficiency)
	assert.Zero(t, got.OverallScore)
	assert.Zero(t, got.Clarity)
	assert.Empty(t, got.PersonalityTraits)
	assert.Empty(t, got.Insights)
	assert.Empty(t, got.KeyPoints)
}

func TestAnalyze_RichTranscript(t *testing.T) {
	t.Parallel()
	a := newAnalyzer(t)
	got := a.Analyze(richTranscript, nil)

	assert.True(t, got.HasData())
	assert.Equal(t, "intermediate", got.LanguageProficiency)
	assert.Equal(t, 3, got.SentenceCount)
	assert.Greater(t, got.WordCount, 30)

	for _, score := range []int{got.Clarity, got.Confidence, got.Fluency, got.TechnicalCommunication, got.OverallScore} {
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
	assert.NotEmpty(t, got.Insights)
	assert.Len(t, got.KeyPoints, 3)
}

func TestAnalyze_PersonalityTraitsRanked(t *testing.T) {
	t.Parallel()
	a := newAnalyzer(t)
	got := a.Analyze(richTranscript, nil)

	require.NotEmpty(t, got.PersonalityTraits)
	// analyse, data and onderzoek outweigh the single collaborative hit.
	assert.Equal(t, "analytical", got.PersonalityTraits[0].Trait)
	assert.Equal(t, 30, got.PersonalityTraits[0].Score)
	assert.Equal(t, 30, got.PersonalityConfidence)
	assert.Contains(t, got.PersonalityTraits[0].Indicators, "analyse")
	assert.LessOrEqual(t, len(got.PersonalityTraits), 3)
}

func TestAnalyze_SoftSkillScores(t *testing.T) {
	t.Parallel()
	a := newAnalyzer(t)
	got := a.Analyze(richTranscript, nil)

	// team + verantwoordelijkheid; probleem, oplossing, aanpak, analyse, onderzoek.
	assert.Equal(t, 30, got.LeadershipScore)
	assert.Equal(t, 60, got.ProblemSolvingScore)
}

func TestAnalyze_FillerHeavyTranscriptScoresLowerClarity(t *testing.T) {
	t.Parallel()
	a := newAnalyzer(t)
	clean := a.Analyze(richTranscript, nil)
	noisy := a.Analyze(richTranscript+" "+strings.Repeat("eh uhm nou ", 10), nil)
	assert.Less(t, noisy.Clarity, clean.Clarity)
}

func TestAnalyze_LanguageProficiencyTiers(t *testing.T) {
	t.Parallel()
	a := newAnalyzer(t)
	cases := []struct {
		name string
		meta *domain.Transcription
		want string
	}{
		{"dutch high confidence", &domain.Transcription{Language: "nl", Confidence: 0.92}, "native"},
		{"dutch fluent", &domain.Transcription{Language: "nl", Confidence: 0.85}, "fluent"},
		{"dutch intermediate", &domain.Transcription{Language: "nl", Confidence: 0.72}, "intermediate"},
		{"dutch low confidence", &domain.Transcription{Language: "nl", Confidence: 0.5}, "basic"},
		{"non dutch", &domain.Transcription{Language: "en", Confidence: 0.95}, "intermediate"},
		{"no metadata", nil, "intermediate"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := a.Analyze(richTranscript, tc.meta)
			assert.Equal(t, tc.want, got.LanguageProficiency)
		})
	}
}

func TestAnalyze_TranscriberConfidenceSetsBase(t *testing.T) {
	t.Parallel()
	a := newAnalyzer(t)
	low := a.Analyze(richTranscript, &domain.Transcription{Language: "nl", Confidence: 0.4})
	high := a.Analyze(richTranscript, &domain.Transcription{Language: "nl", Confidence: 0.95})
	assert.Greater(t, high.Clarity, low.Clarity)
	assert.Greater(t, high.Confidence, low.Confidence)
}
