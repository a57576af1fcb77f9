package cvprofile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/candidate-screener/internal/cvprofile"
	"github.com/talentsift/candidate-screener/internal/domain"
)

const sampleCV = `Jan Jansen
Amsterdam
jan.jansen@example.com
+31 612345678
linkedin.com/in/janjansen

Werkervaring:
Software Developer bij Acme 2015 - 2020
Geleid een team en processen verbeterd.

Opleiding:
Bachelor Informatica - TU Delft

Talen: Engels vloeiend en Nederlands als moedertaal
`

func TestAnalyze_PersonalInfo(t *testing.T) {
	t.Parallel()
	got := cvprofile.NewAnalyzer().Analyze(sampleCV, domain.SkillSet{}, nil)

	assert.Equal(t, "Jan Jansen", got.Personal.Name)
	assert.Equal(t, "jan.jansen@example.com", got.Personal.Email)
	assert.NotEmpty(t, got.Personal.Phone)
	assert.Equal(t, "Amsterdam", got.Personal.Location)
	assert.Equal(t, "linkedin.com/in/janjansen", got.Personal.LinkedIn)
}

func TestAnalyze_Positions(t *testing.T) {
	t.Parallel()
	got := cvprofile.NewAnalyzer().Analyze(sampleCV, domain.SkillSet{}, nil)

	require.Len(t, got.Positions, 1)
	pos := got.Positions[0]
	assert.Equal(t, "Software Developer", pos.Title)
	assert.Contains(t, pos.Company, "Acme")
	assert.Equal(t, 5, pos.Years)
	assert.Contains(t, pos.Description, "Geleid een team")

	// No explicit years mention, so position spans add up.
	assert.Equal(t, 5, got.TotalYears)
	assert.Equal(t, "Medior", got.Seniority)
}

func TestAnalyze_EducationAndLanguages(t *testing.T) {
	t.Parallel()
	got := cvprofile.NewAnalyzer().Analyze(sampleCV, domain.SkillSet{}, nil)

	require.Len(t, got.Educations, 1)
	assert.Equal(t, "Bachelor", got.Educations[0].Degree)
	assert.Contains(t, got.Educations[0].Field, "Informatica")
	assert.Equal(t, "bachelor", got.HighestDegree)
	assert.True(t, got.TechEducation)

	require.Len(t, got.Languages, 2)
	assert.Equal(t, domain.LanguageSkill{Language: "nederlands", Proficiency: "native"}, got.Languages[0])
	assert.Equal(t, domain.LanguageSkill{Language: "english", Proficiency: "fluent"}, got.Languages[1])
}

func TestAnalyze_Achievements(t *testing.T) {
	t.Parallel()
	got := cvprofile.NewAnalyzer().Analyze(sampleCV, domain.SkillSet{}, nil)
	require.NotEmpty(t, got.Achievements)
	assert.Contains(t, got.Achievements[0], "Geleid")
}

func TestAnalyze_ExplicitYearsMentionWins(t *testing.T) {
	t.Parallel()
	got := cvprofile.NewAnalyzer().Analyze("Meer dan 10 jaar ervaring met software, waarvan 3 jaar als lead.", domain.SkillSet{}, nil)
	assert.Equal(t, 10, got.TotalYears)
	assert.Equal(t, "Senior", got.Seniority)
}

func TestAnalyze_SeniorityTiers(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text string
		want string
	}{
		{"12 jaar ervaring", "Senior"},
		{"5 jaar ervaring", "Medior"},
		{"2 jaar ervaring", "Junior"},
		{"net afgestudeerd", "Starter"},
	}
	for _, tc := range cases {
		got := cvprofile.NewAnalyzer().Analyze(tc.text, domain.SkillSet{}, nil)
		assert.Equal(t, tc.want, got.Seniority, tc.text)
	}
}

func TestAnalyze_AssessmentBlend(t *testing.T) {
	t.Parallel()
	skills := domain.SkillSet{
		domain.CategoryProgrammingLanguage: {{Name: "javascript", Confidence: 0.9}},
		domain.CategoryFramework:           {{Name: "react", Confidence: 0.8}},
	}
	desired := []domain.DesiredSkill{
		{Name: "JavaScript", Priority: domain.PriorityHigh},
		{Name: "React", Priority: domain.PriorityMedium},
		{Name: "Kubernetes", Priority: domain.PriorityHigh},
	}
	got := cvprofile.NewAnalyzer().Analyze("10 jaar ervaring met software.", skills, desired)

	// 20*0.40 + 100*0.35 + 60*0.15 + 67*0.10, rounded.
	assert.Equal(t, 59, got.AssessmentScore)
	assert.Equal(t, "Kandidaat heeft ontwikkeling nodig", got.Recommendation)
	assert.Contains(t, got.Strengths, "Ruime werkervaring")
	assert.Contains(t, got.Improvements, "Ontbrekende vaardigheden: kubernetes")
}

func TestAnalyze_ThinCVStillScores(t *testing.T) {
	t.Parallel()
	got := cvprofile.NewAnalyzer().Analyze("korte tekst zonder structuur", domain.SkillSet{}, nil)
	assert.Equal(t, 0, got.TotalYears)
	assert.Equal(t, "Starter", got.Seniority)
	assert.Equal(t, "unknown", got.HighestDegree)
	assert.Contains(t, got.Improvements, "Beperkte werkervaring")
	assert.NotEmpty(t, got.Recommendation)
}
