package domain

// Readability holds Flesch-style readability metrics for a document.
type Readability struct {
	FleschScore         float64 `json:"flesch_score"`
	Level               string  `json:"level"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`
	TotalSentences      int     `json:"total_sentences"`
	TotalWords          int     `json:"total_words"`
	TotalSyllables      int     `json:"total_syllables"`
}

// Complexity holds lexical complexity metrics.
type Complexity struct {
	Score            int     `json:"score"`
	LexicalDiversity float64 `json:"lexical_diversity"`
	ComplexWordRatio float64 `json:"complex_word_ratio"`
	AvgWordLength    float64 `json:"avg_word_length"`
	AvgSentenceWords float64 `json:"avg_sentence_words"`
	UniqueWords      int     `json:"unique_words"`
	ComplexWords     int     `json:"complex_words"`
	Paragraphs       int     `json:"paragraphs"`
}

// Semantics holds domain scoring and sentiment for a document.
type Semantics struct {
	DomainScores       map[string]int `json:"domain_scores"`
	PrimaryDomain      string         `json:"primary_domain"`
	SentimentScore     int            `json:"sentiment_score"`
	PositiveIndicators int            `json:"positive_indicators"`
	NegativeIndicators int            `json:"negative_indicators"`
	ProfessionalTone   string         `json:"professional_tone"`
}

// ContactInfo counts regex-detected contact markers.
type ContactInfo struct {
	Emails int `json:"emails"`
	Phones int `json:"phones"`
	URLs   int `json:"urls"`
}

// Structure holds structural statistics of a document.
type Structure struct {
	TotalLines         int         `json:"total_lines"`
	TotalSentences     int         `json:"total_sentences"`
	TotalParagraphs    int         `json:"total_paragraphs"`
	Headers            int         `json:"headers"`
	Lists              int         `json:"lists"`
	Contact            ContactInfo `json:"contact_info"`
	AvgParagraphLength int         `json:"avg_paragraph_length"`
	Score              int         `json:"score"`
}

// Keyword is a frequency-ranked word from a document.
type Keyword struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
	Relevance int    `json:"relevance"`
}

// Topic is a detected topic with the keywords that matched it.
type Topic struct {
	Topic           string   `json:"topic"`
	Relevance       int      `json:"relevance"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// AnalyticsReport is the full text-analytics output. Purely derived,
// recomputed per call; degenerate input yields the zero value with
// sentiment 50 and no keywords or topics.
type AnalyticsReport struct {
	Readability Readability `json:"readability"`
	Complexity  Complexity  `json:"complexity"`
	Semantics   Semantics   `json:"semantics"`
	Structure   Structure   `json:"structure"`
	Keywords    []Keyword   `json:"keywords"`
	Topics      []Topic     `json:"topics"`
	TextLength  int         `json:"text_length"`
}

// PersonalityTrait is one scored trait dimension with its matched indicators.
type PersonalityTrait struct {
	Trait      string   `json:"trait"`
	Score      int      `json:"score"`
	Indicators []string `json:"indicators"`
}

// CommunicationAnalysis is derived from an interview transcript. A transcript
// under the minimum length yields the no-data sentinel: all scores zero,
// empty lists and LanguageProficiency "unknown".
type CommunicationAnalysis struct {
	Clarity                int                `json:"clarity"`
	Confidence             int                `json:"confidence"`
	Fluency                int                `json:"fluency"`
	TechnicalCommunication int                `json:"technical_communication"`
	OverallScore           int                `json:"overall_score"`
	PersonalityTraits      []PersonalityTrait `json:"personality_traits"`
	PersonalityConfidence  int                `json:"personality_confidence"`
	LeadershipScore        int                `json:"leadership_score"`
	ProblemSolvingScore    int                `json:"problem_solving_score"`
	Insights               []string           `json:"insights"`
	KeyPoints              []string           `json:"key_points"`
	LanguageProficiency    string             `json:"language_proficiency"`
	WordCount              int                `json:"word_count"`
	SentenceCount          int                `json:"sentence_count"`
}

// HasData reports whether the analysis was computed from a usable transcript.
func (c CommunicationAnalysis) HasData() bool { return c.LanguageProficiency != "unknown" }

// Position is one work-experience entry parsed from a CV.
type Position struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Dates       []string `json:"dates,omitempty"`
	Description string   `json:"description,omitempty"`
	Years       int      `json:"years,omitempty"`
}

// Education is one education entry parsed from a CV.
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution,omitempty"`
}

// PersonalInfo holds contact details detected in a CV.
type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// LanguageSkill is a detected human language with inferred proficiency.
type LanguageSkill struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// CVProfile aggregates experience, education and personal signals from a CV
// together with the weighted overall assessment used for final scoring.
type CVProfile struct {
	Personal        PersonalInfo    `json:"personal"`
	Positions       []Position      `json:"positions"`
	TotalYears      int             `json:"total_years"`
	Seniority       string          `json:"seniority"`
	Achievements    []string        `json:"achievements"`
	Industries      []string        `json:"industries"`
	Educations      []Education     `json:"educations"`
	HighestDegree   string          `json:"highest_degree"`
	TechEducation   bool            `json:"tech_education"`
	Languages       []LanguageSkill `json:"languages"`
	AssessmentScore int             `json:"assessment_score"`
	Strengths       []string        `json:"strengths"`
	Improvements    []string        `json:"improvements"`
	Recommendation  string          `json:"recommendation"`
}
