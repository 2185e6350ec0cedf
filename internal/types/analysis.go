package types

// ImprovementThreshold is the score below which an improved resume is offered.
const ImprovementThreshold = 70

// ScoreBand buckets a match score for display.
type ScoreBand string

const (
	BandStrong   ScoreBand = "strong"
	BandModerate ScoreBand = "moderate"
	BandWeak     ScoreBand = "weak"
)

// BandFor returns the display band of a score (>=80 strong, >=60 moderate, else weak).
func BandFor(score float64) ScoreBand {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandModerate
	default:
		return BandWeak
	}
}

// AnalysisResult is the canonical, fallback-resolved result of a resume analysis.
// Optional sections are nil or empty when the service did not send them.
type AnalysisResult struct {
	FileID     string  `json:"fileId,omitempty"`
	MatchScore float64 `json:"matchScore"`
	Summary    string  `json:"summary,omitempty"`

	RadarScores  *RadarScores `json:"radarScores,omitempty"`
	Highlights   []string     `json:"highlights,omitempty"`
	Improvements []string     `json:"improvements,omitempty"`

	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
	MissingKeywords []string `json:"missingKeywords,omitempty"`

	SkillsComparison    []SkillComparison    `json:"skillsComparison,omitempty"`
	ResponsibilityMatch *ResponsibilityMatch `json:"responsibilityMatch,omitempty"`
	GapAnalysis         *GapAnalysis         `json:"gapAnalysis,omitempty"`
	ExperienceDetails   *ExperienceDetails   `json:"experienceDetails,omitempty"`
	SpellingGrammar     *SpellingGrammar     `json:"spellingGrammar,omitempty"`

	ImprovementSuggestions []string `json:"improvementSuggestions,omitempty"`
	RewrittenBulletPoints  []string `json:"rewrittenBulletPoints,omitempty"`
	FinalVerdict           string   `json:"finalVerdict,omitempty"`
}

// NeedsImprovement reports whether the improved-resume action should be offered.
func (r *AnalysisResult) NeedsImprovement() bool {
	return r != nil && r.MatchScore < ImprovementThreshold
}

// Band returns the display band of the match score.
func (r *AnalysisResult) Band() ScoreBand {
	return BandFor(r.MatchScore)
}

// RadarScores are the per-dimension scores of the overview radar chart.
type RadarScores struct {
	Content  float64 `json:"content"`
	Format   float64 `json:"format"`
	Style    float64 `json:"style"`
	Sections float64 `json:"sections"`
	Skills   float64 `json:"skills"`
}

// SkillComparison is one row of the skills comparison table.
type SkillComparison struct {
	Skill               string `json:"skill"`
	Status              string `json:"status"`
	Required            bool   `json:"required,omitempty"`
	ResumeCount         int    `json:"resumeCount"`
	JobDescriptionCount int    `json:"jobDescriptionCount"`
}

// Matched reports whether the skill was found in the resume.
func (s SkillComparison) Matched() bool {
	return s.Status == "matched"
}

// ResponsibilityMatch lists the job responsibilities the resume covers and misses.
type ResponsibilityMatch struct {
	GoodAreas    []string `json:"goodAreas,omitempty"`
	MissingAreas []string `json:"missingAreas,omitempty"`
}

// GapAnalysis describes gaps between the resume and the job description.
type GapAnalysis struct {
	Experience      string `json:"experience,omitempty"`
	TechStack       string `json:"techStack,omitempty"`
	DomainKnowledge string `json:"domainKnowledge,omitempty"`
	Certifications  string `json:"certifications,omitempty"`
}

// ExperienceDetails is the experience breakdown extracted from the resume.
type ExperienceDetails struct {
	TotalYears          *float64   `json:"totalYears,omitempty"`
	CurrentRole         string     `json:"currentRole,omitempty"`
	IncludesInternships bool       `json:"includesInternships,omitempty"`
	Positions           []Position `json:"positions,omitempty"`
}

// Position is one entry of the experience breakdown.
type Position struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	Dates     string `json:"dates,omitempty"`
	Duration  string `json:"duration,omitempty"`
	IsCurrent bool   `json:"isCurrent,omitempty"`
}

// SpellingGrammar holds the spelling and grammar findings.
type SpellingGrammar struct {
	TotalErrors int               `json:"totalErrors"`
	Errors      []LanguageFinding `json:"errors,omitempty"`
}

// LanguageFinding is a single spelling or grammar error.
type LanguageFinding struct {
	Type       string `json:"type"`
	Word       string `json:"word,omitempty"`
	Correction string `json:"correction,omitempty"`
	Context    string `json:"context,omitempty"`
}

// IsSpelling reports whether the finding is a spelling error (anything else is grammar).
func (f LanguageFinding) IsSpelling() bool {
	return f.Type == "spelling"
}
