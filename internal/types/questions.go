package types

// TieredQuestions groups questions by difficulty.
type TieredQuestions struct {
	Easy   []string `json:"easy,omitempty"`
	Medium []string `json:"medium,omitempty"`
	Hard   []string `json:"hard,omitempty"`
}

// Count returns the number of questions across all tiers.
func (t TieredQuestions) Count() int {
	return len(t.Easy) + len(t.Medium) + len(t.Hard)
}

// TechnicalQuestions holds the algorithm and system design questions.
type TechnicalQuestions struct {
	DSA          []string `json:"dsa,omitempty"`
	SystemDesign []string `json:"systemDesign,omitempty"`
}

// Count returns the number of technical questions.
func (t TechnicalQuestions) Count() int {
	return len(t.DSA) + len(t.SystemDesign)
}

// QuestionSet is the canonical result of mock interview question generation.
type QuestionSet struct {
	CompanyName         string             `json:"companyName,omitempty"`
	JobDescriptionBased TieredQuestions    `json:"jobDescriptionBased"`
	ResumeBased         TieredQuestions    `json:"resumeBased"`
	DSAAndSystemDesign  TechnicalQuestions `json:"dsaAndSystemDesign"`

	// YearsOfExperience is the value the service used, when it echoed one back.
	YearsOfExperience *float64 `json:"yearsOfExperience,omitempty"`
}

// Total returns the number of questions in the set.
func (q *QuestionSet) Total() int {
	if q == nil {
		return 0
	}
	return q.JobDescriptionBased.Count() + q.ResumeBased.Count() + q.DSAAndSystemDesign.Count()
}
