package normalize

import (
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Questions resolves a mock-questions `data` object into a QuestionSet.
func Questions(raw types.RawPayload) (*types.QuestionSet, error) {
	root := object(raw)

	q, ok := root["questions"].(map[string]any)
	if !ok {
		return nil, &Error{Field: "questions", Message: MsgNoQuestions}
	}
	questions := object(q)

	set := &types.QuestionSet{
		JobDescriptionBased: tiered(questions, "jobDescriptionBased"),
		ResumeBased:         tiered(questions, "resumeBased"),
	}
	set.CompanyName, _ = questions.str("companyName")
	if tech, ok := questions.obj("dsaAndSystemDesign"); ok {
		set.DSAAndSystemDesign = types.TechnicalQuestions{
			DSA:          tech.strs("dsa"),
			SystemDesign: tech.strs("systemDesign"),
		}
	}
	// zero years is treated as not echoed
	if years, ok := root.num("yearsOfExperience"); ok && years != 0 {
		set.YearsOfExperience = &years
	}
	return set, nil
}

func tiered(questions object, key string) types.TieredQuestions {
	o, ok := questions.obj(key)
	if !ok {
		return types.TieredQuestions{}
	}
	return types.TieredQuestions{
		Easy:   o.strs("easy"),
		Medium: o.strs("medium"),
		Hard:   o.strs("hard"),
	}
}
