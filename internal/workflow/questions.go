package workflow

import (
	"errors"

	"github.com/jonathan/resume-analyzer/internal/client"
	"github.com/jonathan/resume-analyzer/internal/normalize"
	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/validation"
)

// QuestionsScreen is the mock interview questions screen.
type QuestionsScreen = Screen[types.QuestionSet]

// Questions is the mock question workflow:
// {resume, jobDescription, yearsOfExperience, companyName} to a QuestionSet.
var Questions = Workflow[types.QuestionSet]{
	Name:      "questions",
	Rules:     validation.QuestionRules,
	Build:     client.QuestionsRequest,
	Interpret: interpretQuestions,
}

func interpretQuestions(raw types.RawPayload, log *runlog.Log) (*types.QuestionSet, error) {
	set, err := normalize.Questions(raw)
	if err != nil {
		var nErr *normalize.Error
		if errors.As(err, &nErr) && nErr.Message == normalize.MsgNoQuestions {
			log.Add("Warning: No questions in response")
		}
		return nil, err
	}

	if set.CompanyName != "" {
		log.Addf("Company identified: %s", set.CompanyName)
	}
	log.Add("Questions generated successfully!")
	log.Addf("Total questions: %d", set.Total())
	return set, nil
}

// NewQuestionsScreen creates a mock questions screen backed by pipeline.
func NewQuestionsScreen(pipeline Pipeline, opts ...ScreenOption) *QuestionsScreen {
	return NewScreen(Questions, pipeline, opts...)
}
