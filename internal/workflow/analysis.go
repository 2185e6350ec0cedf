package workflow

import (
	"github.com/jonathan/resume-analyzer/internal/client"
	"github.com/jonathan/resume-analyzer/internal/normalize"
	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/validation"
)

// AnalysisScreen is the resume analysis screen.
type AnalysisScreen = Screen[types.AnalysisResult]

// Analysis is the resume analysis workflow: {resume, jobDescription} to an AnalysisResult.
var Analysis = Workflow[types.AnalysisResult]{
	Name:  "analysis",
	Rules: validation.AnalysisRules,
	Build: client.AnalysisRequest,
	Interpret: func(raw types.RawPayload, _ *runlog.Log) (*types.AnalysisResult, error) {
		return normalize.Analysis(raw)
	},
}

// NewAnalysisScreen creates an analysis screen backed by pipeline.
func NewAnalysisScreen(pipeline Pipeline, opts ...ScreenOption) *AnalysisScreen {
	return NewScreen(Analysis, pipeline, opts...)
}
