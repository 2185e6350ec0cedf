package workflow

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// ImprovedResumeFile is the file name the improved resume is saved under by default.
const ImprovedResumeFile = "improved-resume.pdf"

// ArtifactGenerator produces the improved resume. *client.Client implements it.
type ArtifactGenerator interface {
	GenerateImprovedResume(ctx context.Context, sess session.Session, req *types.DerivedArtifactRequest) ([]byte, error)
}

// Sink receives the generated artifact.
type Sink func(name string, data []byte) error

// ImproveAction generates an improved resume from a settled analysis. It runs independently
// of the analysis screen state and never changes it; at most one call is in flight.
type ImproveAction struct {
	screen    *AnalysisScreen
	generator ArtifactGenerator
	sink      Sink
	logger    *zap.Logger
	busy      atomic.Bool
}

// NewImproveAction creates the action for screen. sink may be nil, in which case the
// artifact is only returned.
func NewImproveAction(screen *AnalysisScreen, generator ArtifactGenerator, sink Sink, logger *zap.Logger) *ImproveAction {
	return &ImproveAction{
		screen:    screen,
		generator: generator,
		sink:      sink,
		logger:    logging.OrNop(logger).With(zap.String("action", "improve")),
	}
}

// Available reports whether the action should be offered: the screen holds a result whose
// score is below the improvement threshold.
func (a *ImproveAction) Available() bool {
	result, ok := a.screen.Result()
	return ok && result.NeedsImprovement()
}

// Busy reports whether a call is in flight.
func (a *ImproveAction) Busy() bool {
	return a.busy.Load()
}

// Request builds the artifact request from the screen's settled result and the job
// description that produced it. It fails with MissingContextError when there is no result,
// no result identifier or no job description.
func (a *ImproveAction) Request() (*types.DerivedArtifactRequest, error) {
	settled, ok := a.screen.Settled()
	if !ok || settled.Result == nil {
		return nil, &MissingContextError{Missing: "result"}
	}
	result, in := settled.Result, settled.Input
	if result.FileID == "" {
		return nil, &MissingContextError{Missing: "fileId"}
	}
	if in.JobDescription == "" {
		return nil, &MissingContextError{Missing: "jobDescription"}
	}
	return &types.DerivedArtifactRequest{
		FileID:                 result.FileID,
		MissingKeywords:        nonNil(result.MissingKeywords),
		ImprovementSuggestions: nonNil(result.ImprovementSuggestions),
		JobDescription:         in.JobDescription,
	}, nil
}

// Run generates the improved resume and hands it to the sink. A missing context fails before
// any request is made; a concurrent call fails with ErrBusy.
func (a *ImproveAction) Run(ctx context.Context, sess session.Session) ([]byte, error) {
	req, err := a.Request()
	if err != nil {
		return nil, err
	}
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.busy.Store(false)

	a.logger.Info("generating improved resume", zap.String("file_id", req.FileID))
	data, err := a.generator.GenerateImprovedResume(ctx, sess, req)
	if err != nil {
		a.logger.Warn("improved resume generation failed", zap.Error(err))
		return nil, err
	}

	if a.sink != nil {
		if err := a.sink(ImprovedResumeFile, data); err != nil {
			return nil, err
		}
	}
	a.logger.Info("improved resume generated", zap.Int("bytes", len(data)))
	return data, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
