package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/client"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/validation"
)

// Pipeline executes one request against the service. *client.Client implements it.
type Pipeline interface {
	Run(ctx context.Context, sess session.Session, req *client.Request, log *runlog.Log) (types.RawPayload, error)
}

// Workflow describes what a screen runs.
type Workflow[T any] struct {
	Name  string
	Rules []validation.Rule
	Build func(in *types.WorkflowInput) *client.Request

	// Interpret turns the accepted payload into the canonical result and may add log lines.
	Interpret func(raw types.RawPayload, log *runlog.Log) (*T, error)
}

// Screen is the controller of one workflow screen. It owns the entered input, the current
// state and the run log. At most one run is in flight at a time.
type Screen[T any] struct {
	mu       sync.Mutex
	workflow Workflow[T]
	pipeline Pipeline
	logger   *zap.Logger

	input types.WorkflowInput
	state State
	runID string
	log   *runlog.Log

	busy        bool
	generation  uint64
	subscribers []func(State)
}

// ScreenOption configures a Screen.
type ScreenOption func(*screenConfig)

type screenConfig struct {
	logger *zap.Logger
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) ScreenOption {
	return func(c *screenConfig) { c.logger = l }
}

// NewScreen creates a screen in the Idle state.
func NewScreen[T any](wf Workflow[T], pipeline Pipeline, opts ...ScreenOption) *Screen[T] {
	cfg := screenConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Screen[T]{
		workflow: wf,
		pipeline: pipeline,
		logger:   logging.OrNop(cfg.logger).With(zap.String("workflow", wf.Name)),
		state:    Idle{},
	}
}

// Subscribe registers fn to receive every state change, including log growth while running.
// fn is called without the screen lock held.
func (s *Screen[T]) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// State returns the current state.
func (s *Screen[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Input returns a copy of the entered input.
func (s *Screen[T]) Input() types.WorkflowInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Clone()
}

// Busy reports whether a run is in flight.
func (s *Screen[T]) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// SelectFile sets the primary file. A non-PDF is rejected: the selection is cleared and the
// screen shows the validation notice. A valid file clears any earlier notice or failure.
func (s *Screen[T]) SelectFile(f *types.FileBlob) error {
	s.mu.Lock()
	err := validation.CheckFile(f)
	if err != nil {
		s.input.PrimaryFile = nil
		if !s.busy {
			s.state = Idle{Notice: UserMessage(err)}
		}
	} else {
		s.input.PrimaryFile = f
		if !s.busy {
			if _, ok := s.state.(Success[T]); !ok {
				s.state = Idle{}
			}
		}
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
	return err
}

// SetJobDescription sets the job description text.
func (s *Screen[T]) SetJobDescription(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.JobDescription = text
}

// SetAuxField sets a workflow-specific text field.
func (s *Screen[T]) SetAuxField(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.input.AuxFields == nil {
		s.input.AuxFields = make(map[string]string)
	}
	s.input.AuxFields[key] = value
}

// Start validates the input and, if it passes, runs the workflow to settlement. It returns
// the settled state. A validation failure leaves the screen in Idle with a notice and issues
// no request. Entered values persist across a failed run; the log does not.
func (s *Screen[T]) Start(ctx context.Context, sess session.Session) (State, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if _, ok := s.state.(Success[T]); ok {
		s.mu.Unlock()
		return nil, ErrResetRequired
	}
	if err := sess.Require(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	in := s.input.Clone()
	if err := validation.Validate(&in, s.workflow.Rules); err != nil {
		s.state = Idle{Notice: UserMessage(err)}
		state := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(state)
		return state, err
	}

	s.busy = true
	s.generation++
	gen := s.generation
	runID := uuid.NewString()
	log := runlog.New(
		runlog.WithLogger(s.logger.With(zap.String("run_id", runID))),
		runlog.WithObserver(func([]runlog.Entry) { s.publishRunning(gen) }),
	)
	s.runID = runID
	s.log = log
	s.state = Running{RunID: runID}
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
	s.logger.Info("run started", zap.String("run_id", runID))

	var result *T
	req := s.workflow.Build(&in)
	req.Interpret = func(raw types.RawPayload) error {
		var err error
		result, err = s.workflow.Interpret(raw, log)
		return err
	}
	_, err := s.pipeline.Run(ctx, sess, req, log)

	return s.settle(gen, runID, log, &in, result, err)
}

func (s *Screen[T]) settle(gen uint64, runID string, log *runlog.Log, in *types.WorkflowInput, result *T, runErr error) (State, error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Info("discarding stale run", zap.String("run_id", runID), zap.Error(runErr))
		return nil, ErrStale
	}

	s.busy = false
	if runErr != nil {
		s.state = Failure{RunID: runID, Message: UserMessage(runErr), Err: runErr}
	} else {
		s.state = Success[T]{RunID: runID, Result: result, Input: in.Clone()}
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	if runErr != nil {
		s.logger.Warn("run failed", zap.String("run_id", runID), zap.Error(runErr))
	} else {
		s.logger.Info("run succeeded", zap.String("run_id", runID), zap.Int("log_entries", log.Len()))
	}
	s.notify(state)
	return state, runErr
}

// Reset returns the screen to a clean Idle: input, result and log are discarded. A run still
// in flight is not cancelled, but its eventual settlement is ignored.
func (s *Screen[T]) Reset() {
	s.mu.Lock()
	if s.busy {
		s.logger.Info("reset while running", zap.String("run_id", s.runID))
	}
	s.generation++
	s.busy = false
	s.input = types.WorkflowInput{}
	s.state = Idle{}
	s.runID = ""
	s.log = nil
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

// Result returns the canonical result when the screen is in Success.
func (s *Screen[T]) Result() (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.state.(Success[T]); ok {
		return st.Result, true
	}
	return nil, false
}

// Settled returns the Success state, with the input that produced it.
func (s *Screen[T]) Settled() (Success[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state.(Success[T])
	if !ok {
		return Success[T]{}, false
	}
	st.Input = st.Input.Clone()
	return st, true
}

// Tail returns the last n entries of the current run log.
func (s *Screen[T]) Tail(n int) []runlog.Entry {
	s.mu.Lock()
	log := s.log
	s.mu.Unlock()
	if log == nil {
		return nil
	}
	return log.Tail(n)
}

func (s *Screen[T]) publishRunning(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.busy {
		s.mu.Unlock()
		return
	}
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state)
}

// snapshotLocked attaches a copy of the current log to the state.
func (s *Screen[T]) snapshotLocked() State {
	var entries []runlog.Entry
	if s.log != nil {
		entries = s.log.Entries()
	}
	switch st := s.state.(type) {
	case Running:
		st.Logs = entries
		return st
	case Success[T]:
		st.Logs = entries
		return st
	case Failure:
		st.Logs = entries
		return st
	default:
		return st
	}
}

func (s *Screen[T]) notify(state State) {
	s.mu.Lock()
	subs := append([]func(State){}, s.subscribers...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

// IsStale reports whether err came from a run discarded by Reset.
func IsStale(err error) bool {
	return errors.Is(err, ErrStale)
}
