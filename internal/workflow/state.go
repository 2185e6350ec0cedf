// Package workflow holds the screen controllers: the input, running, success and failure
// state machine of one workflow screen, and the derived action offered on its result.
package workflow

import (
	"github.com/jonathan/resume-analyzer/internal/runlog"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Status names a workflow state.
type Status string

const (
	StatusIdle    Status = "input"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// State is one of Idle, Running, Success[T] or Failure.
type State interface {
	Status() Status
	Entries() []runlog.Entry
}

// Idle is the input state. Notice carries the last validation message, if any.
type Idle struct {
	Notice string
}

func (Idle) Status() Status          { return StatusIdle }
func (Idle) Entries() []runlog.Entry { return nil }

// Running is an in-flight run. Logs is a snapshot taken when the state was read.
type Running struct {
	RunID string
	Logs  []runlog.Entry
}

func (Running) Status() Status            { return StatusRunning }
func (s Running) Entries() []runlog.Entry { return s.Logs }

// Success is a settled run with its canonical result. Input is the input the run was
// started with; later edits on the screen do not change it.
type Success[T any] struct {
	RunID  string
	Result *T
	Input  types.WorkflowInput
	Logs   []runlog.Entry
}

func (Success[T]) Status() Status            { return StatusSuccess }
func (s Success[T]) Entries() []runlog.Entry { return s.Logs }

// Failure is a settled run that failed. Message is what the user sees.
type Failure struct {
	RunID   string
	Message string
	Err     error
	Logs    []runlog.Entry
}

func (Failure) Status() Status            { return StatusFailure }
func (s Failure) Entries() []runlog.Entry { return s.Logs }
