package workflow

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/client"
	"github.com/jonathan/resume-analyzer/internal/normalize"
	"github.com/jonathan/resume-analyzer/internal/validation"
)

var (
	// ErrBusy is returned when a run is already in flight. The trigger is dropped, not queued.
	ErrBusy = errors.New("a request is already in progress")

	// ErrResetRequired is returned when Start is called on a settled success.
	ErrResetRequired = errors.New("reset the screen before starting a new run")

	// ErrStale is returned by a run whose screen was reset while it was in flight.
	ErrStale = errors.New("run was superseded by a reset")
)

// MsgMissingContext is shown when the derived action has no analysis to work from.
const MsgMissingContext = "Missing file information. Please re-analyze your resume."

// MissingContextError means the derived action was invoked without a settled analysis.
type MissingContextError struct {
	Missing string
}

func (e *MissingContextError) Error() string {
	return MsgMissingContext
}

// UserMessage returns the single line shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		vErr         *validation.Error
		rejected     *client.ServerRejectedError
		transportErr *client.TransportError
		malformed    *client.MalformedResponseError
		normErr      *normalize.Error
		missing      *MissingContextError
	)
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &rejected):
		return rejected.Message
	case errors.As(err, &normErr):
		return normErr.Message
	case errors.As(err, &missing):
		return missing.Error()
	case errors.As(err, &transportErr):
		return fmt.Sprintf("Could not reach the server: %v", transportErr.Cause)
	case errors.As(err, &malformed):
		return "The server returned an unexpected response"
	default:
		return err.Error()
	}
}
