// Package validation gates workflow starts on the fields a user has entered.
package validation

import "fmt"

// Reason identifies which rule an input failed.
type Reason string

// Input and credential failure reasons.
const (
	InvalidFileType        Reason = "InvalidFileType"
	MissingJobDescription  Reason = "MissingJobDescription"
	InvalidExperienceValue Reason = "InvalidExperienceValue"

	MissingCredentials Reason = "MissingCredentials"
	PasswordMismatch   Reason = "PasswordMismatch"
	PasswordTooShort   Reason = "PasswordTooShort"
)

// User-facing messages.
const (
	MsgNotPDF            = "Please upload a PDF file"
	MsgMissingResume     = "Please upload a resume PDF"
	MsgMissingJobDesc    = "Please enter a job description"
	MsgInvalidExperience = "Please enter a valid years of experience (greater than 0)"
	MsgMissingLogin      = "Please enter email and password"
	MsgMissingSignup     = "Please fill in all fields"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgPasswordTooShort  = "Password must be at least 6 characters long"
)

// Error is a local validation failure. It blocks a run before any network call.
type Error struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// String includes the reason, for diagnostics.
func (e *Error) String() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func newError(reason Reason, message string, cause error) *Error {
	return &Error{Reason: reason, Message: message, Cause: cause}
}
