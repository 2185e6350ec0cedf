package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Login checks that both credentials were entered.
func Login(req *types.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return newError(MissingCredentials, MsgMissingLogin, err)
	}
	return nil
}

// Signup checks, in order: all fields present, confirmation matches, minimum length.
func Signup(req *types.SignupRequest) error {
	err := req.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return newError(MissingCredentials, MsgMissingSignup, err)
	}

	if hasTag(fieldErrs, "required") {
		return newError(MissingCredentials, MsgMissingSignup, err)
	}
	if hasTag(fieldErrs, "eqfield") {
		return newError(PasswordMismatch, MsgPasswordMismatch, err)
	}
	return newError(PasswordTooShort, MsgPasswordTooShort, err)
}

func hasTag(errs validator.ValidationErrors, tag string) bool {
	for _, fe := range errs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}
