// Package types provides type definitions for the data exchanged with the analysis service
// and the canonical results the client works with.
package types

import (
	"github.com/go-playground/validator/v10"
)

// LoginRequest is the body of POST api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the body of POST api/auth/signup. ConfirmPassword never leaves the client.
type SignupRequest struct {
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
}

// TokenResponse is the successful response of both auth endpoints.
type TokenResponse struct {
	Token string `json:"token"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SignupRequest using the validator.
func (r *SignupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
