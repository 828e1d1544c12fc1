package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers. NotFound covers both a missing
// entity and one the caller has no visibility of.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

// APIError pairs a sentinel with the detail message returned to the client.
// Matching on the sentinel via errors.Is still works through Unwrap.
type APIError struct {
	Err     error
	Message string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

func NewErrEmailTaken() error {
	return &APIError{Err: ErrConflict, Message: "Email already registered"}
}

func NewErrUsernameTaken() error {
	return &APIError{Err: ErrConflict, Message: "Username already taken"}
}

func NewErrPasswordTooShort() error {
	return &APIError{Err: ErrInvalidArgument, Message: "Password must be at least 6 characters long"}
}

func NewErrPasswordTooLong() error {
	return &APIError{Err: ErrInvalidArgument, Message: "Password cannot be longer than 72 characters"}
}

func NewErrInvalidCredentials() error {
	return &APIError{Err: ErrUnauthorized, Message: "Invalid credentials"}
}

func NewErrMissingAuthorizationToken() error {
	return &APIError{Err: ErrUnauthorized, Message: "Missing authorization token"}
}

func NewErrInvalidAuthorizationToken() error {
	return &APIError{Err: ErrUnauthorized, Message: "Invalid authorization token"}
}

func NewErrGoogleAccount() error {
	return &APIError{Err: ErrUnauthorized, Message: "This account uses Google sign-in. Please use 'Sign in with Google' button."}
}

func NewErrLocalAccount() error {
	return &APIError{Err: ErrInvalidArgument, Message: "This email is registered with username/password. Please use regular login."}
}

func NewErrInvalidGoogleToken() error {
	return &APIError{Err: ErrUnauthorized, Message: "Invalid Google token"}
}

func NewErrInvalidRequestBody() error {
	return &APIError{Err: ErrInvalidArgument, Message: "Invalid request body"}
}

func NewErrInvalidNoteID() error {
	return &APIError{Err: ErrInvalidArgument, Message: "Invalid note id"}
}

func NewErrNoteNotFound() error {
	return &APIError{Err: ErrNotFound, Message: "Note not found"}
}

func NewErrNoteNotOwned() error {
	return &APIError{Err: ErrNotFound, Message: "Note not found or you don't own it"}
}

func NewErrUserNotFound(username string) error {
	return &APIError{Err: ErrNotFound, Message: fmt.Sprintf("User '%s' not found in the system", username)}
}

func NewErrSelfShare() error {
	return &APIError{Err: ErrInvalidArgument, Message: "You cannot share a note with yourself"}
}

func NewErrShareNotFound() error {
	return &APIError{Err: ErrNotFound, Message: "This note is not shared with that user"}
}

func NewErrEditForbidden() error {
	return &APIError{Err: ErrForbidden, Message: "You don't have permission to edit this note"}
}
