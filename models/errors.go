package models

// Error taxonomy for the API. Handlers map these to HTTP statuses; everything
// else becomes a StoreError (500). Client-visible messages must stay free of
// internal identifiers.

type ValidationError struct {
	Message string
}

func NewValidationError(msg string) error { return &ValidationError{Message: msg} }

func (e *ValidationError) Error() string { return e.Message }

type AuthenticationError struct {
	Message string
}

func NewAuthenticationError(msg string) error { return &AuthenticationError{Message: msg} }

func (e *AuthenticationError) Error() string { return e.Message }

type AuthorizationError struct {
	Message string
}

func NewAuthorizationError(msg string) error { return &AuthorizationError{Message: msg} }

func (e *AuthorizationError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func NewNotFoundError(msg string) error { return &NotFoundError{Message: msg} }

func (e *NotFoundError) Error() string { return e.Message }

type StoreError struct {
	Message string
	Err     error
}

func NewStoreError(msg string, err error) error { return &StoreError{Message: msg, Err: err} }

func (e *StoreError) Error() string { return e.Message }

func (e *StoreError) Unwrap() error { return e.Err }
