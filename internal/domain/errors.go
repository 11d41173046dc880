package domain

import "fmt"

// Error types for consistent error handling across the BFA.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
	// Message, when set, is the user-facing text.
	Message string
}

func (e *ErrNotFound) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrBackend is a rejection returned by the hosted backend. Message is the
// backend-supplied text and is shown to the user as is.
type ErrBackend struct {
	Status  int
	Code    string
	Message string
}

func (e *ErrBackend) Error() string {
	return e.Message
}

// Retryable reports whether repeating the call may succeed.
func (e *ErrBackend) Retryable() bool {
	return e.Status == 0 || e.Status == 429 || e.Status >= 500
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input). Fields maps each
// offending field path to its first violated rule message.
type ErrValidation struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrPrecondition indicates a submission precondition was not met.
type ErrPrecondition struct {
	Title   string
	Message string
}

func (e *ErrPrecondition) Error() string {
	return e.Message
}

// ErrForbidden indicates the user lacks permission for the operation.
type ErrForbidden struct {
	Action  string
	Message string
}

func (e *ErrForbidden) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrUnauthorized indicates invalid credentials or a missing session.
type ErrUnauthorized struct {
	Message    string
	RedirectTo string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict indicates a resource already exists (e.g. duplicate email).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrNotImplemented marks an operation that is deliberately stubbed.
type ErrNotImplemented struct {
	Feature string
	Message string
}

func (e *ErrNotImplemented) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("not implemented: %s", e.Feature)
}
