package ports

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks across the service boundary.
var (
	ErrValidation   = errors.New("invalid seed query")
	ErrAuth         = errors.New("credential exchange failed")
	ErrNotFound     = errors.New("seed could not be resolved")
	ErrNoEnrichment = errors.New("no candidates could be enriched")
)

// ValidationError indicates a malformed seed query.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("invalid seed query: %s", e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AuthError indicates the upstream credential exchange failed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return ErrAuth.Error()
	}
	return fmt.Sprintf("credential exchange failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// UpstreamRequestError indicates a failed HTTP exchange with a dependency,
// either a non-success status or a transport failure. Transport failures
// carry the cause in Err and report StatusBadGateway.
type UpstreamRequestError struct {
	Service string
	Status  int
	Err     error
}

func (e *UpstreamRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: upstream request failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s: upstream request failed with status %d", e.Service, e.Status)
}

func (e *UpstreamRequestError) Unwrap() error { return e.Err }

// UpstreamServiceError indicates a dependency returned a structured error
// payload, distinct from an HTTP-level failure.
type UpstreamServiceError struct {
	Service string
	Message string
}

func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("%s: upstream service error: %s", e.Service, e.Message)
}

// NotFoundError indicates the seed query resolved to nothing.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	if e.Query == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("seed could not be resolved: %q", e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NoEnrichmentError indicates that not a single similarity candidate could
// be resolved against the catalog.
type NoEnrichmentError struct {
	Candidates int
}

func (e *NoEnrichmentError) Error() string {
	return fmt.Sprintf("no candidates could be enriched (tried %d)", e.Candidates)
}

func (e *NoEnrichmentError) Is(target error) bool {
	return target == ErrNoEnrichment
}
