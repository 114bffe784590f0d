package providers

import (
	"context"
	"errors"
)

// Sentinel errors for category inference transport failures. Implementations
// wrap one of these so callers can classify with errors.Is.
var (
	ErrInferenceUnavailable   = errors.New("category inference service unreachable")
	ErrInferenceUnauthorized  = errors.New("category inference credentials rejected")
	ErrInferenceModelNotFound = errors.New("category inference model not found")
	ErrInferenceRateLimited   = errors.New("category inference rate limited")
	ErrInferenceUpstream      = errors.New("category inference upstream error")
	ErrInferenceMalformed     = errors.New("category inference response malformed")
)

// InferenceReply is the raw text a reasoning model produced for a query.
type InferenceReply struct {
	Content string
	Model   string
}

// CategoryInferenceProvider sends a project description to an external
// reasoning model and returns its unparsed reply. Implementations must not
// retry on their own.
type CategoryInferenceProvider interface {
	InferCategories(ctx context.Context, query string) (*InferenceReply, error)
}
