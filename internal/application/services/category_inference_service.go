package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/providers"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

// InferenceErrorKind names why category inference failed.
type InferenceErrorKind string

const (
	InferenceNetwork        InferenceErrorKind = "network"
	InferenceUnauthorized   InferenceErrorKind = "unauthorized"
	InferenceModelNotFound  InferenceErrorKind = "model_not_found"
	InferenceRateLimited    InferenceErrorKind = "rate_limited"
	InferenceUpstreamStatus InferenceErrorKind = "upstream_status"
	InferenceMalformedJSON  InferenceErrorKind = "malformed_json"
	InferenceInvalidSchema  InferenceErrorKind = "invalid_schema"
	InferenceZeroWeights    InferenceErrorKind = "zero_weights"
)

// InferenceError is a hard failure of category inference. There is never a
// fallback category set behind it.
type InferenceError struct {
	Kind InferenceErrorKind
	Err  error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("category inference failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("category inference failed (%s)", e.Kind)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// AsInferenceError reports whether err carries an InferenceError.
func AsInferenceError(err error) (*InferenceError, bool) {
	var infErr *InferenceError
	if errors.As(err, &infErr) {
		return infErr, true
	}
	return nil, false
}

func newInferenceError(kind InferenceErrorKind, format string, args ...interface{}) *InferenceError {
	return &InferenceError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

var codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\\s*```$")

// CategoryInferenceService turns a project description into weighted
// material categories.
type CategoryInferenceService struct {
	provider providers.CategoryInferenceProvider
}

// NewCategoryInferenceService creates a new category inference service
func NewCategoryInferenceService(provider providers.CategoryInferenceProvider) *CategoryInferenceService {
	return &CategoryInferenceService{provider: provider}
}

// Infer calls the provider once and validates its reply. Validation errors
// are returned as AppErrors; everything else is an *InferenceError.
func (s *CategoryInferenceService) Infer(ctx context.Context, query string) (*entities.CategoryInference, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}

	ctx, span := observability.StartSpan(ctx, "CategoryInferenceService.Infer")
	defer span.End()

	reply, err := s.provider.InferCategories(ctx, query)
	if err != nil {
		infErr := classifyProviderError(err)
		observability.RecordError(span, infErr)
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("kind", string(infErr.Kind)).
			Msg("category inference provider failed")
		return nil, infErr
	}

	inference, err := ParseCategoryInference(query, reply.Content)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("model", reply.Model).
			Msg("category inference reply rejected")
		return nil, err
	}
	inference.Model = reply.Model

	return inference, nil
}

func classifyProviderError(err error) *InferenceError {
	kind := InferenceUpstreamStatus
	switch {
	case errors.Is(err, providers.ErrInferenceUnauthorized):
		kind = InferenceUnauthorized
	case errors.Is(err, providers.ErrInferenceModelNotFound):
		kind = InferenceModelNotFound
	case errors.Is(err, providers.ErrInferenceRateLimited):
		kind = InferenceRateLimited
	case errors.Is(err, providers.ErrInferenceMalformed):
		kind = InferenceMalformedJSON
	case errors.Is(err, providers.ErrInferenceUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		kind = InferenceNetwork
	}
	return &InferenceError{Kind: kind, Err: err}
}

// ParseCategoryInference validates a raw model reply, maps names onto the
// taxonomy, merges duplicates and normalizes weights to sum to 1.
func ParseCategoryInference(query, content string) (*entities.CategoryInference, error) {
	cleaned := stripCodeFence(content)

	var payload interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, newInferenceError(InferenceMalformedJSON, "reply is not valid JSON: %v", err)
	}

	root, ok := payload.(map[string]interface{})
	if !ok {
		return nil, newInferenceError(InferenceInvalidSchema, "reply must be a JSON object")
	}
	rawCategories, ok := root["categories"].([]interface{})
	if !ok {
		return nil, newInferenceError(InferenceInvalidSchema, "categories must be an array")
	}
	if len(rawCategories) == 0 {
		return nil, newInferenceError(InferenceInvalidSchema, "categories is empty")
	}

	parsed := make([]entities.CategoryWeight, 0, len(rawCategories))
	for i, raw := range rawCategories {
		cw, err := parseCategoryEntry(i, raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, cw)
	}

	merged, total := mergeCategoryWeights(parsed)
	if total == 0 {
		return nil, newInferenceError(InferenceZeroWeights, "all %d category weights are zero", len(parsed))
	}
	for i := range merged {
		merged[i].Weight /= total
	}

	return &entities.CategoryInference{
		Query:      query,
		Categories: merged,
		Raw:        json.RawMessage(cleaned),
	}, nil
}

func parseCategoryEntry(i int, raw interface{}) (entities.CategoryWeight, error) {
	entry, ok := raw.(map[string]interface{})
	if !ok {
		return entities.CategoryWeight{}, newInferenceError(InferenceInvalidSchema, "categories[%d] must be an object", i)
	}

	name, _ := entry["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.CategoryWeight{}, newInferenceError(InferenceInvalidSchema, "categories[%d].name is required", i)
	}

	weight, ok := entry["weight"].(float64)
	if !ok {
		return entities.CategoryWeight{}, newInferenceError(InferenceInvalidSchema, "categories[%d].weight must be a number", i)
	}
	if math.IsNaN(weight) || weight < 0 || weight > 1 {
		return entities.CategoryWeight{}, newInferenceError(InferenceInvalidSchema, "categories[%d].weight must be between 0 and 1, got %g", i, weight)
	}

	reason, _ := entry["reason"].(string)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.CategoryWeight{}, newInferenceError(InferenceInvalidSchema, "categories[%d].reason is required", i)
	}

	return entities.CategoryWeight{
		Name:   entities.NormalizeCategoryName(name),
		Weight: weight,
		Reason: reason,
	}, nil
}

// mergeCategoryWeights sums weights of entries that share a category,
// keeping the order in which each category first appeared.
func mergeCategoryWeights(in []entities.CategoryWeight) ([]entities.CategoryWeight, float64) {
	index := make(map[entities.Category]int, len(in))
	out := make([]entities.CategoryWeight, 0, len(in))
	total := 0.0

	for _, cw := range in {
		total += cw.Weight
		if i, ok := index[cw.Name]; ok {
			out[i].Weight += cw.Weight
			out[i].Reason = out[i].Reason + "; " + cw.Reason
			continue
		}
		index[cw.Name] = len(out)
		out = append(out, cw)
	}
	return out, total
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}
