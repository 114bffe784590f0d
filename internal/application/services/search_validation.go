package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

const (
	// MaxRadiusKm is the largest search radius accepted from clients.
	MaxRadiusKm = 1000.0

	// DefaultNearbyRadiusKm applies when a nearby search omits the radius.
	DefaultNearbyRadiusKm = 10.0

	// DefaultAISearchRadiusKm applies when an AI search omits the radius.
	DefaultAISearchRadiusKm = 50.0

	allCategories = "all"
)

// ParseCoordinate parses a raw query value as a finite number.
func ParseCoordinate(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.NewValidationErrorf("%s is required", field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.NewValidationErrorf("%s must be a finite number", field)
	}
	return v, nil
}

// ParseRadius parses an optional radius, using def when raw is empty.
func ParseRadius(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("radius must be a number")
	}
	return v, ValidateRadius(v)
}

// ValidateCoordinates checks a latitude/longitude pair. (0, 0) is rejected
// because clients send it when they have no location.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return apperrors.NewValidationError("latitude must be a finite number")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return apperrors.NewValidationError("longitude must be a finite number")
	}
	if lat == 0 && lng == 0 {
		return apperrors.NewValidationError("latitude and longitude (0, 0) is not a valid location")
	}
	if lat < -90 || lat > 90 {
		return apperrors.NewValidationErrorf("latitude must be between -90 and 90, got %g", lat)
	}
	if lng < -180 || lng > 180 {
		return apperrors.NewValidationErrorf("longitude must be between -180 and 180, got %g", lng)
	}
	return nil
}

// ValidateRadius checks that radius is in (0, MaxRadiusKm].
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return apperrors.NewValidationError("radius must be a finite number")
	}
	if radius <= 0 || radius > MaxRadiusKm {
		return apperrors.NewValidationErrorf("radius must be greater than 0 and at most %g km, got %g", MaxRadiusKm, radius)
	}
	return nil
}

// ParseCategoryFilter turns the optional category parameter into a filter.
// Empty and "All" mean no filter.
func ParseCategoryFilter(raw string) ([]entities.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, allCategories) {
		return nil, nil
	}
	c, err := entities.ParseCategory(raw)
	if err != nil {
		return nil, apperrors.NewValidationErrorf("category must be one of %s or All", categoryList())
	}
	return []entities.Category{c}, nil
}

func categoryList() string {
	names := make([]string, len(entities.Categories))
	for i, c := range entities.Categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
