package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid", 40.7128, -74.0060, false},
		{"latitude at north pole", 90, 10, false},
		{"latitude at south pole", -90, 10, false},
		{"longitude at antimeridian", 10, 180, false},
		{"latitude above range", 91, 10, true},
		{"latitude below range", -90.0001, 10, true},
		{"longitude below range", 10, -181, true},
		{"longitude above range", 10, 180.5, true},
		{"null island", 0, 0, true},
		{"zero latitude only", 0, 12, false},
		{"zero longitude only", 12, 0, false},
		{"nan latitude", math.NaN(), 10, true},
		{"infinite longitude", 10, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lng)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRadius(t *testing.T) {
	assert.NoError(t, ValidateRadius(0.1))
	assert.NoError(t, ValidateRadius(MaxRadiusKm))
	assert.Error(t, ValidateRadius(0))
	assert.Error(t, ValidateRadius(-5))
	assert.Error(t, ValidateRadius(MaxRadiusKm+0.001))
	assert.Error(t, ValidateRadius(math.NaN()))
}

func TestParseCoordinate(t *testing.T) {
	v, err := ParseCoordinate("lat", " 40.5 ")
	require.NoError(t, err)
	assert.Equal(t, 40.5, v)

	for _, raw := range []string{"", "abc", "NaN", "Inf", "-Inf", "1e400"} {
		_, err := ParseCoordinate("lat", raw)
		assert.Error(t, err, raw)
	}
}

func TestParseRadius(t *testing.T) {
	r, err := ParseRadius("", DefaultNearbyRadiusKm)
	require.NoError(t, err)
	assert.Equal(t, 10.0, r)

	r, err = ParseRadius("2.5", DefaultNearbyRadiusKm)
	require.NoError(t, err)
	assert.Equal(t, 2.5, r)

	_, err = ParseRadius("ten", DefaultNearbyRadiusKm)
	assert.Error(t, err)
	_, err = ParseRadius("1001", DefaultNearbyRadiusKm)
	assert.Error(t, err)
}

func TestParseCategoryFilter(t *testing.T) {
	filter, err := ParseCategoryFilter("")
	require.NoError(t, err)
	assert.Nil(t, filter)

	filter, err = ParseCategoryFilter("All")
	require.NoError(t, err)
	assert.Nil(t, filter)

	filter, err = ParseCategoryFilter("bio materials")
	require.NoError(t, err)
	assert.Equal(t, []entities.Category{entities.CategoryBioMaterials}, filter)

	_, err = ParseCategoryFilter("Glass")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
