package database

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/geo"
)

func materialRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "category", "quantity", "unit",
		"image_urls", "address", "latitude", "longitude", "status",
		"provider_id", "created_at", "updated_at",
	}).
		AddRow("m-1", "Copper wire", nil, "metal", 5.0, "kg", "{https://img/1.png}", "Dock 4", 40.72, -74.0, "available", "p-1", now, now).
		AddRow("m-2", "Arduino boards", "Unused", "Electronics", 3.0, nil, "{}", nil, 40.75, -73.99, "available", "p-2", now, now)
}

func TestMaterialAdapter_FindNearby(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMaterialAdapter(client)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .+ FROM "materials" WHERE .*"status" = 'available'.*"category" IN \('Electronics', 'Metals'\).*"latitude" BETWEEN .*"longitude" BETWEEN .*asin.*<= .*ORDER BY .*ASC.* LIMIT 100`).
		WillReturnRows(materialRows(now))

	materials, err := adapter.FindNearby(context.Background(), repositories.NearbyQuery{
		Center:     entities.NewGeoPoint(40.7128, -74.0060),
		RadiusKm:   10,
		Categories: []entities.Category{entities.CategoryElectronics, entities.CategoryMetals},
		Limit:      100,
	})
	require.NoError(t, err)
	require.Len(t, materials, 2)

	first := materials[0]
	assert.Equal(t, "m-1", first.ID)
	assert.Equal(t, entities.CategoryMetals, first.Category)
	assert.Equal(t, []string{"https://img/1.png"}, first.ImageURLs)
	assert.Equal(t, "", first.Description)
	assert.Equal(t, 40.72, first.Location.Latitude())
	assert.Equal(t, -74.0, first.Location.Longitude())
	assert.Equal(t, entities.MaterialStatusAvailable, first.Status)

	assert.Equal(t, "", materials[1].Unit)
	assert.Empty(t, materials[1].ImageURLs)
}

func TestMaterialAdapter_FindNearbyWithoutCategories(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMaterialAdapter(client)

	mock.ExpectQuery(`SELECT .+ FROM "materials" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := adapter.FindNearby(context.Background(), repositories.NearbyQuery{
		Center:   entities.NewGeoPoint(12.97, 77.59),
		RadiusKm: 5,
	})
	require.NoError(t, err)
}

func TestMaterialAdapter_FindNearbyPages(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMaterialAdapter(client)

	mock.ExpectQuery(`(?s)SELECT .+ FROM "materials" WHERE .*ORDER BY .*"id" ASC LIMIT 250 OFFSET 500`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := adapter.FindNearby(context.Background(), repositories.NearbyQuery{
		Center:   entities.NewGeoPoint(40.7128, -74.0060),
		RadiusKm: 50,
		Limit:    250,
		Offset:   500,
	})
	require.NoError(t, err)
}

func TestMaterialAdapter_Find(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMaterialAdapter(client)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT .+ FROM "materials" WHERE .*"status" = 'available'.*"category" IN \('Plastics'\).*ORDER BY "created_at" DESC.* LIMIT 20 OFFSET 40`).
		WillReturnRows(materialRows(now))

	materials, err := adapter.Find(context.Background(), repositories.MaterialFilter{
		Categories: []entities.Category{entities.CategoryPlastics},
		Limit:      20,
		Offset:     40,
	})
	require.NoError(t, err)
	assert.Len(t, materials, 2)
}

func TestMaterialAdapter_QueryErrorIsInternal(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMaterialAdapter(client)

	mock.ExpectQuery(`SELECT .+ FROM "materials"`).WillReturnError(errors.New("connection reset"))

	_, err := adapter.Find(context.Background(), repositories.MaterialFilter{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestBoundingBox(t *testing.T) {
	t.Run("contains the circle", func(t *testing.T) {
		lat, lng, radius := 40.7128, -74.0060, 10.0
		box, ok := boundingBox(lat, lng, radius)
		require.True(t, ok)

		north := lat + radius/geo.EarthRadiusKm*180/math.Pi
		assert.LessOrEqual(t, north, box.maxLat)

		// Find the longitude due east at exactly the radius.
		lo, hi := lng, lng+1
		for i := 0; i < 60; i++ {
			mid := (lo + hi) / 2
			if geo.DistanceKm(lat, lng, lat, mid) < radius {
				lo = mid
			} else {
				hi = mid
			}
		}
		assert.LessOrEqual(t, hi, box.maxLng)
		assert.GreaterOrEqual(t, lng-(hi-lng), box.minLng)
	})

	t.Run("skipped near the poles", func(t *testing.T) {
		_, ok := boundingBox(89.99, 0, 50)
		assert.False(t, ok)
	})

	t.Run("skipped across the antimeridian", func(t *testing.T) {
		_, ok := boundingBox(0, 179.99, 50)
		assert.False(t, ok)
	})

	t.Run("skipped for non-positive radius", func(t *testing.T) {
		_, ok := boundingBox(10, 10, 0)
		assert.False(t, ok)
	})
}
