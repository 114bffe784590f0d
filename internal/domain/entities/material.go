package entities

import (
	"time"

	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/geo"
)

// MaterialStatus tracks where a listing is in the request lifecycle.
type MaterialStatus string

const (
	MaterialStatusAvailable MaterialStatus = "available"
	MaterialStatusRequested MaterialStatus = "requested"
	MaterialStatusPicked    MaterialStatus = "picked"
)

// GeoPoint is a GeoJSON point. Coordinates are stored as [longitude, latitude];
// use NewGeoPoint and the accessors instead of indexing Coordinates directly.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint builds a point from the human (latitude, longitude) order.
func NewGeoPoint(latitude, longitude float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: [2]float64{longitude, latitude},
	}
}

// Longitude returns the first GeoJSON coordinate.
func (p GeoPoint) Longitude() float64 {
	return p.Coordinates[0]
}

// Latitude returns the second GeoJSON coordinate.
func (p GeoPoint) Latitude() float64 {
	return p.Coordinates[1]
}

// IsZero reports whether p is the (0, 0) "no location" sentinel.
func (p GeoPoint) IsZero() bool {
	return p.Coordinates[0] == 0 && p.Coordinates[1] == 0
}

// DistanceKm returns the great-circle distance to other.
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	return geo.DistanceKm(p.Latitude(), p.Longitude(), other.Latitude(), other.Longitude())
}

// Material is a listing offered by a provider.
type Material struct {
	ID          string         `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Category    Category       `json:"category" db:"category"`
	Quantity    float64        `json:"quantity" db:"quantity"`
	Unit        string         `json:"unit" db:"unit"`
	ImageURLs   []string       `json:"imageUrls" db:"image_urls"`
	Address     string         `json:"address" db:"address"`
	Location    GeoPoint       `json:"location"`
	Status      MaterialStatus `json:"status" db:"status"`
	ProviderID  string         `json:"providerId" db:"provider_id"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsAvailable reports whether the material can appear in search results.
func (m *Material) IsAvailable() bool {
	return m.Status == MaterialStatusAvailable
}
