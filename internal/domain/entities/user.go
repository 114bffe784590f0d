package entities

import (
	"time"
)

// User is the slice of an authenticated account the search core needs.
type User struct {
	ID              string    `json:"id" db:"id"`
	Role            string    `json:"role" db:"role"`
	DefaultLocation *GeoPoint `json:"defaultLocation,omitempty"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
