package entities

import (
	"time"
)

// SearchEvent records one AI search for analytics.
type SearchEvent struct {
	ID            string    `json:"id" db:"id"`
	Query         string    `json:"query" db:"query"`
	Categories    []string  `json:"categories" db:"categories"`
	ResultCount   int       `json:"resultCount" db:"result_count"`
	LatencyMs     int       `json:"latencyMs" db:"latency_ms"`
	UserLatitude  *float64  `json:"userLatitude,omitempty" db:"user_latitude"`
	UserLongitude *float64  `json:"userLongitude,omitempty" db:"user_longitude"`
	UserID        string    `json:"userId,omitempty" db:"user_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
