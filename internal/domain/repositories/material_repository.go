package repositories

import (
	"context"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

// MaterialRepository is the read side of the material store.
type MaterialRepository interface {
	// FindNearby returns available materials within RadiusKm of Center
	// (boundary inclusive), nearest first. Ties order by id so pages are
	// stable.
	FindNearby(ctx context.Context, query NearbyQuery) ([]*entities.Material, error)

	// Find returns materials matching filter without any spatial narrowing.
	Find(ctx context.Context, filter MaterialFilter) ([]*entities.Material, error)
}

// MaterialIndex is a spatial index that can be (re)populated from the store.
type MaterialIndex interface {
	MaterialRepository

	// Index upserts a material into the index.
	Index(ctx context.Context, material *entities.Material) error

	// Delete removes a material from the index.
	Delete(ctx context.Context, id string) error

	// IndexedIDs lists the id of every document in the index.
	IndexedIDs(ctx context.Context) ([]string, error)
}

// NearbyQuery describes a radius search. An empty Categories slice means
// every category.
type NearbyQuery struct {
	Center     entities.GeoPoint
	RadiusKm   float64
	Categories []entities.Category
	Limit      int
	Offset     int
}

// MaterialFilter describes a plain filtered query.
type MaterialFilter struct {
	Categories []entities.Category
	Status     entities.MaterialStatus
	Limit      int
	Offset     int
}
