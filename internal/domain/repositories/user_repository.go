package repositories

import (
	"context"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
)

// UserRepository resolves authenticated users
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
