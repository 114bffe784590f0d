package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
)

var userColumns = []string{"id", "role", "default_latitude", "default_longitude", "created_at", "updated_at"}

func TestUserAdapter_GetByID_WithDefaultLocation(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE \("id" = 'u-1'\)`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-1", "seeker", 19.07, 72.87, now, now))

	user, err := adapter.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, user.DefaultLocation)
	assert.Equal(t, 19.07, user.DefaultLocation.Latitude())
	assert.Equal(t, 72.87, user.DefaultLocation.Longitude())
}

func TestUserAdapter_GetByID_WithoutDefaultLocation(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-2", "seeker", nil, nil, now, now))

	user, err := adapter.GetByID(context.Background(), "u-2")
	require.NoError(t, err)
	assert.Nil(t, user.DefaultLocation)
}

func TestUserAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnError(sql.ErrNoRows)

	_, err := adapter.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
