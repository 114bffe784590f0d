package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/config"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/retry"
)

const (
	MaterialsCollection = "materials"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(context.Background(), retry.DefaultConfig(), "Typesense", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := client.Health(ctx, 2*time.Second)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// NewClientFromTypesense wraps an existing client without a health check.
func NewClientFromTypesense(client *typesense.Client) *Client {
	return &Client{client: client}
}

// Ping reports whether the Typesense node is healthy
func (c *Client) Ping(ctx context.Context) error {
	healthy, err := c.client.Health(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	if !healthy {
		return fmt.Errorf("typesense reported unhealthy")
	}
	return nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// MaterialsSchema describes the geo-indexed materials collection. Location is
// stored as [lat, lng], which is the order Typesense geopoints expect.
func MaterialsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: MaterialsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "quantity", Type: "float", Optional: pointer.True()},
			{Name: "unit", Type: "string", Optional: pointer.True()},
			{Name: "image_urls", Type: "string[]", Optional: pointer.True()},
			{Name: "address", Type: "string", Optional: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "provider_id", Type: "string"},
			{Name: "location", Type: "geopoint"},
			{Name: "created_at", Type: "int64"},
			{Name: "updated_at", Type: "int64", Optional: pointer.True()},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}

// InitSchema ensures the materials collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == MaterialsCollection {
			log.Debug().Str("collection", MaterialsCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	if _, err := c.client.Collections().Create(ctx, MaterialsSchema()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", MaterialsCollection).Msg("created Typesense collection")
	return nil
}

// ResetSchema drops and recreates the materials collection.
func (c *Client) ResetSchema(ctx context.Context) error {
	if _, err := c.client.Collection(MaterialsCollection).Delete(ctx); err != nil {
		log.Warn().Err(err).Str("collection", MaterialsCollection).Msg("drop before reset failed")
	}
	if _, err := c.client.Collections().Create(ctx, MaterialsSchema()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}
