package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	tsclient "github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/typesense"
)

const (
	collectionName = tsclient.MaterialsCollection

	// maxPerPage is the largest page Typesense will serve.
	maxPerPage = 250

	// radiusSlackKm widens the geo filter so points exactly on the boundary
	// survive float rounding; callers re-check the exact distance.
	radiusSlackKm = 1e-6
)

// TypesenseAdapter implements the material geo index using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.MaterialIndex = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a material document
func (a *TypesenseAdapter) Index(ctx context.Context, material *entities.Material) error {
	if material == nil {
		return fmt.Errorf("material is required")
	}
	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, materialDocument(material))
	if err != nil {
		return fmt.Errorf("failed to index material %s: %w", material.ID, err)
	}
	return nil
}

// Delete removes a material from index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete material from index: %w", err)
	}
	return nil
}

// IndexedIDs pages through the whole collection, fetching only ids.
func (a *TypesenseAdapter) IndexedIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	for page := 1; ; page++ {
		params := &api.SearchCollectionParams{
			Q:             pointer.String("*"),
			QueryBy:       pointer.String("title"),
			IncludeFields: pointer.String("id"),
			SortBy:        pointer.String("created_at:desc"),
			Page:          pointer.Int(page),
			PerPage:       pointer.Int(maxPerPage),
		}
		result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list indexed materials: %w", err)
		}
		if result == nil || result.Hits == nil {
			return ids, nil
		}

		for _, hit := range *result.Hits {
			if hit.Document == nil {
				continue
			}
			if id, _ := (*hit.Document)["id"].(string); id != "" {
				ids = append(ids, id)
			}
		}
		if len(*result.Hits) < maxPerPage {
			return ids, nil
		}
	}
}

// FindNearby runs a geo radius search sorted by distance from the center.
func (a *TypesenseAdapter) FindNearby(ctx context.Context, query repositories.NearbyQuery) ([]*entities.Material, error) {
	lat := formatCoord(query.Center.Latitude())
	lng := formatCoord(query.Center.Longitude())

	filters := []string{
		"status:=" + string(entities.MaterialStatusAvailable),
		fmt.Sprintf("location:(%s, %s, %s km)", lat, lng, formatCoord(query.RadiusKm+radiusSlackKm)),
	}
	if f := categoryFilter(query.Categories); f != "" {
		filters = append(filters, f)
	}

	size := perPage(query.Limit)
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("title"),
		FilterBy: pointer.String(strings.Join(filters, " && ")),
		SortBy:   pointer.String(fmt.Sprintf("location(%s, %s):asc", lat, lng)),
		Page:     pointer.Int(pageFor(query.Offset, size)),
		PerPage:  pointer.Int(size),
	}
	return a.search(ctx, params)
}

// Find runs a filtered query without spatial narrowing, newest first.
func (a *TypesenseAdapter) Find(ctx context.Context, filter repositories.MaterialFilter) ([]*entities.Material, error) {
	status := filter.Status
	if status == "" {
		status = entities.MaterialStatusAvailable
	}
	filters := []string{"status:=" + string(status)}
	if f := categoryFilter(filter.Categories); f != "" {
		filters = append(filters, f)
	}

	size := perPage(filter.Limit)
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("title"),
		FilterBy: pointer.String(strings.Join(filters, " && ")),
		SortBy:   pointer.String("created_at:desc"),
		Page:     pointer.Int(pageFor(filter.Offset, size)),
		PerPage:  pointer.Int(size),
	}
	return a.search(ctx, params)
}

func (a *TypesenseAdapter) search(ctx context.Context, params *api.SearchCollectionParams) ([]*entities.Material, error) {
	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search materials: %w", err)
	}

	materials := []*entities.Material{}
	if result == nil || result.Hits == nil {
		return materials, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		material, err := materialFromDocument(*hit.Document)
		if err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}
	return materials, nil
}

func perPage(limit int) int {
	if limit <= 0 || limit > maxPerPage {
		return maxPerPage
	}
	return limit
}

// pageFor maps an offset onto Typesense's 1-based pages. Offsets are
// expected to be multiples of size.
func pageFor(offset, size int) int {
	if offset <= 0 {
		return 1
	}
	return offset/size + 1
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// categoryFilter builds an exact-match filter. Names are backticked because
// "Bio Materials" contains a space.
func categoryFilter(categories []entities.Category) string {
	if len(categories) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(categories))
	for _, c := range categories {
		quoted = append(quoted, "`"+c.String()+"`")
	}
	return "category:=[" + strings.Join(quoted, ", ") + "]"
}

func materialDocument(m *entities.Material) map[string]interface{} {
	imageURLs := m.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	return map[string]interface{}{
		"id":          m.ID,
		"title":       m.Title,
		"description": m.Description,
		"category":    m.Category.String(),
		"quantity":    m.Quantity,
		"unit":        m.Unit,
		"image_urls":  imageURLs,
		"address":     m.Address,
		"status":      string(m.Status),
		"provider_id": m.ProviderID,
		"location":    []float64{m.Location.Latitude(), m.Location.Longitude()},
		"created_at":  m.CreatedAt.Unix(),
		"updated_at":  m.UpdatedAt.Unix(),
	}
}

func materialFromDocument(doc map[string]interface{}) (*entities.Material, error) {
	id, _ := doc["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("typesense document missing id")
	}

	loc, ok := doc["location"].([]interface{})
	if !ok || len(loc) != 2 {
		return nil, fmt.Errorf("typesense document %s has invalid location", id)
	}
	lat, latOK := loc[0].(float64)
	lng, lngOK := loc[1].(float64)
	if !latOK || !lngOK {
		return nil, fmt.Errorf("typesense document %s has invalid location", id)
	}

	m := &entities.Material{
		ID:         id,
		Location:   entities.NewGeoPoint(lat, lng),
		Title:      stringField(doc, "title"),
		Category:   entities.NormalizeCategoryName(stringField(doc, "category")),
		Status:     entities.MaterialStatus(stringField(doc, "status")),
		ProviderID: stringField(doc, "provider_id"),
	}
	m.Description = stringField(doc, "description")
	m.Unit = stringField(doc, "unit")
	m.Address = stringField(doc, "address")
	if v, ok := doc["quantity"].(float64); ok {
		m.Quantity = v
	}
	if raw, ok := doc["image_urls"].([]interface{}); ok {
		m.ImageURLs = make([]string, 0, len(raw))
		for _, u := range raw {
			if s, ok := u.(string); ok {
				m.ImageURLs = append(m.ImageURLs, s)
			}
		}
	}
	if v, ok := doc["created_at"].(float64); ok {
		m.CreatedAt = time.Unix(int64(v), 0).UTC()
	}
	if v, ok := doc["updated_at"].(float64); ok {
		m.UpdatedAt = time.Unix(int64(v), 0).UTC()
	}
	return m, nil
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}
