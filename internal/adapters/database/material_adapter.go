package database

import (
	"context"
	"database/sql"
	"math"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/vanshika145/Upcycle-Connect-sub000/pkg/errors"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/geo"
)

const (
	materialsTable = "materials"

	// radiusSlackKm keeps rows that sit exactly on the radius after float
	// rounding in the database; the service re-checks the exact distance.
	radiusSlackKm = 1e-6
)

var materialColumns = []interface{}{
	"id", "title", "description", "category", "quantity", "unit",
	"image_urls", "address", "latitude", "longitude", "status",
	"provider_id", "created_at", "updated_at",
}

// haversineSQL mirrors geo.DistanceKm. Arguments: center lat, center lat, center lng.
const haversineSQL = `(6371.0 * 2 * asin(least(1.0, sqrt(
	power(sin(radians(latitude - ?) / 2), 2) +
	cos(radians(?)) * cos(radians(latitude)) * power(sin(radians(longitude - ?) / 2), 2)
))))`

// MaterialAdapter implements MaterialRepository over PostgreSQL
type MaterialAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMaterialAdapter creates a new material adapter
func NewMaterialAdapter(client *postgres.Client) repositories.MaterialRepository {
	return &MaterialAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// FindNearby returns available materials within the radius, nearest first.
func (a *MaterialAdapter) FindNearby(ctx context.Context, q repositories.NearbyQuery) ([]*entities.Material, error) {
	lat := q.Center.Latitude()
	lng := q.Center.Longitude()
	distance := goqu.L(haversineSQL, lat, lat, lng)

	ds := a.db.From(materialsTable).
		Select(materialColumns...).
		Where(goqu.Ex{"status": string(entities.MaterialStatusAvailable)})

	if len(q.Categories) > 0 {
		ds = ds.Where(goqu.Ex{"category": categoryStrings(q.Categories)})
	}
	if box, ok := boundingBox(lat, lng, q.RadiusKm); ok {
		ds = ds.Where(box.conditions()...)
	}

	ds = ds.Where(distance.Lte(q.RadiusKm + radiusSlackKm)).
		Order(distance.Asc(), goqu.I("id").Asc())

	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	if q.Offset > 0 {
		ds = ds.Offset(uint(q.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build nearby query", err)
	}
	return a.query(ctx, query, args...)
}

// Find returns materials matching filter, newest first.
func (a *MaterialAdapter) Find(ctx context.Context, filter repositories.MaterialFilter) ([]*entities.Material, error) {
	status := filter.Status
	if status == "" {
		status = entities.MaterialStatusAvailable
	}

	ds := a.db.From(materialsTable).
		Select(materialColumns...).
		Where(goqu.Ex{"status": string(status)})

	if len(filter.Categories) > 0 {
		ds = ds.Where(goqu.Ex{"category": categoryStrings(filter.Categories)})
	}

	ds = ds.Order(goqu.I("created_at").Desc(), goqu.I("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build material query", err)
	}
	return a.query(ctx, query, args...)
}

func (a *MaterialAdapter) query(ctx context.Context, query string, args ...interface{}) ([]*entities.Material, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query materials", err)
	}
	defer rows.Close()

	materials := []*entities.Material{}
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan material", err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate materials", err)
	}

	return materials, nil
}

func scanMaterial(rows *sql.Rows) (*entities.Material, error) {
	m := &entities.Material{}
	var description, unit, address sql.NullString
	var category, status string
	var lat, lng float64

	err := rows.Scan(
		&m.ID,
		&m.Title,
		&description,
		&category,
		&m.Quantity,
		&unit,
		pq.Array(&m.ImageURLs),
		&address,
		&lat,
		&lng,
		&status,
		&m.ProviderID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Description = description.String
	m.Unit = unit.String
	m.Address = address.String
	m.Category = entities.NormalizeCategoryName(category)
	m.Status = entities.MaterialStatus(status)
	m.Location = entities.NewGeoPoint(lat, lng)
	return m, nil
}

func categoryStrings(categories []entities.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.String())
	}
	return out
}

type bbox struct {
	minLat, maxLat float64
	minLng, maxLng float64
}

// boundingBox returns a box that contains the search circle. ok is false
// near the poles or when the box would wrap the antimeridian; the haversine
// predicate alone is exact there.
func boundingBox(lat, lng, radiusKm float64) (bbox, bool) {
	if radiusKm <= 0 {
		return bbox{}, false
	}
	angular := (radiusKm + radiusSlackKm) / geo.EarthRadiusKm
	dLat := angular * 180 / math.Pi

	box := bbox{minLat: lat - dLat, maxLat: lat + dLat}
	if box.minLat <= -90 || box.maxLat >= 90 {
		return bbox{}, false
	}

	ratio := math.Sin(angular) / math.Cos(geo.DegreesToRadians(lat))
	if ratio >= 1 {
		return bbox{}, false
	}
	dLng := math.Asin(ratio) * 180 / math.Pi

	box.minLng, box.maxLng = lng-dLng, lng+dLng
	if box.minLng < -180 || box.maxLng > 180 {
		return bbox{}, false
	}
	return box, true
}

func (b bbox) conditions() []exp.Expression {
	return []exp.Expression{
		goqu.C("latitude").Between(goqu.Range(b.minLat, b.maxLat)),
		goqu.C("longitude").Between(goqu.Range(b.minLng, b.maxLng)),
	}
}
