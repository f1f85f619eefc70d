package repositories

import (
	"context"
	"fmt"
	"strings"

	"placemate/internal/geo"
	"placemate/internal/models"

	"github.com/google/uuid"
)

type PlaceRepository interface {
	Create(ctx context.Context, place *models.Place) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Place, error)
	Update(ctx context.Context, place *models.Place) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List applies the filter and returns one page plus the total number of
	// matching places independent of pagination.
	List(ctx context.Context, filter *models.PlaceFilter) ([]*models.Place, int, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Place, error)
	// ListInBox fetches bounding-box candidates for the nearby pipeline;
	// exact distance filtering happens in the service.
	ListInBox(ctx context.Context, groupIDs []uuid.UUID, box geo.BoundingBox) ([]*models.Place, error)
}

type placeRepo struct {
	db DBTX
}

func NewPlaceRepo(db DBTX) PlaceRepository {
	return &placeRepo{db: db}
}

func scanPlace(row interface{ Scan(...any) error }) (*models.Place, error) {
	place := &models.Place{}
	err := row.Scan(&place.ID, &place.GroupID, &place.Name, &place.Notes, &place.Address,
		&place.CategoryID, &place.Lat, &place.Lng, &place.CreatedBy, &place.CreatedAt)
	if err != nil {
		return nil, err
	}
	return place, nil
}

func (r *placeRepo) Create(ctx context.Context, place *models.Place) error {
	query := `
		INSERT INTO places (id, group_id, name, notes, address, category_id, lat, lng, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, place.ID, place.GroupID, place.Name, place.Notes,
		place.Address, place.CategoryID, place.Lat, place.Lng, place.CreatedBy)
	return err
}

func (r *placeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Place, error) {
	query := `
		SELECT id, group_id, name, notes, address, category_id, lat, lng, created_by, created_at
		FROM places
		WHERE id = $1
	`
	return scanPlace(r.db.QueryRow(ctx, query, id))
}

func (r *placeRepo) Update(ctx context.Context, place *models.Place) error {
	query := `
		UPDATE places
		SET name = $1, notes = $2, address = $3, category_id = $4, lat = $5, lng = $6
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, place.Name, place.Notes, place.Address,
		place.CategoryID, place.Lat, place.Lng, place.ID)
	return err
}

func (r *placeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM places WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// placePredicates accumulates independently-optional WHERE clauses and their
// arguments. Every clause is ANDed; the same predicate set drives both the
// page query and the total count so the count is invariant to pagination.
type placePredicates struct {
	clauses []string
	args    []any
}

func (p *placePredicates) add(format string, args ...any) {
	placeholders := make([]any, len(args))
	for i := range args {
		p.args = append(p.args, args[i])
		placeholders[i] = len(p.args)
	}
	p.clauses = append(p.clauses, fmt.Sprintf(format, placeholders...))
}

func (p *placePredicates) where() string {
	return strings.Join(p.clauses, " AND ")
}

func buildPlacePredicates(filter *models.PlaceFilter) *placePredicates {
	p := &placePredicates{}
	p.add("p.group_id = ANY($%d)", filter.GroupIDs)

	if filter.CategoryID != nil {
		p.add("p.category_id = $%d", *filter.CategoryID)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		p.add("(p.name ILIKE $%d OR COALESCE(p.notes, '') ILIKE $%d OR COALESCE(p.address, '') ILIKE $%d)",
			like, like, like)
	}
	if filter.Status != nil {
		// The overlay join is pinned to the calling user; EXISTS yields at
		// most one row per place, so no fan-out to deduplicate.
		p.add(`EXISTS (
			SELECT 1 FROM place_status ps
			WHERE ps.place_id = p.id AND ps.user_id = $%d AND ps.status = $%d
		)`, filter.StatusUserID, *filter.Status)
	}
	return p
}

func (r *placeRepo) List(ctx context.Context, filter *models.PlaceFilter) ([]*models.Place, int, error) {
	if len(filter.GroupIDs) == 0 {
		return nil, 0, nil
	}

	preds := buildPlacePredicates(filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM places p WHERE %s`, preds.where())
	var total int
	if err := r.db.QueryRow(ctx, countQuery, preds.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageQuery := fmt.Sprintf(`
		SELECT p.id, p.group_id, p.name, p.notes, p.address, p.category_id, p.lat, p.lng, p.created_by, p.created_at
		FROM places p
		WHERE %s
		ORDER BY p.created_at DESC, p.id
		LIMIT $%d OFFSET $%d
	`, preds.where(), len(preds.args)+1, len(preds.args)+2)
	args := append(preds.args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var places []*models.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, 0, err
		}
		places = append(places, place)
	}
	return places, total, rows.Err()
}

func (r *placeRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Place, error) {
	query := `
		SELECT id, group_id, name, notes, address, category_id, lat, lng, created_by, created_at
		FROM places
		WHERE group_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []*models.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, rows.Err()
}

func (r *placeRepo) ListInBox(ctx context.Context, groupIDs []uuid.UUID, box geo.BoundingBox) ([]*models.Place, error) {
	query := `
		SELECT id, group_id, name, notes, address, category_id, lat, lng, created_by, created_at
		FROM places
		WHERE group_id = ANY($1)
		  AND lat BETWEEN $2 AND $3
		  AND lng BETWEEN $4 AND $5
	`
	rows, err := r.db.Query(ctx, query, groupIDs, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []*models.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, rows.Err()
}
