package repositories

import (
	"context"

	"placemate/internal/models"

	"github.com/google/uuid"
)

type PlaceStatusRepository interface {
	// Get returns nil (not an error) when no overlay row exists; the caller
	// applies the PENDING/non-favorite defaults.
	Get(ctx context.Context, placeID, userID uuid.UUID) (*models.PlaceStatus, error)
	Upsert(ctx context.Context, status *models.PlaceStatus) error
	// BulkFor resolves overlays for one page of places in a single query.
	// Keys absent from the map fall back to defaults at the merge step.
	BulkFor(ctx context.Context, userID uuid.UUID, placeIDs []uuid.UUID) (map[uuid.UUID]*models.PlaceStatus, error)
	CreateBatch(ctx context.Context, statuses []*models.PlaceStatus) error
	DeleteByPlace(ctx context.Context, placeID uuid.UUID) error
}

type placeStatusRepo struct {
	db DBTX
}

func NewPlaceStatusRepo(db DBTX) PlaceStatusRepository {
	return &placeStatusRepo{db: db}
}

func (r *placeStatusRepo) Get(ctx context.Context, placeID, userID uuid.UUID) (*models.PlaceStatus, error) {
	status := &models.PlaceStatus{}
	query := `
		SELECT place_id, user_id, status, is_favorite, updated_at
		FROM place_status
		WHERE place_id = $1 AND user_id = $2
	`
	err := r.db.QueryRow(ctx, query, placeID, userID).Scan(&status.PlaceID, &status.UserID, &status.Status, &status.Favorite, &status.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return status, nil
}

func (r *placeStatusRepo) Upsert(ctx context.Context, status *models.PlaceStatus) error {
	query := `
		INSERT INTO place_status (place_id, user_id, status, is_favorite, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (place_id, user_id) DO UPDATE
		SET status = EXCLUDED.status, is_favorite = EXCLUDED.is_favorite, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, status.PlaceID, status.UserID, status.Status, status.Favorite)
	return err
}

func (r *placeStatusRepo) BulkFor(ctx context.Context, userID uuid.UUID, placeIDs []uuid.UUID) (map[uuid.UUID]*models.PlaceStatus, error) {
	result := make(map[uuid.UUID]*models.PlaceStatus, len(placeIDs))
	if len(placeIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT place_id, user_id, status, is_favorite, updated_at
		FROM place_status
		WHERE user_id = $1 AND place_id = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, userID, placeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		status := &models.PlaceStatus{}
		if err := rows.Scan(&status.PlaceID, &status.UserID, &status.Status, &status.Favorite, &status.UpdatedAt); err != nil {
			return nil, err
		}
		result[status.PlaceID] = status
	}
	return result, rows.Err()
}

func (r *placeStatusRepo) CreateBatch(ctx context.Context, statuses []*models.PlaceStatus) error {
	query := `
		INSERT INTO place_status (place_id, user_id, status, is_favorite, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (place_id, user_id) DO NOTHING
	`
	for _, status := range statuses {
		if _, err := r.db.Exec(ctx, query, status.PlaceID, status.UserID, status.Status, status.Favorite); err != nil {
			return err
		}
	}
	return nil
}

func (r *placeStatusRepo) DeleteByPlace(ctx context.Context, placeID uuid.UUID) error {
	query := `DELETE FROM place_status WHERE place_id = $1`
	_, err := r.db.Exec(ctx, query, placeID)
	return err
}
