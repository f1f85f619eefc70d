package repositories

import (
	"context"

	"placemate/internal/models"

	"github.com/google/uuid"
)

type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	ListVisibleByPlace(ctx context.Context, placeID uuid.UUID) ([]*models.Photo, error)
	ListByPlace(ctx context.Context, placeID uuid.UUID) ([]*models.Photo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPlace(ctx context.Context, placeID uuid.UUID) error
}

type photoRepo struct {
	db DBTX
}

func NewPhotoRepo(db DBTX) PhotoRepository {
	return &photoRepo{db: db}
}

func (r *photoRepo) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, place_id, user_id, object_name, caption, hidden, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
	`
	_, err := r.db.Exec(ctx, query, photo.ID, photo.PlaceID, photo.UserID, photo.ObjectName, photo.Caption)
	return err
}

func (r *photoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	photo := &models.Photo{}
	query := `
		SELECT id, place_id, user_id, object_name, caption, hidden, created_at
		FROM photos
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&photo.ID, &photo.PlaceID, &photo.UserID, &photo.ObjectName, &photo.Caption, &photo.Hidden, &photo.CreatedAt)
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func (r *photoRepo) ListVisibleByPlace(ctx context.Context, placeID uuid.UUID) ([]*models.Photo, error) {
	query := `
		SELECT id, place_id, user_id, object_name, caption, hidden, created_at
		FROM photos
		WHERE place_id = $1 AND hidden = FALSE
		ORDER BY created_at
	`
	return r.queryPhotos(ctx, query, placeID)
}

func (r *photoRepo) ListByPlace(ctx context.Context, placeID uuid.UUID) ([]*models.Photo, error) {
	query := `
		SELECT id, place_id, user_id, object_name, caption, hidden, created_at
		FROM photos
		WHERE place_id = $1
		ORDER BY created_at
	`
	return r.queryPhotos(ctx, query, placeID)
}

func (r *photoRepo) queryPhotos(ctx context.Context, query string, placeID uuid.UUID) ([]*models.Photo, error) {
	rows, err := r.db.Query(ctx, query, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		photo := &models.Photo{}
		if err := rows.Scan(&photo.ID, &photo.PlaceID, &photo.UserID, &photo.ObjectName, &photo.Caption, &photo.Hidden, &photo.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (r *photoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM photos WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *photoRepo) DeleteByPlace(ctx context.Context, placeID uuid.UUID) error {
	query := `DELETE FROM photos WHERE place_id = $1`
	_, err := r.db.Exec(ctx, query, placeID)
	return err
}
