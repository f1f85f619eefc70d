package repositories

import (
	"context"

	"placemate/internal/models"

	"github.com/google/uuid"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListVisibleByPlace(ctx context.Context, placeID uuid.UUID) ([]*models.Comment, error)
	DeleteByPlace(ctx context.Context, placeID uuid.UUID) error
}

type commentRepo struct {
	db DBTX
}

func NewCommentRepo(db DBTX) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, place_id, user_id, text, hidden, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
	`
	_, err := r.db.Exec(ctx, query, comment.ID, comment.PlaceID, comment.UserID, comment.Text)
	return err
}

func (r *commentRepo) ListVisibleByPlace(ctx context.Context, placeID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT id, place_id, user_id, text, hidden, created_at
		FROM comments
		WHERE place_id = $1 AND hidden = FALSE
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(&comment.ID, &comment.PlaceID, &comment.UserID, &comment.Text, &comment.Hidden, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *commentRepo) DeleteByPlace(ctx context.Context, placeID uuid.UUID) error {
	query := `DELETE FROM comments WHERE place_id = $1`
	_, err := r.db.Exec(ctx, query, placeID)
	return err
}
