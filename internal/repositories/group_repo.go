package repositories

import (
	"context"

	"placemate/internal/models"

	"github.com/google/uuid"
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetByName(ctx context.Context, name string) (*models.Group, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Group, error)
}

type groupRepo struct {
	db DBTX
}

func NewGroupRepo(db DBTX) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO groups (id, name, created_by, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, group.ID, group.Name, group.CreatedBy)
	return err
}

func (r *groupRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	group := &models.Group{}
	query := `
		SELECT id, name, created_by, created_at
		FROM groups
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *groupRepo) GetByName(ctx context.Context, name string) (*models.Group, error) {
	group := &models.Group{}
	query := `
		SELECT id, name, created_by, created_at
		FROM groups
		WHERE name = $1
		ORDER BY created_at
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *groupRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Group, error) {
	query := `
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}
