package repositories

import (
	"context"

	"placemate/internal/models"

	"github.com/google/uuid"
)

type MembershipRepository interface {
	// Create inserts the (group,user) edge. The composite primary key plus
	// ON CONFLICT DO NOTHING makes the call idempotent and guarantees an
	// existing role is never overwritten.
	Create(ctx context.Context, membership *models.Membership) error
	Get(ctx context.Context, groupID, userID uuid.UUID) (*models.Membership, error)
	Exists(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Membership, error)
	GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ExistsWithRole(ctx context.Context, userID uuid.UUID, role models.GroupRole) (bool, error)
}

type membershipRepo struct {
	db DBTX
}

func NewMembershipRepo(db DBTX) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, membership.GroupID, membership.UserID, membership.Role)
	return err
}

func (r *membershipRepo) Get(ctx context.Context, groupID, userID uuid.UUID) (*models.Membership, error) {
	membership := &models.Membership{}
	query := `
		SELECT group_id, user_id, role, created_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`
	err := r.db.QueryRow(ctx, query, groupID, userID).Scan(&membership.GroupID, &membership.UserID, &membership.Role, &membership.CreatedAt)
	if err != nil {
		return nil, err
	}
	return membership, nil
}

func (r *membershipRepo) Exists(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)
	`
	err := r.db.QueryRow(ctx, query, groupID, userID).Scan(&exists)
	return exists, err
}

func (r *membershipRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT group_id, user_id, role, created_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		membership := &models.Membership{}
		if err := rows.Scan(&membership.GroupID, &membership.UserID, &membership.Role, &membership.CreatedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, rows.Err()
}

func (r *membershipRepo) GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT group_id
		FROM group_members
		WHERE user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groupIDs []uuid.UUID
	for rows.Next() {
		var groupID uuid.UUID
		if err := rows.Scan(&groupID); err != nil {
			return nil, err
		}
		groupIDs = append(groupIDs, groupID)
	}
	return groupIDs, rows.Err()
}

func (r *membershipRepo) ExistsWithRole(ctx context.Context, userID uuid.UUID, role models.GroupRole) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE user_id = $1 AND role = $2
		)
	`
	err := r.db.QueryRow(ctx, query, userID, role).Scan(&exists)
	return exists, err
}
