package repositories

import (
	"context"

	"placemate/internal/models"

	"github.com/google/uuid"
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	// GetUnusedByCode only matches invites that have not been redeemed yet;
	// a used code is indistinguishable from an unknown one.
	GetUnusedByCode(ctx context.Context, code string) (*models.Invite, error)
	// MarkUsed flips the used flag with a conditional update and reports
	// whether this call won the flip. Concurrent redemptions of the same
	// code see at most one true.
	MarkUsed(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteExpiredUnused(ctx context.Context) (int64, error)
}

type inviteRepo struct {
	db DBTX
}

func NewInviteRepo(db DBTX) InviteRepository {
	return &inviteRepo{db: db}
}

func (r *inviteRepo) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO group_invites (id, group_id, code, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
	`
	_, err := r.db.Exec(ctx, query, invite.ID, invite.GroupID, invite.Code, invite.ExpiresAt)
	return err
}

func (r *inviteRepo) GetUnusedByCode(ctx context.Context, code string) (*models.Invite, error) {
	invite := &models.Invite{}
	query := `
		SELECT id, group_id, code, expires_at, used, created_at
		FROM group_invites
		WHERE code = $1 AND used = FALSE
	`
	err := r.db.QueryRow(ctx, query, code).Scan(&invite.ID, &invite.GroupID, &invite.Code, &invite.ExpiresAt, &invite.Used, &invite.CreatedAt)
	if err != nil {
		return nil, err
	}
	return invite, nil
}

func (r *inviteRepo) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE group_invites
		SET used = TRUE
		WHERE id = $1 AND used = FALSE
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *inviteRepo) DeleteExpiredUnused(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM group_invites
		WHERE used = FALSE AND expires_at IS NOT NULL AND expires_at < NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
