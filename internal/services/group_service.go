package services

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"placemate/internal/common"
	"placemate/internal/models"
	"placemate/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	inviteTTL        = 7 * 24 * time.Hour
	inviteCodeLength = 10
	uniqueViolation  = "23505"
)

type GroupService interface {
	// RequireMember proves the caller belongs to the group before any
	// group-scoped read or write. NotFound if the group does not exist,
	// Forbidden if it exists but the caller holds no membership.
	RequireMember(ctx context.Context, groupID, userID uuid.UUID) (*models.Group, error)
	RequireOwner(ctx context.Context, groupID, userID uuid.UUID) (*models.Membership, error)
	CreateGroup(ctx context.Context, userID uuid.UUID, name string) (*models.Group, error)
	EnsureDefaultGroup(ctx context.Context, userID uuid.UUID) (*models.Group, error)
	CreateInvite(ctx context.Context, groupID, userID uuid.UUID) (*models.Invite, error)
	RedeemInvite(ctx context.Context, code string, userID uuid.UUID) (*models.Group, error)
	GroupIDsFor(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	IsOwnerAnywhere(ctx context.Context, userID uuid.UUID) (bool, error)
	ListGroups(ctx context.Context, userID uuid.UUID) ([]*models.Group, error)
}

type groupService struct {
	db             repositories.TxStarter
	groupRepo      repositories.GroupRepository
	membershipRepo repositories.MembershipRepository
	inviteRepo     repositories.InviteRepository
}

func NewGroupService(db repositories.TxStarter) GroupService {
	return &groupService{
		db:             db,
		groupRepo:      repositories.NewGroupRepo(db),
		membershipRepo: repositories.NewMembershipRepo(db),
		inviteRepo:     repositories.NewInviteRepo(db),
	}
}

func (s *groupService) RequireMember(ctx context.Context, groupID, userID uuid.UUID) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group", common.ErrNotFound)
	}
	member, err := s.membershipRepo.Exists(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this group", common.ErrForbidden)
	}
	return group, nil
}

func (s *groupService) RequireOwner(ctx context.Context, groupID, userID uuid.UUID) (*models.Membership, error) {
	membership, err := s.membershipRepo.Get(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: not a member of this group", common.ErrForbidden)
	}
	if membership.Role != models.RoleOwner {
		return nil, fmt.Errorf("%w: owner role required", common.ErrForbidden)
	}
	return membership, nil
}

// CreateGroup creates the group and the creator's OWNER membership in one
// atomic unit; no group is ever visible without at least one owner.
func (s *groupService) CreateGroup(ctx context.Context, userID uuid.UUID, name string) (*models.Group, error) {
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}

	group := &models.Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repositories.NewGroupRepo(tx).Create(ctx, group); err != nil {
		return nil, err
	}
	owner := &models.Membership{GroupID: group.ID, UserID: userID, Role: models.RoleOwner}
	if err := repositories.NewMembershipRepo(tx).Create(ctx, owner); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	slog.Info("group created", "group_id", group.ID, "user_id", userID)
	return group, nil
}

// EnsureDefaultGroup finds or creates the well-known default group. The
// creator becomes OWNER; everyone after joins as MEMBER. A partial unique
// index on the default name backs the find-or-create, so two concurrent
// first registrations cannot split members across duplicate groups: the
// loser's insert hits the unique violation and joins the winner's group.
// The membership insert is a no-op on conflict, so repeated calls never
// touch an existing role in either direction.
func (s *groupService) EnsureDefaultGroup(ctx context.Context, userID uuid.UUID) (*models.Group, error) {
	group, err := s.groupRepo.GetByName(ctx, models.DefaultGroupName)
	if err != nil {
		created, err := s.CreateGroup(ctx, userID, models.DefaultGroupName)
		if err == nil {
			return created, nil
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			return nil, err
		}
		group, err = s.groupRepo.GetByName(ctx, models.DefaultGroupName)
		if err != nil {
			return nil, err
		}
	}

	membership := &models.Membership{GroupID: group.ID, UserID: userID, Role: models.RoleMember}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) CreateInvite(ctx context.Context, groupID, userID uuid.UUID) (*models.Invite, error) {
	if _, err := s.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if _, err := s.RequireOwner(ctx, groupID, userID); err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(inviteTTL)

	// Codes come from crypto/rand; the unique column catches the unlikely
	// collision with an active invite, in which case we roll a new code.
	for attempt := 0; attempt < 3; attempt++ {
		invite := &models.Invite{
			ID:        uuid.New(),
			GroupID:   groupID,
			Code:      generateInviteCode(),
			ExpiresAt: &expiresAt,
		}
		err := s.inviteRepo.Create(ctx, invite)
		if err == nil {
			slog.Info("invite created", "group_id", groupID, "user_id", userID)
			return invite, nil
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not generate a unique invite code")
}

// RedeemInvite grants MEMBER membership on a valid code. The used flag flips
// with a conditional update inside the same transaction as the membership
// insert and the status backfill, so concurrent redemptions of one code admit
// exactly one winner and nobody ever observes a partially-joined member.
func (s *groupService) RedeemInvite(ctx context.Context, code string, userID uuid.UUID) (*models.Group, error) {
	invite, err := s.inviteRepo.GetUnusedByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: invite code", common.ErrNotFound)
	}
	if !invite.Active(time.Now()) {
		return nil, fmt.Errorf("%w: invite code", common.ErrExpired)
	}

	group, err := s.groupRepo.GetByID(ctx, invite.GroupID)
	if err != nil {
		return nil, fmt.Errorf("%w: group", common.ErrNotFound)
	}

	alreadyMember, err := s.membershipRepo.Exists(ctx, group.ID, userID)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, fmt.Errorf("%w: already a member of this group", common.ErrConflict)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	won, err := repositories.NewInviteRepo(tx).MarkUsed(ctx, invite.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: invite already used", common.ErrConflict)
	}

	membership := &models.Membership{GroupID: group.ID, UserID: userID, Role: models.RoleMember}
	if err := repositories.NewMembershipRepo(tx).Create(ctx, membership); err != nil {
		return nil, err
	}

	// Backfill a PENDING overlay row for every existing place so the new
	// member sees the full history with default status.
	places, err := repositories.NewPlaceRepo(tx).ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if len(places) > 0 {
		statuses := make([]*models.PlaceStatus, 0, len(places))
		for _, place := range places {
			statuses = append(statuses, &models.PlaceStatus{
				PlaceID: place.ID,
				UserID:  userID,
				Status:  models.StatusPending,
			})
		}
		if err := repositories.NewPlaceStatusRepo(tx).CreateBatch(ctx, statuses); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	slog.Info("invite redeemed", "group_id", group.ID, "user_id", userID, "backfilled", len(places))
	return group, nil
}

func (s *groupService) GroupIDsFor(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.membershipRepo.GroupIDsForUser(ctx, userID)
}

// IsOwnerAnywhere is a derived query, never cached; role changes are visible
// on the next call.
func (s *groupService) IsOwnerAnywhere(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.membershipRepo.ExistsWithRole(ctx, userID, models.RoleOwner)
}

func (s *groupService) ListGroups(ctx context.Context, userID uuid.UUID) ([]*models.Group, error) {
	return s.groupRepo.ListForUser(ctx, userID)
}

func generateInviteCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)[:inviteCodeLength]
}
