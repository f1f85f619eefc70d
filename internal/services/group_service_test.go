package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"placemate/internal/common"
	"placemate/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type GroupServiceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	service GroupService
	context context.Context
}

func (suite *GroupServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.service = NewGroupService(mock)
	suite.context = context.Background()
}

func (suite *GroupServiceTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestGroupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceTestSuite))
}

func groupRow(id uuid.UUID, name string, createdBy uuid.UUID) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
		AddRow(id, name, createdBy, time.Now())
}

func inviteRow(invite *models.Invite) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "group_id", "code", "expires_at", "used", "created_at"}).
		AddRow(invite.ID, invite.GroupID, invite.Code, invite.ExpiresAt, invite.Used, invite.CreatedAt)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_OwnerMembershipInSameTransaction() {
	userID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO groups`).
		WithArgs(pgxmock.AnyArg(), "Trip crew", userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO group_members`).
		WithArgs(pgxmock.AnyArg(), userID, models.RoleOwner).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	group, err := suite.service.CreateGroup(suite.context, userID, "Trip crew")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Trip crew", group.Name)
	assert.Equal(suite.T(), userID, group.CreatedBy)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_RollsBackWhenMembershipFails() {
	userID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO groups`).
		WithArgs(pgxmock.AnyArg(), "Trip crew", userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO group_members`).
		WithArgs(pgxmock.AnyArg(), userID, models.RoleOwner).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	_, err := suite.service.CreateGroup(suite.context, userID, "Trip crew")
	assert.Error(suite.T(), err)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_RejectsBlankName() {
	_, err := suite.service.CreateGroup(suite.context, uuid.New(), "   ")
	assert.ErrorIs(suite.T(), err, common.ErrInvalidArgument)
}

func (suite *GroupServiceTestSuite) TestRequireMember_GroupMissing() {
	groupID := uuid.New()

	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(groupID).
		WillReturnError(errors.New("no rows in result set"))

	_, err := suite.service.RequireMember(suite.context, groupID, uuid.New())
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *GroupServiceTestSuite) TestRequireMember_NonMemberForbidden() {
	groupID, userID := uuid.New(), uuid.New()

	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(groupID).
		WillReturnRows(groupRow(groupID, "Trip crew", uuid.New()))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(groupID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := suite.service.RequireMember(suite.context, groupID, userID)
	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
}

func (suite *GroupServiceTestSuite) TestEnsureDefaultGroup_ExistingGroupAddsMember() {
	groupID, ownerID, newcomerID := uuid.New(), uuid.New(), uuid.New()

	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(models.DefaultGroupName).
		WillReturnRows(groupRow(groupID, models.DefaultGroupName, ownerID))
	suite.mock.ExpectExec(`INSERT INTO group_members`).
		WithArgs(groupID, newcomerID, models.RoleMember).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	group, err := suite.service.EnsureDefaultGroup(suite.context, newcomerID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), groupID, group.ID)
}

func (suite *GroupServiceTestSuite) TestEnsureDefaultGroup_LosesCreateRaceAndJoinsWinner() {
	winnerGroupID, loserID := uuid.New(), uuid.New()

	// Both first registrations miss the lookup; this caller's insert hits the
	// partial unique index and must end up in the winner's group.
	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(models.DefaultGroupName).
		WillReturnError(errors.New("no rows in result set"))
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO groups`).
		WithArgs(pgxmock.AnyArg(), models.DefaultGroupName, loserID).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	suite.mock.ExpectRollback()
	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(models.DefaultGroupName).
		WillReturnRows(groupRow(winnerGroupID, models.DefaultGroupName, uuid.New()))
	suite.mock.ExpectExec(`INSERT INTO group_members`).
		WithArgs(winnerGroupID, loserID, models.RoleMember).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	group, err := suite.service.EnsureDefaultGroup(suite.context, loserID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), winnerGroupID, group.ID)
}

func (suite *GroupServiceTestSuite) TestRedeemInvite_WinnerJoinsAndBackfills() {
	groupID, userID := uuid.New(), uuid.New()
	placeID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)
	invite := &models.Invite{
		ID:        uuid.New(),
		GroupID:   groupID,
		Code:      "CODE123456",
		ExpiresAt: &expiresAt,
		CreatedAt: time.Now(),
	}

	suite.mock.ExpectQuery(`SELECT id, group_id, code, expires_at, used, created_at`).
		WithArgs(invite.Code).
		WillReturnRows(inviteRow(invite))
	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(groupID).
		WillReturnRows(groupRow(groupID, "Trip crew", uuid.New()))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(groupID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE group_invites`).
		WithArgs(invite.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`INSERT INTO group_members`).
		WithArgs(groupID, userID, models.RoleMember).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`SELECT id, group_id, name, notes, address, category_id, lat, lng, created_by, created_at`).
		WithArgs(groupID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "group_id", "name", "notes", "address", "category_id", "lat", "lng", "created_by", "created_at"}).
			AddRow(placeID, groupID, "Mirador", nil, nil, nil, 37.18, -3.59, uuid.New(), time.Now()))
	suite.mock.ExpectExec(`INSERT INTO place_status`).
		WithArgs(placeID, userID, models.StatusPending, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	group, err := suite.service.RedeemInvite(suite.context, invite.Code, userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), groupID, group.ID)
}

func (suite *GroupServiceTestSuite) TestRedeemInvite_LoserGetsConflict() {
	groupID, userID := uuid.New(), uuid.New()
	expiresAt := time.Now().Add(time.Hour)
	invite := &models.Invite{
		ID:        uuid.New(),
		GroupID:   groupID,
		Code:      "CODE123456",
		ExpiresAt: &expiresAt,
		CreatedAt: time.Now(),
	}

	suite.mock.ExpectQuery(`SELECT id, group_id, code, expires_at, used, created_at`).
		WithArgs(invite.Code).
		WillReturnRows(inviteRow(invite))
	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(groupID).
		WillReturnRows(groupRow(groupID, "Trip crew", uuid.New()))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(groupID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	// A concurrent redemption flipped the used flag between the pre-check and
	// the conditional update; this caller loses and nothing is committed.
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE group_invites`).
		WithArgs(invite.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	_, err := suite.service.RedeemInvite(suite.context, invite.Code, userID)
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *GroupServiceTestSuite) TestRedeemInvite_ExpiredCode() {
	expiresAt := time.Now().Add(-time.Minute)
	invite := &models.Invite{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		Code:      "CODE123456",
		ExpiresAt: &expiresAt,
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour),
	}

	suite.mock.ExpectQuery(`SELECT id, group_id, code, expires_at, used, created_at`).
		WithArgs(invite.Code).
		WillReturnRows(inviteRow(invite))

	_, err := suite.service.RedeemInvite(suite.context, invite.Code, uuid.New())
	assert.ErrorIs(suite.T(), err, common.ErrExpired)
}

func (suite *GroupServiceTestSuite) TestRedeemInvite_AlreadyMember() {
	groupID, userID := uuid.New(), uuid.New()
	expiresAt := time.Now().Add(time.Hour)
	invite := &models.Invite{
		ID:        uuid.New(),
		GroupID:   groupID,
		Code:      "CODE123456",
		ExpiresAt: &expiresAt,
		CreatedAt: time.Now(),
	}

	suite.mock.ExpectQuery(`SELECT id, group_id, code, expires_at, used, created_at`).
		WithArgs(invite.Code).
		WillReturnRows(inviteRow(invite))
	suite.mock.ExpectQuery(`SELECT id, name, created_by, created_at`).
		WithArgs(groupID).
		WillReturnRows(groupRow(groupID, "Trip crew", uuid.New()))
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(groupID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := suite.service.RedeemInvite(suite.context, invite.Code, userID)
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *GroupServiceTestSuite) TestRedeemInvite_UnknownCode() {
	suite.mock.ExpectQuery(`SELECT id, group_id, code, expires_at, used, created_at`).
		WithArgs("NOPE").
		WillReturnError(errors.New("no rows in result set"))

	_, err := suite.service.RedeemInvite(suite.context, "NOPE", uuid.New())
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func TestGenerateInviteCodeLength(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := generateInviteCode()
		assert.Len(t, code, inviteCodeLength)
		assert.False(t, seen[code])
		seen[code] = true
	}
}
