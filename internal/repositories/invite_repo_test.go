package repositories

import (
	"context"
	"testing"
	"time"

	"placemate/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InviteRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InviteRepository
	context context.Context
}

func (suite *InviteRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewInviteRepo(mock)
	suite.context = context.Background()
}

func (suite *InviteRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInviteRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InviteRepoTestSuite))
}

func (suite *InviteRepoTestSuite) TestMarkUsed_WinsTheFlip() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE group_invites`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	won, err := suite.repo.MarkUsed(suite.context, id)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), won)
}

func (suite *InviteRepoTestSuite) TestMarkUsed_AlreadyFlipped() {
	id := uuid.New()

	// A concurrent redeemer already set used = TRUE; the conditional update
	// matches zero rows.
	suite.mock.ExpectExec(`UPDATE group_invites`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	won, err := suite.repo.MarkUsed(suite.context, id)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), won)
}

func (suite *InviteRepoTestSuite) TestGetUnusedByCode() {
	invite := &models.Invite{
		ID:        uuid.New(),
		GroupID:   uuid.New(),
		Code:      "ABC123XYZ0",
		CreatedAt: time.Now(),
	}
	expiresAt := time.Now().Add(time.Hour)
	invite.ExpiresAt = &expiresAt

	suite.mock.ExpectQuery(`SELECT id, group_id, code, expires_at, used, created_at`).
		WithArgs(invite.Code).
		WillReturnRows(pgxmock.NewRows([]string{"id", "group_id", "code", "expires_at", "used", "created_at"}).
			AddRow(invite.ID, invite.GroupID, invite.Code, invite.ExpiresAt, false, invite.CreatedAt))

	got, err := suite.repo.GetUnusedByCode(suite.context, invite.Code)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), invite.ID, got.ID)
	assert.False(suite.T(), got.Used)
}

func (suite *InviteRepoTestSuite) TestDeleteExpiredUnused() {
	suite.mock.ExpectExec(`DELETE FROM group_invites`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	purged, err := suite.repo.DeleteExpiredUnused(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), purged)
}
