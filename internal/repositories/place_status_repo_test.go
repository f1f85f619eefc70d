package repositories

import (
	"context"
	"testing"
	"time"

	"placemate/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PlaceStatusRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    PlaceStatusRepository
	context context.Context
}

func (suite *PlaceStatusRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewPlaceStatusRepo(mock)
	suite.context = context.Background()
}

func (suite *PlaceStatusRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestPlaceStatusRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PlaceStatusRepoTestSuite))
}

func (suite *PlaceStatusRepoTestSuite) TestGet_MissingRowIsNotAnError() {
	placeID, userID := uuid.New(), uuid.New()

	suite.mock.ExpectQuery(`SELECT place_id, user_id, status, is_favorite, updated_at`).
		WithArgs(placeID, userID).
		WillReturnError(pgx.ErrNoRows)

	status, err := suite.repo.Get(suite.context, placeID, userID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), status)
}

func (suite *PlaceStatusRepoTestSuite) TestGet() {
	placeID, userID := uuid.New(), uuid.New()
	updatedAt := time.Now()

	suite.mock.ExpectQuery(`SELECT place_id, user_id, status, is_favorite, updated_at`).
		WithArgs(placeID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"place_id", "user_id", "status", "is_favorite", "updated_at"}).
			AddRow(placeID, userID, models.StatusVisited, true, updatedAt))

	status, err := suite.repo.Get(suite.context, placeID, userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusVisited, status.Status)
	assert.True(suite.T(), status.Favorite)
}

func (suite *PlaceStatusRepoTestSuite) TestUpsert() {
	status := &models.PlaceStatus{
		PlaceID:  uuid.New(),
		UserID:   uuid.New(),
		Status:   models.StatusSkipped,
		Favorite: false,
	}

	suite.mock.ExpectExec(`INSERT INTO place_status`).
		WithArgs(status.PlaceID, status.UserID, status.Status, status.Favorite).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Upsert(suite.context, status))
}

func (suite *PlaceStatusRepoTestSuite) TestBulkFor_OnlyExistingRowsReturned() {
	userID := uuid.New()
	withOverlay, withoutOverlay := uuid.New(), uuid.New()

	suite.mock.ExpectQuery(`SELECT place_id, user_id, status, is_favorite, updated_at`).
		WithArgs(userID, []uuid.UUID{withOverlay, withoutOverlay}).
		WillReturnRows(pgxmock.NewRows([]string{"place_id", "user_id", "status", "is_favorite", "updated_at"}).
			AddRow(withOverlay, userID, models.StatusVisited, true, time.Now()))

	overlays, err := suite.repo.BulkFor(suite.context, userID, []uuid.UUID{withOverlay, withoutOverlay})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), overlays, 1)
	assert.NotNil(suite.T(), overlays[withOverlay])
	assert.Nil(suite.T(), overlays[withoutOverlay])
}

func (suite *PlaceStatusRepoTestSuite) TestBulkFor_EmptyInputSkipsQuery() {
	overlays, err := suite.repo.BulkFor(suite.context, uuid.New(), nil)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), overlays)
}
