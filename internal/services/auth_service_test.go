package services

import (
	"context"
	"testing"
	"time"

	"placemate/internal/common"
	"placemate/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*models.User), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  AuthService
	context  context.Context
}

const testJWTSecret = "test-secret"

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockUserRepository{}
	group := &models.Group{ID: uuid.New(), Name: models.DefaultGroupName, CreatedAt: time.Now()}
	suite.service = NewAuthService(suite.mockRepo, &stubGroupService{group: group}, testJWTSecret)
	suite.context = context.Background()
	suite.mockRepo.Test(suite.T())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	suite.mockRepo.On("GetByEmail", suite.context, "ana@example.com").Return(nil, assert.AnError)
	suite.mockRepo.On("Create", suite.context, mock.AnythingOfType("*models.User")).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*models.User)
		assert.Equal(suite.T(), "ana@example.com", user.Email)
		assert.NotEqual(suite.T(), uuid.Nil, user.ID)
		// The raw password is never stored.
		assert.NotEqual(suite.T(), "secret-password", user.PasswordHash)
		assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-password")))
	})

	user, token, err := suite.service.Register(suite.context, " Ana@Example.com ", "Ana", "secret-password")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ana@example.com", user.Email)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(suite.T(), err)
	sub, err := parsed.Claims.GetSubject()
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID.String(), sub)
}

func (suite *AuthServiceTestSuite) TestRegister_ShortPassword() {
	_, _, err := suite.service.Register(suite.context, "ana@example.com", "Ana", "12345")
	assert.ErrorIs(suite.T(), err, common.ErrInvalidArgument)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	existing := &models.User{ID: uuid.New(), Email: "ana@example.com"}
	suite.mockRepo.On("GetByEmail", suite.context, "ana@example.com").Return(existing, nil)

	_, _, err := suite.service.Register(suite.context, "ana@example.com", "Ana", "secret-password")
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *AuthServiceTestSuite) TestRegister_ConcurrentDuplicateEmail() {
	// The pre-check misses but a concurrent registration wins the insert; the
	// unique violation surfaces as a conflict, not an internal error.
	suite.mockRepo.On("GetByEmail", suite.context, "ana@example.com").Return(nil, assert.AnError)
	suite.mockRepo.On("Create", suite.context, mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505"})

	_, _, err := suite.service.Register(suite.context, "ana@example.com", "Ana", "secret-password")
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	assert.NoError(suite.T(), err)
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)}
	suite.mockRepo.On("GetByEmail", suite.context, "ana@example.com").Return(user, nil)

	got, token, err := suite.service.Login(suite.context, "ana@example.com", "secret-password")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, got.ID)
	assert.NotEmpty(suite.T(), token)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	assert.NoError(suite.T(), err)
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)}
	suite.mockRepo.On("GetByEmail", suite.context, "ana@example.com").Return(user, nil)

	_, _, err = suite.service.Login(suite.context, "ana@example.com", "wrong")
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.mockRepo.On("GetByEmail", suite.context, "nobody@example.com").Return(nil, assert.AnError)

	_, _, err := suite.service.Login(suite.context, "nobody@example.com", "whatever")
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestResolve_UnknownUserIsUnauthorized() {
	userID := uuid.New()
	suite.mockRepo.On("GetByID", suite.context, userID).Return(nil, assert.AnError)

	_, err := suite.service.Resolve(suite.context, userID)
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}
