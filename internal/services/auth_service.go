package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"placemate/internal/common"
	"placemate/internal/models"
	"placemate/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	// Resolve turns an authenticated caller id into a user record. Failure
	// is Unauthorized and fatal for the request.
	Resolve(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Register(ctx context.Context, email, displayName, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type authService struct {
	userRepo     repositories.UserRepository
	groupService GroupService
	jwtSecret    []byte
}

func NewAuthService(userRepo repositories.UserRepository, groupService GroupService, jwtSecret string) AuthService {
	return &authService{
		userRepo:     userRepo,
		groupService: groupService,
		jwtSecret:    []byte(jwtSecret),
	}
}

func (s *authService) Resolve(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", common.ErrUnauthorized)
	}
	return user, nil
}

func (s *authService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	normalized := common.NormalizeEmail(email)
	if err := common.ValidateRequiredString(normalized, "email"); err != nil {
		return nil, "", err
	}
	if err := common.ValidateRequiredString(displayName, "display_name"); err != nil {
		return nil, "", err
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", common.ErrInvalidArgument)
	}

	if existing, _ := s.userRepo.GetByEmail(ctx, normalized); existing != nil {
		return nil, "", fmt.Errorf("%w: email already registered", common.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        normalized,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The email pre-check races with concurrent registrations; the unique
		// column is the authority.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, "", fmt.Errorf("%w: email already registered", common.ErrConflict)
		}
		return nil, "", err
	}

	// Every fresh account lands in the shared default group.
	if _, err := s.groupService.EnsureDefaultGroup(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) generateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
