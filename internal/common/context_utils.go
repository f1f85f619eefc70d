package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// GetUserIDFromContext extracts the authenticated user ID placed in the
// request context by the JWT middleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, fieldName)
	}
	return nil
}

// ValidateLatLng rejects coordinates outside the WGS84 envelope.
func ValidateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: lat must be within [-90, 90]", ErrInvalidArgument)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: lng must be within [-180, 180]", ErrInvalidArgument)
	}
	return nil
}

// ValidateRadius bounds the nearby search radius. Zero and negative radii are
// meaningless; anything beyond 100km defeats the bounding-box pre-filter.
func ValidateRadius(radiusMeters float64) error {
	if radiusMeters <= 0 {
		return fmt.Errorf("%w: radiusMeters must be positive", ErrInvalidArgument)
	}
	if radiusMeters > 100_000 {
		return fmt.Errorf("%w: radiusMeters cannot exceed 100000", ErrInvalidArgument)
	}
	return nil
}

// ValidatePaginationParams normalizes page size and offset.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// NormalizeEmail lowercases and trims an email for the uniqueness check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
