package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PlaceVisitStatus string

const (
	StatusPending PlaceVisitStatus = "PENDING"
	StatusVisited PlaceVisitStatus = "VISITED"
	StatusSkipped PlaceVisitStatus = "SKIPPED"
)

// ParseVisitStatus accepts the enum name case-insensitively.
func ParseVisitStatus(value string) (PlaceVisitStatus, error) {
	switch PlaceVisitStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, nil
	case StatusVisited:
		return StatusVisited, nil
	case StatusSkipped:
		return StatusSkipped, nil
	}
	return "", fmt.Errorf("invalid visit status %q", value)
}

// PlaceStatus is the per-(place,user) overlay row. Absence of a row reads as
// PENDING and not favorite; it is never an error.
type PlaceStatus struct {
	PlaceID   uuid.UUID        `json:"place_id" db:"place_id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Status    PlaceVisitStatus `json:"status" db:"status"`
	Favorite  bool             `json:"is_favorite" db:"is_favorite"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}
