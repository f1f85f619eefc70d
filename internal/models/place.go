package models

import (
	"time"

	"github.com/google/uuid"
)

type Place struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	GroupID    uuid.UUID  `json:"group_id" db:"group_id"`
	Name       string     `json:"name" db:"name"`
	Notes      *string    `json:"notes" db:"notes"`
	Address    *string    `json:"address" db:"address"`
	CategoryID *uuid.UUID `json:"category_id" db:"category_id"`
	Lat        float64    `json:"lat" db:"lat"`
	Lng        float64    `json:"lng" db:"lng"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// PlaceFilter holds the independently-optional predicates for place listing.
// GroupIDs is mandatory; an empty set means the caller has no visible groups
// and the query must short-circuit to an empty page.
type PlaceFilter struct {
	GroupIDs   []uuid.UUID
	CategoryID *uuid.UUID
	Query      string
	// Status pins the per-user overlay join to StatusUserID; both must be
	// set together since a status filter is meaningless without a user.
	Status       *PlaceVisitStatus
	StatusUserID uuid.UUID
	Limit        int
	Offset       int
}

// PlaceView is a Place merged with the calling user's overlay. Status and
// Favorite carry the default-on-absence values when no overlay row exists.
type PlaceView struct {
	ID             uuid.UUID        `json:"id"`
	GroupID        uuid.UUID        `json:"group_id"`
	Name           string           `json:"name"`
	Notes          *string          `json:"notes"`
	Address        *string          `json:"address"`
	Category       *CategorySummary `json:"category"`
	Lat            float64          `json:"lat"`
	Lng            float64          `json:"lng"`
	CreatedBy      UserSummary      `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	Status         PlaceVisitStatus `json:"status"`
	Favorite       bool             `json:"favorite"`
	DistanceMeters *float64         `json:"distance_meters,omitempty"`
}
