package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PlaceID   uuid.UUID `json:"place_id" db:"place_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Hidden    bool      `json:"-" db:"hidden"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CommentView struct {
	ID        uuid.UUID   `json:"id"`
	User      UserSummary `json:"user"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}
