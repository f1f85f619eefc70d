package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo references an object stored in MinIO; ObjectName is the bucket key,
// never a public URL.
type Photo struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PlaceID    uuid.UUID `json:"place_id" db:"place_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	ObjectName string    `json:"-" db:"object_name"`
	Caption    *string   `json:"caption" db:"caption"`
	Hidden     bool      `json:"-" db:"hidden"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type PhotoView struct {
	ID        uuid.UUID   `json:"id"`
	User      UserSummary `json:"user"`
	URL       string      `json:"url"`
	Caption   *string     `json:"caption"`
	CreatedAt time.Time   `json:"created_at"`
}
