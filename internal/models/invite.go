package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a single-use, time-bounded token that grants MEMBER membership on
// redemption. Used flips true exactly once and is never reset.
type Invite struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	GroupID   uuid.UUID  `json:"group_id" db:"group_id"`
	Code      string     `json:"code" db:"code"`
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"`
	Used      bool       `json:"used" db:"used"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Active reports whether the invite can still authorize a join at the given
// instant.
func (i *Invite) Active(now time.Time) bool {
	if i.Used {
		return false
	}
	return i.ExpiresAt == nil || now.Before(*i.ExpiresAt)
}
