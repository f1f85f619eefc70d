package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultGroupName is the well-known name of the group every fresh account is
// placed into. The first user to touch it becomes its OWNER.
const DefaultGroupName = "Nuestro grupo"

type GroupRole string

const (
	RoleOwner  GroupRole = "OWNER"
	RoleMember GroupRole = "MEMBER"
)

type Group struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Membership is a (group, user) edge. The pair is the primary key, so a user
// holds at most one role per group.
type Membership struct {
	GroupID   uuid.UUID `json:"group_id" db:"group_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Role      GroupRole `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
