package model

import "github.com/google/uuid"

// ActorRole is the capability level of the caller of a lifecycle operation.
type ActorRole string

const (
	ActorRoleAdmin  ActorRole = "admin"
	ActorRoleMember ActorRole = "member"
)

// Actor identifies who triggers an operation. Lifecycle-mutating operations
// take it explicitly instead of relying on the surrounding surface to have
// checked authorization.
type Actor struct {
	ID   uuid.UUID
	Role ActorRole
}

// IsAdmin reports whether the actor carries the admin capability.
func (a Actor) IsAdmin() bool {
	return a.Role == ActorRoleAdmin
}
