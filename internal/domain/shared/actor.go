package shared

import "github.com/google/uuid"

// Role is the access role of an authenticated user
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent
}

func (r Role) String() string {
	return string(r)
}

// Actor identifies the caller of an application service operation
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// NewActor creates an Actor
func NewActor(userID uuid.UUID, role Role) Actor {
	return Actor{UserID: userID, Role: role}
}

// IsAdmin reports whether the actor has the ADMIN role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsStudent reports whether the actor has the STUDENT role
func (a Actor) IsStudent() bool {
	return a.Role == RoleStudent
}

// CanAccess reports whether the actor may act on a record owned by ownerID
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == ownerID
}

// SystemActor is used by scheduled jobs and event handlers
var SystemActor = Actor{UserID: uuid.Nil, Role: RoleAdmin}
