package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated team member.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the acting principal attached to a request. It is a
// by-value snapshot of the user's identity at request time; audit
// records copy it so they stay meaningful after the user is deleted
// or changes role.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// IsElevated reports whether the actor holds administrative privilege.
func (a Actor) IsElevated() bool { return a.Role.IsElevated() }

// ActorFromUser snapshots a user into an Actor.
func ActorFromUser(u User) Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}

// RequestMeta is provenance captured from the transport layer and
// stamped onto audit records. Both fields are optional.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
