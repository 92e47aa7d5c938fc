package shared

import (
	"strings"

	"github.com/google/uuid"
)

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID uuid.UUID
	Roles  []string
}

// HasAnyRole reports whether the actor holds one of the roles (case-insensitive)
func (a Actor) HasAnyRole(roles ...string) bool {
	for _, have := range a.Roles {
		for _, want := range roles {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
