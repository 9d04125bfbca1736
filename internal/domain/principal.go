package domain

import "strings"

// Principal is the authenticated caller. It is passed explicitly into every
// organizer operation.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.UserID) != ""
}

// Owns reports whether the principal is the organizer of e.
func (p Principal) Owns(e *Event) bool {
	return e != nil && p.Authenticated() && e.OrganizerID == p.UserID
}
