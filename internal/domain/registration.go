package domain

import (
	"fmt"
	"time"
)

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

type User struct {
	ID    string
	Name  string
	Email string
}

type Registration struct {
	ID        string
	EventID   string
	UserID    string
	Status    RegistrationStatus
	CreatedAt time.Time

	User User
}

// EventWithRegistrations is an event plus its active registrations.
type EventWithRegistrations struct {
	Event         *Event
	Registrations []Registration
}

func (a EventWithRegistrations) RegisteredCount() int {
	n := 0
	for _, r := range a.Registrations {
		if r.Status == RegistrationRegistered {
			n++
		}
	}
	return n
}

// Occupancy renders "registered / capacity", e.g. "2 / 3".
func (a EventWithRegistrations) Occupancy() string {
	capacity := 0
	if a.Event != nil {
		capacity = a.Event.Capacity
	}
	return fmt.Sprintf("%d / %d", a.RegisteredCount(), capacity)
}
