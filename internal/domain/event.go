package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Event struct {
	ID          string
	OrganizerID string
	Title       string
	Description string
	EventDate   time.Time
	Location    string
	City        string
	State       string
	Latitude    *float64
	Longitude   *float64
	Capacity    int

	Status EventStatus
	IsPaid bool
	Price  *float64 // nil unless IsPaid
	Image  *string  // blob storage key

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventFields are the organizer-editable columns.
type EventFields struct {
	Title       string
	Description string
	EventDate   time.Time
	Location    string
	City        string
	State       string
	Latitude    *float64
	Longitude   *float64
	Capacity    int
	IsPaid      bool
	Price       *float64
}

const (
	maxTextLen = 255

	// MaxCapacity and MaxPrice are the column limits (INTEGER, NUMERIC(10,2)).
	MaxCapacity = math.MaxInt32
	MaxPrice    = 99999999.99
)

// HasCents reports whether v has no more than two decimal places.
func HasCents(v float64) bool {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s)-i-1 <= 2
	}
	return true
}

// normalize trims text fields and enforces the record invariants. Lengths
// are counted in characters, matching VARCHAR(255).
func (f *EventFields) normalize() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)

	meta := map[string]string{}
	text := func(field, v string, required bool) {
		switch {
		case required && v == "":
			meta[field] = field + " is required"
		case utf8.RuneCountInString(v) > maxTextLen:
			meta[field] = fmt.Sprintf("%s must be at most %d characters", field, maxTextLen)
		}
	}
	text("title", f.Title, true)
	if f.Description == "" {
		meta["description"] = "description is required"
	}
	if f.EventDate.IsZero() {
		meta["event_date"] = "event_date is required"
	}
	text("location", f.Location, true)
	text("city", f.City, false)
	text("state", f.State, false)

	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		meta["latitude"] = "latitude must be between -90 and 90"
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		meta["longitude"] = "longitude must be between -180 and 180"
	}
	if f.Capacity < 1 {
		meta["capacity"] = "capacity must be at least 1"
	} else if f.Capacity > MaxCapacity {
		meta["capacity"] = fmt.Sprintf("capacity may not be greater than %d", MaxCapacity)
	}

	switch {
	case !f.IsPaid:
		f.Price = nil
	case f.Price == nil:
		meta["price"] = "price is required when is_paid is true"
	case *f.Price < 0:
		meta["price"] = "price must be greater than or equal to 0"
	case *f.Price > MaxPrice:
		meta["price"] = "price must be less than or equal to 99999999.99"
	case !HasCents(*f.Price):
		meta["price"] = "price must have at most 2 decimal places"
	}

	if len(meta) > 0 {
		return ErrValidationMeta("validation failed", meta)
	}
	return nil
}

// NewDraft builds a new event owned by organizerID. Status is always draft.
func NewDraft(organizerID string, f EventFields, image *string, now time.Time) (*Event, error) {
	organizerID = strings.TrimSpace(organizerID)
	if organizerID == "" {
		return nil, ErrValidation("organizer_id is required")
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}

	t := now.UTC()
	e := &Event{
		ID:          uuid.NewString(),
		OrganizerID: organizerID,
		Status:      StatusDraft,
		Image:       image,
		CreatedAt:   t,
		UpdatedAt:   t,
	}
	e.apply(f)
	return e, nil
}

// Replace overwrites every editable field. The organizer never changes, and
// the image is only swapped when a new one is given.
func (e *Event) Replace(f EventFields, status EventStatus, image *string, now time.Time) error {
	if !status.Valid() {
		return ErrValidation("status must be one of: draft, active, inactive")
	}
	if err := f.normalize(); err != nil {
		return err
	}
	e.apply(f)
	e.Status = status
	if image != nil {
		e.Image = image
	}
	e.UpdatedAt = now.UTC()
	return nil
}

func (e *Event) apply(f EventFields) {
	e.Title = f.Title
	e.Description = f.Description
	e.EventDate = f.EventDate.UTC()
	e.Location = f.Location
	e.City = f.City
	e.State = f.State
	e.Latitude = f.Latitude
	e.Longitude = f.Longitude
	e.Capacity = f.Capacity
	e.IsPaid = f.IsPaid
	e.Price = f.Price
}

func (e *Event) IsPast(now time.Time) bool {
	return e.EventDate.Before(now)
}
