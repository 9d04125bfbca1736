package domain

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return tt.UTC()
}

func fptr(v float64) *float64 { return &v }

func validFields(t *testing.T) EventFields {
	return EventFields{
		Title:       "  Rooftop Jazz  ",
		Description: "Live quartet",
		EventDate:   mustTime(t, "2026-03-01T19:00:00Z"),
		Location:    "Main St 1",
		City:        "Austin",
		State:       "TX",
		Capacity:    3,
	}
}

func TestNewDraft_Validation(t *testing.T) {
	now := mustTime(t, "2026-01-10T10:00:00Z")

	t.Run("valid_draft_creation", func(t *testing.T) {
		e, err := NewDraft("org-1", validFields(t), nil, now)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, e.Status)
		assert.Equal(t, "Rooftop Jazz", e.Title)
		assert.Equal(t, "org-1", e.OrganizerID)
		assert.Equal(t, now, e.CreatedAt)
		assert.NotEmpty(t, e.ID)
	})

	t.Run("fail_on_empty_organizer", func(t *testing.T) {
		_, err := NewDraft(" ", validFields(t), nil, now)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("fail_on_zero_capacity", func(t *testing.T) {
		f := validFields(t)
		f.Capacity = 0
		_, err := NewDraft("org-1", f, nil, now)
		var ae *AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "capacity must be at least 1", ae.Meta["capacity"])
	})

	t.Run("unpaid_discards_price", func(t *testing.T) {
		f := validFields(t)
		f.Price = fptr(25)
		e, err := NewDraft("org-1", f, nil, now)
		require.NoError(t, err)
		assert.False(t, e.IsPaid)
		assert.Nil(t, e.Price)
	})

	t.Run("paid_requires_price", func(t *testing.T) {
		f := validFields(t)
		f.IsPaid = true
		_, err := NewDraft("org-1", f, nil, now)
		var ae *AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "price is required when is_paid is true", ae.Meta["price"])
	})

	t.Run("multibyte_title_counted_in_characters", func(t *testing.T) {
		f := validFields(t)
		f.Title = strings.Repeat("é", 255)
		e, err := NewDraft("org-1", f, nil, now)
		require.NoError(t, err)
		assert.Equal(t, 255, utf8.RuneCountInString(e.Title))
	})

	t.Run("overlong_city_reported_per_field", func(t *testing.T) {
		f := validFields(t)
		f.City = strings.Repeat("ß", 256)
		_, err := NewDraft("org-1", f, nil, now)
		var ae *AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "city must be at most 255 characters", ae.Meta["city"])
		assert.NotContains(t, ae.Meta, "title")
	})

	t.Run("price_beyond_column_rejected", func(t *testing.T) {
		f := validFields(t)
		f.IsPaid = true
		f.Price = fptr(12.345)
		_, err := NewDraft("org-1", f, nil, now)
		var ae *AppError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "price must have at most 2 decimal places", ae.Meta["price"])

		f.Price = fptr(MaxPrice + 1)
		_, err = NewDraft("org-1", f, nil, now)
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "price must be less than or equal to 99999999.99", ae.Meta["price"])
	})

	t.Run("latitude_out_of_range", func(t *testing.T) {
		f := validFields(t)
		f.Latitude = fptr(91)
		_, err := NewDraft("org-1", f, nil, now)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})
}

func TestHasCents(t *testing.T) {
	assert.True(t, HasCents(12))
	assert.True(t, HasCents(12.5))
	assert.True(t, HasCents(MaxPrice))
	assert.False(t, HasCents(12.345))
}

func TestEvent_Replace(t *testing.T) {
	now := mustTime(t, "2026-01-10T10:00:00Z")
	img := "event-images/old.png"
	e, err := NewDraft("org-1", validFields(t), &img, now)
	require.NoError(t, err)

	t.Run("keeps_organizer_and_image_when_none_given", func(t *testing.T) {
		f := validFields(t)
		f.Title = "Renamed"
		f.IsPaid = true
		f.Price = fptr(12.5)
		later := now.Add(time.Hour)

		require.NoError(t, e.Replace(f, StatusActive, nil, later))
		assert.Equal(t, "org-1", e.OrganizerID)
		assert.Equal(t, "Renamed", e.Title)
		assert.Equal(t, StatusActive, e.Status)
		assert.Equal(t, 12.5, *e.Price)
		assert.Equal(t, img, *e.Image)
		assert.Equal(t, later, e.UpdatedAt)
		assert.Equal(t, now, e.CreatedAt)
	})

	t.Run("rejects_unknown_status", func(t *testing.T) {
		err := e.Replace(validFields(t), EventStatus("archived"), nil, now)
		assert.Equal(t, CodeValidation, CodeOf(err))
	})
}

func TestEventWithRegistrations_Occupancy(t *testing.T) {
	agg := EventWithRegistrations{
		Event: &Event{Capacity: 3},
		Registrations: []Registration{
			{Status: RegistrationRegistered},
			{Status: RegistrationRegistered},
			{Status: RegistrationCancelled},
		},
	}
	assert.Equal(t, 2, agg.RegisteredCount())
	assert.Equal(t, "2 / 3", agg.Occupancy())
}

func TestPrincipal_Owns(t *testing.T) {
	e := &Event{OrganizerID: "org-1"}
	assert.True(t, Principal{UserID: "org-1"}.Owns(e))
	assert.False(t, Principal{UserID: "org-2", Role: "admin"}.Owns(e))
	assert.False(t, Principal{}.Owns(&Event{}))
}
