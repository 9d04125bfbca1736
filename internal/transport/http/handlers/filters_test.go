package handlers

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
)

func TestParseListFilter(t *testing.T) {
	t.Run("absent_params_leave_filter_empty", func(t *testing.T) {
		f, echo, err := parseListFilter(url.Values{})
		require.NoError(t, err)
		assert.Nil(t, f.DateFrom)
		assert.Nil(t, f.Location)
		assert.Nil(t, f.Status)
		assert.Nil(t, echo.Location)
	})

	t.Run("all_dimensions", func(t *testing.T) {
		q := url.Values{
			"date_from": {"2025-03-01"},
			"date_to":   {"2025-03-31T10:00:00Z"},
			"location":  {"Austin"},
			"status":    {"active"},
			"min_price": {"10"},
			"max_price": {"25.5"},
		}
		f, echo, err := parseListFilter(q)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
		assert.Equal(t, 31, f.DateTo.Day())
		assert.Equal(t, "Austin", *f.Location)
		assert.Equal(t, domain.StatusActive, *f.Status)
		assert.Equal(t, 10.0, *f.MinPrice)
		assert.Equal(t, 25.5, *f.MaxPrice)
		assert.Equal(t, "25.5", *echo.MaxPrice)
	})

	t.Run("empty_location_is_kept", func(t *testing.T) {
		f, echo, err := parseListFilter(url.Values{"location": {""}})
		require.NoError(t, err)
		require.NotNil(t, f.Location)
		assert.Equal(t, "", *f.Location)
		require.NotNil(t, echo.Location)
	})

	t.Run("empty_other_params_are_absent", func(t *testing.T) {
		f, _, err := parseListFilter(url.Values{"status": {""}, "min_price": {""}, "date_from": {""}})
		require.NoError(t, err)
		assert.Nil(t, f.Status)
		assert.Nil(t, f.MinPrice)
		assert.Nil(t, f.DateFrom)
	})

	bad := []struct {
		name  string
		q     url.Values
		field string
	}{
		{"malformed_date", url.Values{"date_from": {"03/01/2025"}}, "date_from"},
		{"unknown_status", url.Values{"status": {"archived"}}, "status"},
		{"non_numeric_price", url.Values{"min_price": {"cheap"}}, "min_price"},
		{"infinite_price", url.Values{"max_price": {"Inf"}}, "max_price"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseListFilter(tc.q)
			var ae *domain.AppError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, domain.CodeValidation, ae.Code)
			assert.Contains(t, ae.Meta, tc.field)
		})
	}
}
