package handlers

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/dto"
)

// parseListFilter reads the organizer index query. A parameter present with
// an empty value is absent for dates, status and prices; location keeps it.
func parseListFilter(q url.Values) (event.ListFilter, dto.FiltersEcho, error) {
	var (
		f    event.ListFilter
		echo dto.FiltersEcho
	)
	meta := map[string]string{}

	raw := func(name string) *string {
		if _, ok := q[name]; !ok {
			return nil
		}
		s := strings.TrimSpace(q.Get(name))
		return &s
	}

	echo.DateFrom = raw("date_from")
	echo.DateTo = raw("date_to")
	echo.Location = raw("location")
	echo.Status = raw("status")
	echo.MinPrice = raw("min_price")
	echo.MaxPrice = raw("max_price")

	date := func(name string, v *string) *time.Time {
		if v == nil || *v == "" {
			return nil
		}
		t, err := parseFilterDate(*v)
		if err != nil {
			meta[name] = name + " must be a valid date (YYYY-MM-DD)"
			return nil
		}
		return &t
	}
	price := func(name string, v *string) *float64 {
		if v == nil || *v == "" {
			return nil
		}
		n, err := strconv.ParseFloat(*v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			meta[name] = name + " must be a number"
			return nil
		}
		return &n
	}

	f.DateFrom = date("date_from", echo.DateFrom)
	f.DateTo = date("date_to", echo.DateTo)
	f.MinPrice = price("min_price", echo.MinPrice)
	f.MaxPrice = price("max_price", echo.MaxPrice)
	f.Location = echo.Location

	if echo.Status != nil && *echo.Status != "" {
		st, err := domain.ParseStatus(*echo.Status)
		if err != nil {
			meta["status"] = "status must be one of: draft, active, inactive"
		} else {
			f.Status = &st
		}
	}

	if len(meta) > 0 {
		return f, echo, domain.ErrValidationMeta("invalid query param", meta)
	}
	return f, echo, nil
}

func parseFilterDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
