package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
)

// EventReq is the create/update body. Every field is a pointer so an absent
// value stays distinguishable from a zero one; it is also what gets echoed
// back on failure.
type EventReq struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	EventDate   *string  `json:"event_date,omitempty"`
	Location    *string  `json:"location,omitempty"`
	City        *string  `json:"city,omitempty"`
	State       *string  `json:"state,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	Status      *string  `json:"status,omitempty"`
	IsPaid      *bool    `json:"is_paid,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (r EventReq) toInput(img *event.ImageUpload) event.EventInput {
	return event.EventInput{
		Title:       str(r.Title),
		Description: str(r.Description),
		EventDate:   str(r.EventDate),
		Location:    str(r.Location),
		City:        str(r.City),
		State:       str(r.State),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Capacity:    r.Capacity,
		IsPaid:      r.IsPaid,
		Price:       r.Price,
		Image:       img,
	}
}

// ToCreateInput ignores any submitted status; new events are always drafts.
func (r EventReq) ToCreateInput(img *event.ImageUpload) event.CreateInput {
	return event.CreateInput{EventInput: r.toInput(img)}
}

func (r EventReq) ToUpdateInput(img *event.ImageUpload) event.UpdateInput {
	return event.UpdateInput{EventInput: r.toInput(img), Status: str(r.Status)}
}

// EventReqFromForm reads multipart/urlencoded fields. Empty strings count as
// absent. Values that do not parse are reported per field.
func EventReqFromForm(v url.Values) (EventReq, map[string]string) {
	var req EventReq
	meta := map[string]string{}

	text := func(name string) *string {
		if _, ok := v[name]; !ok {
			return nil
		}
		s := v.Get(name)
		return &s
	}
	num := func(name string) *float64 {
		s := strings.TrimSpace(v.Get(name))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			meta[name] = name + " must be a number"
			return nil
		}
		return &f
	}

	req.Title = text("title")
	req.Description = text("description")
	req.EventDate = text("event_date")
	req.Location = text("location")
	req.City = text("city")
	req.State = text("state")
	req.Status = text("status")
	req.Latitude = num("latitude")
	req.Longitude = num("longitude")
	req.Price = num("price")

	if s := strings.TrimSpace(v.Get("capacity")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			meta["capacity"] = "capacity must be an integer"
		} else {
			req.Capacity = &n
		}
	}
	if s := strings.TrimSpace(v.Get("is_paid")); s != "" {
		b, err := parseBool(s)
		if err != nil {
			meta["is_paid"] = "is_paid must be true or false"
		} else {
			req.IsPaid = &b
		}
	}
	return req, meta
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}
