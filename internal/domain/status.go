package domain

type EventStatus string

const (
	StatusDraft    EventStatus = "draft"
	StatusActive   EventStatus = "active"
	StatusInactive EventStatus = "inactive"
)

// EventStatuses is the full set in form order.
var EventStatuses = []EventStatus{StatusDraft, StatusActive, StatusInactive}

func (s EventStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive:
		return true
	}
	return false
}

func ParseStatus(s string) (EventStatus, error) {
	st := EventStatus(s)
	if !st.Valid() {
		return "", ErrValidation("status must be one of: draft, active, inactive")
	}
	return st, nil
}
