package dto

import "time"

// EventResp is the stable API response model.
// NOTE: past is derived at request time.
type EventResp struct {
	ID          string `json:"id"`
	OrganizerID string `json:"organizer_id"`

	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`

	Location  string   `json:"location"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Capacity int      `json:"capacity"`
	Status   string   `json:"status"`
	IsPaid   bool     `json:"is_paid"`
	Price    *float64 `json:"price"`

	Image    *string `json:"image"`
	ImageURL string  `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Past bool `json:"past"`
}

type UserResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RegistrationResp struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	User      UserResp  `json:"user"`
}

type EventWithRegistrationsResp struct {
	EventResp
	Registrations   []RegistrationResp `json:"registrations"`
	RegisteredCount int                `json:"registered_count"`
	Occupancy       string             `json:"occupancy"`
}

// FiltersEcho repeats the raw query values; null means not supplied.
type FiltersEcho struct {
	DateFrom *string `json:"date_from"`
	DateTo   *string `json:"date_to"`
	Location *string `json:"location"`
	Status   *string `json:"status"`
	MinPrice *string `json:"min_price"`
	MaxPrice *string `json:"max_price"`
}

type ListResp struct {
	Items   []EventWithRegistrationsResp `json:"items"`
	Filters FiltersEcho                  `json:"filters"`
}

type StatsResp struct {
	TotalEvents        int            `json:"total_events"`
	ByStatus           map[string]int `json:"by_status"`
	TotalRegistrations int            `json:"total_registrations"`
	PaidEvents         int            `json:"paid_events"`
}

type DashboardResp struct {
	Events []EventWithRegistrationsResp `json:"events"`
	Stats  StatsResp                    `json:"stats"`
}

type FormResp struct {
	Statuses      []string `json:"statuses"`
	DefaultStatus string   `json:"default_status"`
	MaxImageBytes int64    `json:"max_image_bytes"`
	ImageTypes    []string `json:"image_types"`
}

type EditResp struct {
	Event EventResp `json:"event"`
	Form  FormResp  `json:"form"`
}

type CreateResp struct {
	Event    EventResp `json:"event"`
	Redirect string    `json:"redirect"`
}

type UpdateResp struct {
	Event    EventResp `json:"event"`
	Redirect string    `json:"redirect"`
	Success  string    `json:"success"`
}

type DeleteResp struct {
	Redirect string `json:"redirect"`
	Success  string `json:"success"`
}
