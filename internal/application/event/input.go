package event

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

// EventInput is the shared, statically typed create/update schema. String
// fields arrive untrimmed; numbers that were absent stay nil.
type EventInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	EventDate   string   `json:"event_date" validate:"required,event_date"`
	Location    string   `json:"location" validate:"required,max=255"`
	City        string   `json:"city" validate:"max=255"`
	State       string   `json:"state" validate:"max=255"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Capacity    *int     `json:"capacity" validate:"required,min=1,max=2147483647"`
	IsPaid      *bool    `json:"is_paid" validate:"required"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=99999999.99,cents"`

	Image *ImageUpload `json:"-" validate:"-"`
}

type CreateInput struct {
	EventInput
}

type UpdateInput struct {
	EventInput
	Status string `json:"status" validate:"required,oneof=draft active inactive"`
}

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventDate accepts RFC3339, HTML datetime-local and plain dates.
// Values without a zone are read as UTC.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("event_date", func(fl validator.FieldLevel) bool {
		_, err := ParseEventDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		return domain.HasCents(fl.Field().Float())
	})
	v.RegisterStructValidation(validatePrice, EventInput{})
	return v
}

// validatePrice requires a price for paid events.
func validatePrice(sl validator.StructLevel) {
	in := sl.Current().Interface().(EventInput)
	if in.IsPaid != nil && *in.IsPaid && in.Price == nil {
		sl.ReportError(in.Price, "price", "Price", "required_if_paid", "")
	}
}

func (in *EventInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.EventDate = strings.TrimSpace(in.EventDate)
	in.Location = strings.TrimSpace(in.Location)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
}

// check runs the schema and image rules and reports every failing field.
func (s *Service) check(in any, base *EventInput) error {
	base.trim()

	meta := map[string]string{}
	if err := s.input.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			if _, seen := meta[fe.Field()]; !seen {
				meta[fe.Field()] = fieldMessage(fe)
			}
		}
	}
	if base.Image != nil {
		if err := checkImage(base.Image, s.maxImageBytes); err != nil {
			meta["image"] = err.Error()
		}
	}
	if len(meta) > 0 {
		return domain.ErrValidationMeta("validation failed", meta)
	}
	return nil
}

// fields converts a checked input into domain fields.
func (in EventInput) fields() (domain.EventFields, error) {
	date, err := ParseEventDate(in.EventDate)
	if err != nil {
		return domain.EventFields{}, domain.ErrValidationMeta("validation failed", map[string]string{
			"event_date": "event_date must be a valid date",
		})
	}
	f := domain.EventFields{
		Title:       in.Title,
		Description: in.Description,
		EventDate:   date,
		Location:    in.Location,
		City:        in.City,
		State:       in.State,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
	if in.Capacity != nil {
		f.Capacity = *in.Capacity
	}
	if in.IsPaid != nil {
		f.IsPaid = *in.IsPaid
	}
	if f.IsPaid {
		f.Price = in.Price
	}
	return f, nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s may not be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "cents":
		return fmt.Sprintf("%s must have at most 2 decimal places", field)
	case "event_date":
		return fmt.Sprintf("%s must be a valid date", field)
	case "required_if_paid":
		return fmt.Sprintf("%s is required when is_paid is true", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
