package event

import "github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"

// FormSchema describes the create/edit form.
type FormSchema struct {
	Statuses      []domain.EventStatus
	DefaultStatus domain.EventStatus
	MaxImageBytes int64
	ImageTypes    []string
}

func (s *Service) CreateForm() FormSchema {
	return FormSchema{
		Statuses:      domain.EventStatuses,
		DefaultStatus: domain.StatusDraft,
		MaxImageBytes: s.maxImageBytes,
		ImageTypes:    allowedImageTypes,
	}
}
