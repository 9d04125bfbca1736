package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/validate"
)

const (
	dashboardPath = "/dashboard"
	eventsPath    = "/events"

	// room for the text fields next to the image
	multipartOverhead = 1 << 20
)

type Clock interface{ Now() time.Time }

type EventsHandler struct {
	svc   *event.Service
	clock Clock
}

func NewEventsHandler(svc *event.Service, clock Clock) *EventsHandler {
	return &EventsHandler{svc: svc, clock: clock}
}

func (h *EventsHandler) now() time.Time { return h.clock.Now().UTC() }

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	f, echo, err := parseListFilter(r.URL.Query())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	res, err := h.svc.List(r.Context(), middleware.Principal(r), f)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ListResp{
		Items:   dto.ToEventList(res.Items, h.now(), h.svc.ImageURL),
		Filters: echo,
	})
}

func (h *EventsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Dashboard(r.Context(), middleware.Principal(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.DashboardResp{
		Events: dto.ToEventList(res.Events, h.now(), h.svc.ImageURL),
		Stats:  dto.ToStatsResp(res.Stats),
	})
}

func (h *EventsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	ev, err := h.svc.Get(r.Context(), middleware.Principal(r), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventResp(ev, h.now(), h.svc.ImageURL))
}

func (h *EventsHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, dto.ToFormResp(h.svc.CreateForm()))
}

func (h *EventsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	ef, err := h.svc.GetForEdit(r.Context(), middleware.Principal(r), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.EditResp{
		Event: dto.ToEventResp(ef.Event, h.now(), h.svc.ImageURL),
		Form:  dto.ToFormResp(ef.Form),
	})
}

func (h *EventsHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	agg, err := h.svc.Registrations(r.Context(), middleware.Principal(r), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToEventWithRegistrationsResp(agg, h.now(), h.svc.ImageURL))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, img, err := h.readEventReq(w, r)
	if err != nil {
		countMutation("create", err)
		response.ErrWithInput(w, r, err, req, "failed to create event")
		return
	}
	ev, err := h.svc.Create(r.Context(), middleware.Principal(r), req.ToCreateInput(img))
	countMutation("create", err)
	if err != nil {
		response.ErrWithInput(w, r, err, req, "failed to create event")
		return
	}
	response.Data(w, http.StatusCreated, dto.CreateResp{
		Event:    dto.ToEventResp(ev, h.now(), h.svc.ImageURL),
		Redirect: dashboardPath,
	})
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	// Ownership is checked before the body is read.
	if err := h.svc.AuthorizeOwner(r.Context(), middleware.Principal(r), id); err != nil {
		countMutation("update", err)
		response.Err(w, r, err)
		return
	}
	req, img, err := h.readEventReq(w, r)
	if err != nil {
		countMutation("update", err)
		response.ErrWithInput(w, r, err, req, "failed to update event")
		return
	}
	ev, err := h.svc.Update(r.Context(), middleware.Principal(r), id, req.ToUpdateInput(img))
	countMutation("update", err)
	if err != nil {
		response.ErrWithInput(w, r, err, req, "failed to update event")
		return
	}
	response.Data(w, http.StatusOK, dto.UpdateResp{
		Event:    dto.ToEventResp(ev, h.now(), h.svc.ImageURL),
		Redirect: eventsPath + "/" + ev.ID,
		Success:  "Event updated successfully.",
	})
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	err := h.svc.Delete(r.Context(), middleware.Principal(r), id)
	countMutation("delete", err)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.DeleteResp{
		Redirect: eventsPath,
		Success:  "Event deleted successfully.",
	})
}

func eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return "", false
	}
	return id, true
}

// readEventReq accepts a JSON body or a form post, the latter optionally
// carrying an image file.
func (h *EventsHandler) readEventReq(w http.ResponseWriter, r *http.Request) (dto.EventReq, *event.ImageUpload, error) {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	maxImage := h.svc.CreateForm().MaxImageBytes

	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		r.Body = http.MaxBytesReader(w, r.Body, maxImage+multipartOverhead)
		if err := r.ParseMultipartForm(maxImage + multipartOverhead); err != nil {
			return dto.EventReq{}, nil, domain.ErrValidationMeta("invalid form body", map[string]string{
				"body": "malformed multipart form or body too large",
			})
		}
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return dto.EventReq{}, nil, domain.ErrValidationMeta("invalid form body", map[string]string{
				"body": "malformed form body",
			})
		}
	default:
		var req dto.EventReq
		if err := validate.DecodeJSON(r, &req); err != nil {
			return req, nil, domain.ErrValidationMeta("invalid json body", map[string]string{
				"body": "malformed JSON or invalid fields",
			})
		}
		return req, nil, nil
	}

	req, meta := dto.EventReqFromForm(r.PostForm)
	img, err := readImage(r, maxImage)
	if err != nil {
		meta["image"] = err.Error()
	}
	if len(meta) > 0 {
		return req, nil, domain.ErrValidationMeta("validation failed", meta)
	}
	return req, img, nil
}

// readImage reads at most maxBytes+1 so oversize uploads are still
// reported by the service as too large.
func readImage(r *http.Request, maxBytes int64) (*event.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, hdr, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("image failed to upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, errors.New("image failed to upload")
	}
	return &event.ImageUpload{Filename: hdr.Filename, Data: data}, nil
}

func countMutation(op string, err error) {
	result := "ok"
	if err != nil {
		switch domain.CodeOf(err) {
		case domain.CodeForbidden:
			result = "forbidden"
		case domain.CodeValidation:
			result = "invalid"
		case domain.CodeNotFound:
			result = "not_found"
		default:
			result = "error"
		}
	}
	middleware.EventMutationsTotal.WithLabelValues(op, result).Inc()
}
