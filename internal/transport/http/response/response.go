package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type Envelope struct {
	Data any `json:"data"`
}

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	Input     any               `json:"input,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Data(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Envelope{Data: v})
}

func Fail(w http.ResponseWriter, status int, code, message string, meta map[string]string, requestID string) {
	WriteJSON(w, status, ErrorBody{Error: ErrorPayload{
		Code:      code,
		Message:   message,
		Meta:      meta,
		RequestID: requestID,
	}})
}

func Err(w http.ResponseWriter, r *http.Request, err error) {
	ErrWithInput(w, r, err, nil, "internal error")
}

// ErrWithInput is Err for form submissions: the submitted input is echoed
// back on validation and internal failures, and internalMsg replaces the
// generic 500 message. Forbidden and not-found responses never echo input.
func ErrWithInput(w http.ResponseWriter, r *http.Request, err error, input any, internalMsg string) {
	requestID := RequestIDFromRequest(r)

	var ae *domain.AppError
	if errors.As(err, &ae) {
		payload := ErrorPayload{
			Code:      string(ae.Code),
			Message:   ae.Message,
			Meta:      ae.Meta,
			RequestID: requestID,
		}
		if ae.Code == domain.CodeValidation {
			payload.Input = input
		}
		WriteJSON(w, statusFromCode(ae.Code), ErrorBody{Error: payload})
		return
	}

	// keep details in logs only
	zlog.Error().Err(err).Str("request_id", requestID).Str("path", r.URL.Path).Msg("unhandled error")
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: ErrorPayload{
		Code:      "internal_error",
		Message:   internalMsg,
		Input:     input,
		RequestID: requestID,
	}})
}

func statusFromCode(code domain.ErrCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
