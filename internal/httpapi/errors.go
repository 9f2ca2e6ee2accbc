package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
)

type APIError struct {
	Error struct {
		Code      string   `json:"code"`
		Message   string   `json:"message"`
		Fields    []string `json:"fields,omitempty"`
		RequestID string   `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeErr maps a screen error onto the envelope.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		re *backend.RemoteError
	)
	switch {
	case errors.As(err, &ve):
		var e APIError
		e.Error.Code = "validation_failed"
		e.Error.Message = ve.Msg
		e.Error.Fields = ve.Fields
		e.Error.RequestID = RequestIDFrom(r.Context())
		WriteJSON(w, http.StatusUnprocessableEntity, e)
	case errors.Is(err, backend.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", backend.Message(err))
	case errors.As(err, &re):
		WriteError(w, r, http.StatusBadGateway, "remote_error", backend.Message(err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, r, http.StatusServiceUnavailable, "cancelled", err.Error())
	default:
		log.Printf("level=error msg=\"request failed\" request_id=%s path=%s err=%v", RequestIDFrom(r.Context()), r.URL.Path, err)
		WriteError(w, r, http.StatusBadGateway, "remote_error", err.Error())
	}
}
