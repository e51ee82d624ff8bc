package server

import (
	"encoding/json"
	"net/http"

	"github.com/meteo-transit/meteo/pkg/errors"
)

type errorBody struct {
	Error   string         `json:"error"`
	Code    errors.Code    `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a coded error to its HTTP status. Uncoded errors are
// reported as internal without their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	body := errorBody{
		Error: msg,
		Code:  code,
		Details: map[string]any{
			"request_id": requestIDFrom(r.Context()),
		},
	}
	if q := r.URL.Query(); q.Has("from") || q.Has("to") {
		body.Details["from"] = q.Get("from")
		body.Details["to"] = q.Get("to")
	}
	writeJSON(w, errors.HTTPStatus(code), body)
}
