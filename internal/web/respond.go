package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ajoux/festin/internal/apperr"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	var body errorBody
	body.Error.Code = string(codeForStatus(status))
	body.Error.Message = msg
	writeJSON(w, status, body)
}

// writeError maps a service error to an HTTP response. Storage and internal
// causes are logged server-side; clients only ever see the generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		domainErr = apperr.Internal(err)
	}

	if domainErr.Code == apperr.CodeStorage || domainErr.Code == apperr.CodeInternal {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", string(domainErr.Code),
			"error", err,
		)
	}

	var body errorBody
	body.Error.Code = string(domainErr.Code)
	body.Error.Message = domainErr.Message
	body.Error.Details = domainErr.Details
	writeJSON(w, domainErr.HTTPStatus(), body)
}

// decodeJSON reads one JSON object into v, rejecting unknown fields and
// trailing garbage.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid request body: " + err.Error())
	}
	if dec.More() {
		return apperr.Validation("invalid request body: trailing data")
	}
	return nil
}

func codeForStatus(status int) apperr.Code {
	switch status {
	case http.StatusBadRequest:
		return apperr.CodeValidation
	case http.StatusUnauthorized:
		return apperr.CodeUnauthenticated
	case http.StatusForbidden:
		return apperr.CodeForbidden
	case http.StatusNotFound:
		return apperr.CodeNotFound
	default:
		return apperr.CodeInternal
	}
}
