package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"backoffice/auth"
	"backoffice/department"
	"backoffice/records"
)

// ErrorEnvelope is the body of every non-2xx JSON response.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	TraceID string            `json:"trace_id,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Meta    ErrorEnvelopeMeta `json:"meta"`
}

type ErrorEnvelopeMeta struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// requestError is an input problem detected by a handler before any service
// call, such as malformed JSON or an unparsable query parameter.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string) error {
	return &requestError{status: http.StatusBadRequest, code: "bad_request", message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields map[string]string) {
	writeJSON(w, status, ErrorEnvelope{
		Code:    code,
		Message: message,
		TraceID: requestIDFrom(r.Context()),
		Fields:  fields,
		Meta: ErrorEnvelopeMeta{
			Path:   r.URL.Path,
			Method: r.Method,
		},
	})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything it does
// not recognise is logged and reported as a 500 without details.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeError(w, r, reqErr.status, reqErr.code, reqErr.message, nil)
		return
	}
	if verr, ok := records.AsValidation(err); ok {
		writeError(w, r, http.StatusUnprocessableEntity, "validation_failed", "one or more fields are invalid", verr.Fields)
		return
	}

	switch {
	case errors.Is(err, records.ErrNotFound),
		errors.Is(err, department.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "resource not found", nil)
	case errors.Is(err, records.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case errors.Is(err, records.ErrDuplicateID),
		errors.Is(err, auth.ErrDuplicateEmail):
		writeError(w, r, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, records.ErrConfirmationRequired):
		writeError(w, r, http.StatusPreconditionRequired, "confirmation_required", "repeat the request with confirm=true to delete", nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
