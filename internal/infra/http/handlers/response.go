package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []entity.FieldError `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps a domain error to its status and code. Server-side
// failures are logged and reported to Sentry; their details never reach
// the client.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	var (
		verr *entity.ValidationError
		qerr *entity.InvalidQueryError
		serr *entity.StoreUnavailableError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "One or more fields are invalid",
			Fields:  verr.Fields,
		})
	case errors.Is(err, entity.ErrLeadNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Lead not found")
	case errors.As(err, &qerr):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", qerr.Error())
	case errors.As(err, &serr):
		reportServerError(r, log, err)
		writeErrorResponse(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Lead store is temporarily unavailable")
	default:
		reportServerError(r, log, err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func reportServerError(r *http.Request, log logrus.FieldLogger, err error) {
	reqID := chimw.GetReqID(r.Context())
	log.WithError(err).WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": reqID,
	}).Error("request failed")

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		scope.SetTag("request_id", reqID)
		sentry.CaptureException(err)
	})
}
