package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/query"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

const maxBodyBytes = 1 << 20

type LeadHandler struct {
	ListUC          *usecase.ListLeadsUseCase
	ManageUC        *usecase.ManageLeadUseCase
	DefaultPageSize int
	MaxPageSize     int
	Log             logrus.FieldLogger
}

func NewLeadHandler(list *usecase.ListLeadsUseCase, manage *usecase.ManageLeadUseCase, defaultPageSize, maxPageSize int, log logrus.FieldLogger) *LeadHandler {
	return &LeadHandler{
		ListUC:          list,
		ManageUC:        manage,
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
		Log:             log,
	}
}

// List (GET /api/leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := query.ParseListRequest(r.URL.Query(), h.DefaultPageSize, h.MaxPageSize)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	out, err := h.ListUC.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Get (GET /api/leads/{id})
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.ManageUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Create (POST /api/leads)
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft entity.LeadDraft
	if !h.decode(w, r, &draft) {
		return
	}

	lead, err := h.ManageUC.Create(r.Context(), draft)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	middleware.RecordLeadMutation("create")
	writeJSON(w, http.StatusCreated, lead)
}

// Update (PATCH /api/leads/{id})
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if !h.decode(w, r, &patch) {
		return
	}

	lead, err := h.ManageUC.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	middleware.RecordLeadMutation("update")
	writeJSON(w, http.StatusOK, lead)
}

// Delete (DELETE /api/leads/{id})
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ManageUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	middleware.RecordLeadMutation("delete")
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Lead deleted successfully"})
}

// decode reads a JSON body into dst. Unknown fields are ignored; a value of
// the wrong JSON type is reported as a validation error on that field.
func (h *LeadHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		writeError(w, r, h.Log, &entity.ValidationError{Fields: []entity.FieldError{
			{Field: typeErr.Field, Message: "must be a " + jsonKind(typeErr.Type)},
		}})
	case errors.As(err, &tooLarge):
		writeErrorResponse(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body is too large")
	case errors.Is(err, io.EOF):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
	default:
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
	}
	return false
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "whole number"
	case reflect.Float32, reflect.Float64:
		return "number"
	}
	return t.Kind().String()
}
