package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type AnalyticsHandler struct {
	UC  *usecase.GetAnalyticsUseCase
	Log logrus.FieldLogger
}

func NewAnalyticsHandler(uc *usecase.GetAnalyticsUseCase, log logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{UC: uc, Log: log}
}

// Handle (GET /api/analytics) aggregates the whole collection; list filters do not apply.
func (h *AnalyticsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	m, err := h.UC.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
