package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platelog/platelog-backend/internal/api/respond"
	"github.com/platelog/platelog-backend/internal/auth"
	"github.com/platelog/platelog-backend/internal/model"
	"github.com/platelog/platelog-backend/internal/services"
)

// AnalysisHandler exposes the AI meal analysis and its daily quota.
type AnalysisHandler struct {
	analysis *services.AnalysisService
	quota    *services.QuotaService
}

func NewAnalysisHandler(analysis *services.AnalysisService, quota *services.QuotaService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, quota: quota}
}

// Analyze POST /v0/entries/{entryId}/analysis
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no authenticated user")
		return
	}

	out, err := h.analysis.AnalyzeEntry(r.Context(), auth.TokenFrom(r.Context()),
		user.UserID, mux.Vars(r)["entryId"])
	if err != nil {
		switch {
		case errors.Is(err, model.ErrQuotaExceeded):
			respond.WriteTooManyRequests(w, "daily analysis limit reached")
		case errors.Is(err, model.ErrNotFound):
			respond.WriteNotFound(w, "entry not found")
		case errors.Is(err, model.ErrValidation):
			respond.WriteBadRequest(w, err.Error())
		default:
			respond.WriteInternalError(w, err.Error())
		}
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// QuotaStatus GET /v0/analysis/quota
func (h *AnalysisHandler) QuotaStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no authenticated user")
		return
	}

	st, err := h.quota.Check(r.Context(), auth.TokenFrom(r.Context()), user.UserID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, st)
}
