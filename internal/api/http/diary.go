package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platelog/platelog-backend/internal/api/respond"
	"github.com/platelog/platelog-backend/internal/api/validate"
	"github.com/platelog/platelog-backend/internal/auth"
	"github.com/platelog/platelog-backend/internal/model"
	"github.com/platelog/platelog-backend/internal/services"
)

// DiaryHandler is a thin HTTP transport over DiaryService.
type DiaryHandler struct {
	svc *services.DiaryService
}

func NewDiaryHandler(svc *services.DiaryService) *DiaryHandler { return &DiaryHandler{svc: svc} }

// ownedEntry loads an entry and hides it when the caller does not own it.
// The document store's own rules are the real enforcement; this keeps the
// sql and in-memory drivers honest.
func (h *DiaryHandler) ownedEntry(r *http.Request, entryID string) (*model.DiaryEntry, error) {
	entry, err := h.svc.GetEntry(r.Context(), auth.TokenFrom(r.Context()), entryID)
	if err != nil {
		return nil, err
	}
	user, ok := auth.UserFrom(r.Context())
	if !ok || entry.UserID != user.UserID {
		return nil, model.ErrNotFound
	}
	return entry, nil
}

// CreateEntry POST /v0/entries
func (h *DiaryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no authenticated user")
		return
	}

	var req model.DiaryEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	req.UserID = user.UserID
	if err := validate.CreateEntry(&req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateEntry(r.Context(), auth.TokenFrom(r.Context()), &req)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetEntry GET /v0/entries/{entryId}
func (h *DiaryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.ownedEntry(r, mux.Vars(r)["entryId"])
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "entry not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, entry)
}

// SetBookmark PATCH /v0/entries/{entryId}/bookmark
func (h *DiaryHandler) SetBookmark(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]
	var req struct {
		Bookmarked bool `json:"bookmarked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	if _, err := h.ownedEntry(r, entryID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "entry not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	if err := h.svc.SetBookmark(r.Context(), auth.TokenFrom(r.Context()), entryID, req.Bookmarked); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEntry DELETE /v0/entries/{entryId}
func (h *DiaryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]
	if _, err := h.ownedEntry(r, entryID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "entry not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	if err := h.svc.DeleteEntry(r.Context(), auth.TokenFrom(r.Context()), entryID); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
