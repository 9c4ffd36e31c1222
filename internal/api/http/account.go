package http

import (
	"encoding/json"
	"net/http"

	"github.com/platelog/platelog-backend/internal/api/respond"
	"github.com/platelog/platelog-backend/internal/api/validate"
	"github.com/platelog/platelog-backend/internal/auth"
	"github.com/platelog/platelog-backend/internal/services"
)

// AccountHandler is a thin HTTP transport over account-lifecycle operations:
// the guest merge and the account wipe.
type AccountHandler struct {
	identity *services.IdentityService
	diary    *services.DiaryService
}

func NewAccountHandler(identity *services.IdentityService, diary *services.DiaryService) *AccountHandler {
	return &AccountHandler{identity: identity, diary: diary}
}

// MergeResponse reports a merge back to the client. Success stays false on
// partial failure so the client knows to retry with the failed ids.
type MergeResponse struct {
	Success        bool     `json:"success"`
	MergedCount    int      `json:"mergedCount"`
	FailedEntryIDs []string `json:"failedEntryIds,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// Merge POST /v0/account/merge
func (h *AccountHandler) Merge(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no authenticated user")
		return
	}
	if user.IsAnonymous() {
		respond.WriteError(w, http.StatusForbidden, "merge requires a signed-in account")
		return
	}

	var req struct {
		GuestUserID string   `json:"guestUserId"`
		EntryIDs    []string `json:"entryIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.MergeRequest(req.GuestUserID, req.EntryIDs); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	res, err := h.identity.MergeGuestEntries(r.Context(), auth.TokenFrom(r.Context()),
		req.GuestUserID, user.UserID, req.EntryIDs)
	if err != nil {
		if res == nil {
			respond.WriteInternalError(w, err.Error())
			return
		}
		// Partial failure: report outcome with 200 so the client can act
		// on the per-entry detail instead of a blanket transport error.
		respond.WriteJSON(w, http.StatusOK, MergeResponse{
			Success:        false,
			MergedCount:    res.MergedCount,
			FailedEntryIDs: res.FailedEntryIDs,
			Message:        err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, MergeResponse{Success: true, MergedCount: res.MergedCount})
}

// Wipe POST /v0/account/wipe
func (h *AccountHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryIDs []string `json:"entryIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	deleted, err := h.diary.WipeEntries(r.Context(), auth.TokenFrom(r.Context()), req.EntryIDs)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"deletedCount": deleted})
}
