package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/service"
)

// ReactionHandler serves the reaction endpoints.
type ReactionHandler struct {
	reactions *service.ReactionService
}

// NewReactionHandler creates a new ReactionHandler.
func NewReactionHandler(reactions *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// HandleAdd records the caller's reaction, replacing any earlier one on the
// same photo.
// POST /api/reactions {"type":"like|dislike","photoId":"..."}
func (h *ReactionHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type    string    `json:"type"`
		PhotoID uuid.UUID `json:"photoId"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	reaction, err := h.reactions.AddReaction(r.Context(), IdentityFromContext(r.Context()), domain.ReactionType(req.Type), req.PhotoID)
	if err != nil {
		writeServiceError(w, "add reaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReactionDTO(reaction))
}

// HandleDelete removes a reaction authored by the caller.
// DELETE /api/reactions/{id}
func (h *ReactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.reactions.DeleteReaction(r.Context(), IdentityFromContext(r.Context()), id); err != nil {
		writeServiceError(w, "delete reaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListMine returns the caller's reactions.
// GET /api/reactions/mine
func (h *ReactionHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	reactions, err := h.reactions.ListUserReactions(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, "list user reactions", err)
		return
	}
	writeJSON(w, http.StatusOK, toReactionDTOs(reactions))
}
