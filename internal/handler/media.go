package handler

import (
	"net/http"
	"strconv"

	"github.com/msomdec/mediahub/internal/service"
)

// MediaHandler serves stored photo bytes at the URLs handed out on upload.
type MediaHandler struct {
	media *service.MediaManager
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media *service.MediaManager) *MediaHandler {
	return &MediaHandler{media: media}
}

// HandleServe writes the blob stored under the request key.
// GET /media/{container}/{key...}
func (h *MediaHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("container") != h.media.Container() {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	blob, err := h.media.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, "serve media", err)
		return
	}

	// Keys are never reused, so the content is immutable.
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}
