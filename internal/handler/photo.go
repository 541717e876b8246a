package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/service"
)

// PhotoHandler serves the photo endpoints.
type PhotoHandler struct {
	photos    *service.PhotoService
	reactions *service.ReactionService
	maxUpload int64
}

// NewPhotoHandler creates a new PhotoHandler. maxUpload bounds the size of
// an uploaded file.
func NewPhotoHandler(photos *service.PhotoService, reactions *service.ReactionService, maxUpload int64) *PhotoHandler {
	return &PhotoHandler{photos: photos, reactions: reactions, maxUpload: maxUpload}
}

// HandleUpload stores a multipart upload as a new photo.
// POST /api/photos (multipart: file, description)
func (h *PhotoHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope and the description field.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeServiceError(w, "read upload", err)
		return
	}

	upload := domain.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	photo, err := h.photos.AddPhoto(r.Context(), IdentityFromContext(r.Context()), upload, r.FormValue("description"))
	if err != nil {
		writeServiceError(w, "upload photo", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPhotoDTO(photo))
}

// HandleGet returns a photo with its reactions.
// GET /api/photos/{id}
func (h *PhotoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	photo, err := h.photos.GetPhoto(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get photo", err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoDTO(photo))
}

// HandleUpdate changes a photo's description.
// PUT /api/photos/{id} {"description":"..."}
func (h *PhotoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	identity := IdentityFromContext(r.Context())
	photo, err := h.photos.UpdatePhoto(r.Context(), identity, &domain.Photo{
		ID:          id,
		UserID:      identity.UserID,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, "update photo", err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoDTO(photo))
}

// HandleDelete removes a photo and its content.
// DELETE /api/photos/{id}
func (h *PhotoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.photos.DeletePhoto(r.Context(), IdentityFromContext(r.Context()), id); err != nil {
		writeServiceError(w, "delete photo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleList returns a page of all photos.
// GET /api/photos?page=&pageSize=
func (h *PhotoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.photos.ListPhotos(r.Context(), page, size)
	if err != nil {
		writeServiceError(w, "list photos", err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoPageDTO(result))
}

// HandleListMine returns a page of the caller's photos.
// GET /api/photos/mine?page=&pageSize=
func (h *PhotoHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.photos.ListUserPhotos(r.Context(), IdentityFromContext(r.Context()), page, size)
	if err != nil {
		writeServiceError(w, "list user photos", err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoPageDTO(result))
}

// HandleReactionCounts returns like/dislike totals.
// GET /api/photos/{id}/reactions/count
func (h *PhotoHandler) HandleReactionCounts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	counts, err := h.reactions.CountReactions(r.Context(), id)
	if err != nil {
		writeServiceError(w, "count reactions", err)
		return
	}
	writeJSON(w, http.StatusOK, ReactionCountsDTO{LikesCount: counts.Likes, DislikesCount: counts.Dislikes})
}

// HandleReactions lists the reactions on a photo.
// GET /api/photos/{id}/reactions
func (h *PhotoHandler) HandleReactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reactions, err := h.reactions.ListPhotoReactions(r.Context(), id)
	if err != nil {
		writeServiceError(w, "list photo reactions", err)
		return
	}
	writeJSON(w, http.StatusOK, toReactionDTOs(reactions))
}
