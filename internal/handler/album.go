package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/service"
)

// AlbumHandler serves the album endpoints.
type AlbumHandler struct {
	albums *service.AlbumService
	photos *service.PhotoService
}

// NewAlbumHandler creates a new AlbumHandler.
func NewAlbumHandler(albums *service.AlbumService, photos *service.PhotoService) *AlbumHandler {
	return &AlbumHandler{albums: albums, photos: photos}
}

type albumRequest struct {
	Title string `json:"title"`
}

type photoIDsRequest struct {
	PhotoIDs []uuid.UUID `json:"photoIds"`
}

// HandleList returns all albums, or those with an exact title.
// GET /api/albums[?title=]
func (h *AlbumHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		albums []domain.Album
		err    error
	)
	if title := r.URL.Query().Get("title"); title != "" {
		albums, err = h.albums.FindAlbumsByTitle(r.Context(), title)
	} else {
		albums, err = h.albums.ListAlbums(r.Context())
	}
	if err != nil {
		writeServiceError(w, "list albums", err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumDTOs(albums))
}

// HandleListMine returns the caller's albums.
// GET /api/albums/mine
func (h *AlbumHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.ListUserAlbums(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, "list user albums", err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumDTOs(albums))
}

// HandleGet returns an album with its photos.
// GET /api/albums/{id}
func (h *AlbumHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	album, err := h.albums.GetAlbum(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get album", err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumDTO(album))
}

// HandlePhotos returns one page of an album's photos.
// GET /api/albums/{id}/photos?page=&pageSize=
func (h *AlbumHandler) HandlePhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	page, size := pageParams(r)
	result, err := h.photos.ListAlbumPhotos(r.Context(), id, page, size)
	if err != nil {
		writeServiceError(w, "list album photos", err)
		return
	}
	writeJSON(w, http.StatusOK, toPhotoPageDTO(result))
}

// HandleCreate creates an album for the caller.
// POST /api/albums {"title":"..."}
func (h *AlbumHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	album, err := h.albums.CreateAlbum(r.Context(), IdentityFromContext(r.Context()), req.Title)
	if err != nil {
		writeServiceError(w, "create album", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAlbumDTO(album))
}

// HandleUpdate renames an album.
// PUT /api/albums/{id} {"title":"..."}
func (h *AlbumHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req albumRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	album, err := h.albums.UpdateAlbum(r.Context(), IdentityFromContext(r.Context()), id, req.Title)
	if err != nil {
		writeServiceError(w, "update album", err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumDTO(album))
}

// HandleAddPhotos files photos under the album.
// PUT /api/albums/{id}/photos/add {"photoIds":[...]}
func (h *AlbumHandler) HandleAddPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req photoIDsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	album, err := h.albums.AddPhotosToAlbum(r.Context(), IdentityFromContext(r.Context()), id, req.PhotoIDs)
	if err != nil {
		writeServiceError(w, "add photos to album", err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumDTO(album))
}

// HandleRemovePhotos unfiles photos from the album.
// PUT /api/albums/{id}/photos/remove {"photoIds":[...]}
func (h *AlbumHandler) HandleRemovePhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req photoIDsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	removed, err := h.albums.RemovePhotosFromAlbum(r.Context(), IdentityFromContext(r.Context()), id, req.PhotoIDs)
	if err != nil {
		writeServiceError(w, "remove photos from album", err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

// HandleDelete deletes an album; its photos are kept.
// DELETE /api/albums/{id}
func (h *AlbumHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.albums.DeleteAlbum(r.Context(), IdentityFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, "delete album", err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}
