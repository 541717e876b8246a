package handler

import (
	"net/http"

	"github.com/msomdec/mediahub/internal/service"
)

// Deps carries everything RegisterRoutes wires into the mux.
type Deps struct {
	Auth      *service.AuthService
	Photos    *service.PhotoService
	Albums    *service.AlbumService
	Reactions *service.ReactionService
	Media     *service.MediaManager
	DB        Pinger

	// AuthLimiter throttles login and registration per client address.
	// Nil disables throttling.
	AuthLimiter *service.TokenBucket

	MaxUploadBytes int64
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authH := NewAuthHandler(d.Auth)
	photoH := NewPhotoHandler(d.Photos, d.Reactions, d.MaxUploadBytes)
	albumH := NewAlbumHandler(d.Albums, d.Photos)
	reactionH := NewReactionHandler(d.Reactions)
	mediaH := NewMediaHandler(d.Media)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(d.Auth, h)
	}

	limited := func(h http.HandlerFunc) http.Handler {
		if d.AuthLimiter == nil {
			return h
		}
		return RateLimit(d.AuthLimiter, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(d.DB))

	// Auth.
	mux.Handle("POST /api/auth/register", limited(authH.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authH.HandleLogin))
	mux.Handle("GET /api/auth/me", requireAuth(authH.HandleMe))

	// Photos.
	mux.HandleFunc("GET /api/photos", photoH.HandleList)
	mux.Handle("GET /api/photos/mine", requireAuth(photoH.HandleListMine))
	mux.Handle("POST /api/photos", requireAuth(photoH.HandleUpload))
	mux.HandleFunc("GET /api/photos/{id}", photoH.HandleGet)
	mux.Handle("PUT /api/photos/{id}", requireAuth(photoH.HandleUpdate))
	mux.Handle("DELETE /api/photos/{id}", requireAuth(photoH.HandleDelete))
	mux.HandleFunc("GET /api/photos/{id}/reactions", photoH.HandleReactions)
	mux.HandleFunc("GET /api/photos/{id}/reactions/count", photoH.HandleReactionCounts)

	// Albums.
	mux.HandleFunc("GET /api/albums", albumH.HandleList)
	mux.Handle("GET /api/albums/mine", requireAuth(albumH.HandleListMine))
	mux.Handle("POST /api/albums", requireAuth(albumH.HandleCreate))
	mux.HandleFunc("GET /api/albums/{id}", albumH.HandleGet)
	mux.Handle("PUT /api/albums/{id}", requireAuth(albumH.HandleUpdate))
	mux.Handle("DELETE /api/albums/{id}", requireAuth(albumH.HandleDelete))
	mux.HandleFunc("GET /api/albums/{id}/photos", albumH.HandlePhotos)
	mux.Handle("PUT /api/albums/{id}/photos/add", requireAuth(albumH.HandleAddPhotos))
	mux.Handle("PUT /api/albums/{id}/photos/remove", requireAuth(albumH.HandleRemovePhotos))

	// Reactions.
	mux.Handle("POST /api/reactions", requireAuth(reactionH.HandleAdd))
	mux.Handle("GET /api/reactions/mine", requireAuth(reactionH.HandleListMine))
	mux.Handle("DELETE /api/reactions/{id}", requireAuth(reactionH.HandleDelete))

	// Blob content.
	mux.HandleFunc("GET /media/{container}/{key...}", mediaH.HandleServe)
}
