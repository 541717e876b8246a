package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/mediahub/internal/handler"
	"github.com/msomdec/mediahub/internal/repository/sqlite"
	"github.com/msomdec/mediahub/internal/service"
)

const (
	testJWTSecret = "test-secret-for-handler-tests-0123456789"
	testContainer = "images"
)

// pngBytes starts with the PNG signature so content sniffing sees an image.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testServer struct {
	*httptest.Server
	db   *sqlite.DB
	auth *service.AuthService
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T, db *sqlite.DB, admins ...string) *service.AuthService {
	t.Helper()
	return service.NewAuthService(db.Users(), service.AuthOptions{
		Secret:         testJWTSecret,
		Issuer:         "mediahub",
		Audience:       "mediahub",
		BcryptCost:     4,
		AdminUsernames: admins,
	})
}

// newTestServer wires the full route table against SQLite with the
// database-backed blob store, the same way main does.
func newTestServer(t *testing.T, admins ...string) *testServer {
	t.Helper()
	db := newTestDB(t)
	auth := newTestAuthService(t, db, admins...)

	srv := httptest.NewUnstartedServer(nil)
	media := service.NewMediaManager(db.FileStore(), "http://"+srv.Listener.Addr().String()+"/media", testContainer, 1<<20)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:           auth,
		Photos:         service.NewPhotoService(db.Photos(), db.Albums(), db.Reactions(), media),
		Albums:         service.NewAlbumService(db.Albums(), db.Photos()),
		Reactions:      service.NewReactionService(db.Reactions(), db.Photos()),
		Media:          media,
		DB:             db,
		MaxUploadBytes: 1 << 20,
	})
	srv.Config.Handler = handler.Recover(handler.SecurityHeaders(mux))
	srv.Start()
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, db: db, auth: auth}
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// expect fails the test unless resp has the wanted status, then decodes
// the body into dst when dst is non-nil.
func expect(t *testing.T, resp *http.Response, want int, dst any) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

// signup registers username and returns a bearer token for it.
func (s *testServer) signup(t *testing.T, username string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	expect(t, resp, http.StatusCreated, nil)

	var login struct {
		Token string `json:"token"`
	}
	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	expect(t, resp, http.StatusOK, &login)
	if login.Token == "" {
		t.Fatalf("login %s: empty token", username)
	}
	return login.Token
}

func (s *testServer) uploadRaw(t *testing.T, token, filename string, data []byte, description string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(data)
	mw.WriteField("description", description)
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, s.URL+"/api/photos", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /api/photos: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) upload(t *testing.T, token, description string) handler.PhotoDTO {
	t.Helper()
	var photo handler.PhotoDTO
	expect(t, s.uploadRaw(t, token, "pic.png", pngBytes, description), http.StatusCreated, &photo)
	return photo
}
