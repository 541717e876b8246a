package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/mediahub/internal/config"
	"github.com/msomdec/mediahub/internal/domain"
	"github.com/msomdec/mediahub/internal/handler"
	"github.com/msomdec/mediahub/internal/repository/memory"
	"github.com/msomdec/mediahub/internal/repository/minio"
	"github.com/msomdec/mediahub/internal/repository/postgres"
	"github.com/msomdec/mediahub/internal/repository/sqlite"
	"github.com/msomdec/mediahub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, fileStore, err := openDatabase(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.DBDriver)

	blobs, err := openBlobStore(ctx, cfg, fileStore)
	if err != nil {
		slog.Error("failed to open blob store", "backend", cfg.BlobBackend, "error", err)
		os.Exit(1)
	}
	slog.Info("blob store ready", "backend", cfg.BlobBackend, "container", cfg.BlobContainer)

	authService := service.NewAuthService(db.Users(), service.AuthOptions{
		Secret:         cfg.JWTSecret,
		Issuer:         cfg.JWTIssuer,
		Audience:       cfg.JWTAudience,
		TokenTTL:       cfg.TokenTTL,
		BcryptCost:     cfg.BcryptCost,
		AdminUsernames: cfg.AdminUsernames,
	})
	media := service.NewMediaManager(blobs, cfg.PublicBaseURL, cfg.BlobContainer, cfg.MaxUploadBytes)
	photoService := service.NewPhotoService(db.Photos(), db.Albums(), db.Reactions(), media)
	albumService := service.NewAlbumService(db.Albums(), db.Photos())
	reactionService := service.NewReactionService(db.Reactions(), db.Photos())

	// Ten auth attempts per client, refilled at one every six seconds.
	authLimiter := service.NewTokenBucket(ctx, 1.0/6, 10)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:           authService,
		Photos:         photoService,
		Albums:         albumService,
		Reactions:      reactionService,
		Media:          media,
		DB:             db,
		AuthLimiter:    authLimiter,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Recover(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "public_base_url", cfg.PublicBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase opens the configured relational store. For SQLite it also
// returns the database-backed blob store.
func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, domain.BlobStore, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, nil, nil
	default:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.FileStore(), nil
	}
}

func openBlobStore(ctx context.Context, cfg *config.Config, fileStore domain.BlobStore) (domain.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobMinio:
		return minio.New(ctx, minio.Options{
			Endpoint:   cfg.MinioEndpoint,
			AccessKey:  cfg.MinioRootUser,
			SecretKey:  cfg.MinioRootPassword,
			UseSSL:     cfg.MinioUseSSL,
			Bucket:     cfg.BlobContainer,
			PublicRead: cfg.MinioPublicRead,
			Attempts:   10,
			RetryDelay: 2 * time.Second,
		})
	case config.BlobMemory:
		slog.Warn("using in-memory blob store; photo content is lost on restart")
		return memory.NewBlobStore()
	default:
		return fileStore, nil
	}
}
