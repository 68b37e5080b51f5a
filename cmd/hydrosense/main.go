package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/hydrosense/internal/api"
	"github.com/mr1hm/hydrosense/internal/config"
	"github.com/mr1hm/hydrosense/internal/dashboard"
	"github.com/mr1hm/hydrosense/internal/fixtures"
	"github.com/mr1hm/hydrosense/internal/logging"
	"github.com/mr1hm/hydrosense/internal/notify"
	"github.com/mr1hm/hydrosense/internal/repository"
	"github.com/mr1hm/hydrosense/internal/wizard"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "provider", cfg.Data.Provider)

	ds, err := fixtures.Load()
	if err != nil {
		logging.Fatalf("Failed to load fixtures: %v", err)
	}

	repo, err := openProvider(cfg.Data, ds)
	if err != nil {
		logging.Fatalf("Failed to initialize data provider: %v", err)
	}
	defer repo.Close()

	broadcaster := notify.NewBroadcaster()
	svc := dashboard.NewService(repo, broadcaster)
	drafts := wizard.NewDrafts(broadcaster, cfg.Wizard.DraftTTL)

	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(svc, drafts, broadcaster, api.Options{
		RedirectDelay:  cfg.Wizard.RedirectDelay,
		DraftTTL:       cfg.Wizard.DraftTTL,
		AllowedOrigins: cfg.Server.CORSOrigins,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	broadcaster.Close() // ends open notification streams

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func openProvider(cfg config.DataConfig, ds *fixtures.Dataset) (repository.Provider, error) {
	if cfg.Provider != config.ProviderSQLite {
		return repository.NewMemoryStore(ds), nil
	}

	db, err := repository.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.Seed(context.Background(), ds); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("seeded sqlite provider", "path", cfg.DBPath)
	return db, nil
}
