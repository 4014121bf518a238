// Package main is the entry point for the family trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/family-trip-planner/internal/blob"
	"github.com/pkordes/family-trip-planner/internal/board"
	"github.com/pkordes/family-trip-planner/internal/config"
	"github.com/pkordes/family-trip-planner/internal/handler"
	"github.com/pkordes/family-trip-planner/internal/middleware"
	"github.com/pkordes/family-trip-planner/internal/planner"
	"github.com/pkordes/family-trip-planner/internal/realtime"
	"github.com/pkordes/family-trip-planner/internal/repo"
	"github.com/pkordes/family-trip-planner/internal/service"
	"github.com/pkordes/family-trip-planner/migrations"
)

// photoCacheBytes bounds diskv's in-memory read cache.
const photoCacheBytes = 32 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Cancelled on SIGINT/SIGTERM; stops the listener and the seeder.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(ctx, sqlDB)
	sqlDB.Close()
	if err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "count", applied)

	// --- Domain -----------------------------------------------------------
	cal := planner.HolidayCalendar()
	if cfg.TripWindow == config.WindowDecember {
		cal = planner.DecemberCalendar()
	}

	itineraryRepo := repo.NewItineraryRepo(pool)
	packingRepo := repo.NewPackingRepo(pool)
	photoRepo := repo.NewPhotoRepo(pool)

	b := board.New(cal, cfg.Roster, itineraryRepo, logger)
	itinerary := service.NewItineraryService(itineraryRepo, b, cal, cfg.Roster)
	packing := service.NewPackingService(packingRepo, cfg.Roster)
	photos := service.NewPhotoService(photoRepo, blob.NewStore(cfg.PhotoDir, photoCacheBytes))
	export := service.NewExportService(itinerary)

	if cfg.Seed {
		service.NewSeeder(itineraryRepo, packingRepo, cfg.Roster, logger).Seed(ctx)
	}

	// --- Live updates -----------------------------------------------------
	// Every write, from any process, comes back through LISTEN/NOTIFY and is
	// pushed to all connected browsers as a full snapshot.
	hub := realtime.NewHub(logger, cfg.CORSOrigins)
	live := service.NewLiveSync(b, packing, photos, hub, logger)
	hub.OnConnect(live.Greeting)

	listener := repo.NewListener(pool, logger, repo.ChannelItinerary, repo.ChannelPacking, repo.ChannelPhotos)
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		if err := listener.Run(ctx, live.Handle); err != nil {
			slog.Error("listener stopped", "error", err)
		}
	}()

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes))

	uploads := middleware.NewRateLimiter(cfg.UploadsPerMinute, cfg.UploadBurst)
	api := handler.NewServer(itinerary, packing, photos, export, hub, uploads.Limit, logger)
	r.Mount("/", api.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown does not wait for hijacked websocket connections.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	<-listenerDone
	slog.Info("server stopped")
}
