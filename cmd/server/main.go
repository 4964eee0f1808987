package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lecture-studio/internal/orchestrator"
	"lecture-studio/internal/pipeline"
	"lecture-studio/internal/platform/config"
	"lecture-studio/internal/platform/logger"
	"lecture-studio/internal/platform/metrics"
	"lecture-studio/internal/timeline"

	"github.com/go-chi/chi/v5"
)

const (
	shutdownTimeout = 10 * time.Second
	// renderDrainTimeout bounds how long in-flight renders may finish after
	// the listener has closed.
	renderDrainTimeout = 2 * time.Minute
	cleanInterval      = time.Hour
)

func main() {
	_ = config.Load()
	settings := config.FromEnv()

	log := logger.New(settings.LogLevel, settings.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store orchestrator.Store = orchestrator.NewInMemoryStore()
	if settings.RedisAddr != "" {
		client, err := orchestrator.NewRedisClient(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB)
		if err != nil {
			log.Error("redis unavailable", "addr", settings.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		store = orchestrator.NewRedisStore(client, settings.RedisJobTTL)
	}
	repo := orchestrator.NewInMemoryRepositoryWithStore(store)

	encoder := timeline.FFmpegEncoder{Bin: settings.FFmpegPath, Log: log}
	pipe := pipeline.New(pipeline.ConfigFromSettings(settings), pipeline.GeneratorFromSettings(settings), encoder, log)

	met := metrics.New()
	svc := orchestrator.NewService(repo, pipe, timeline.FFProbe{Bin: settings.FFprobePath}, log, met)
	h := orchestrator.NewHandler(svc, log)

	go cleanLoop(ctx, settings, log)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetActiveRenders(svc.ActiveRenders(r.Context())) }).ServeHTTP(w, r)
	})
	h.Routes(r)

	addr := ":" + settings.Port
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", settings.Port,
		"output_dir", settings.OutputDir,
		"image_generation", settings.OpenAIKey != "",
		"redis", settings.RedisAddr != "",
		"log_level", settings.LogLevel,
	)

	<-ctx.Done()
	log.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), renderDrainTimeout)
	defer cancelDrain()
	if err := svc.Shutdown(drainCtx); err != nil {
		log.Warn("renders cancelled before completion", "error", err)
	}

	log.Info("server stopped")
}

// cleanLoop removes stale videos at startup and then once per cleanInterval.
func cleanLoop(ctx context.Context, settings config.Settings, log *slog.Logger) {
	dirs := []string{settings.OutputDir}
	clean := func() {
		n, err := pipeline.CleanOldFiles(dirs, settings.MaxFileAge, time.Now(), log)
		if err != nil {
			log.Warn("cleanup incomplete", "error", err)
		}
		if n > 0 {
			log.Info("removed old files", "count", n)
		}
	}

	clean()
	ticker := time.NewTicker(cleanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clean()
		}
	}
}
