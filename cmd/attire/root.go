package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/attire/internal/api"
	"github.com/hyperengineering/attire/internal/catalog"
	"github.com/hyperengineering/attire/internal/config"
	"github.com/hyperengineering/attire/internal/engine"
	"github.com/hyperengineering/attire/internal/metrics"
	"github.com/hyperengineering/attire/internal/profile"
	"github.com/hyperengineering/attire/internal/render"
	"github.com/hyperengineering/attire/internal/types"
	"github.com/hyperengineering/attire/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "attire",
	Short: "Attire - weather and culture aware outfit recommendations",
	RunE:  run,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(recommendCmd)
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded")

	// 3. Initialize logger
	slog.SetDefault(newLogger(os.Stdout, cfg.Log))
	slog.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	// 4. Load style profiles
	profiles, err := profile.LoadFile(cfg.Profiles.Path)
	if err != nil {
		return err
	}
	slog.Info("profiles loaded", "count", profiles.Len(), "codes", profiles.Codes())

	// 5. Load catalog snapshot
	loader, closeSource, err := catalogSource(cfg)
	if err != nil {
		return err
	}
	cat, err := catalog.Load(ctx, loader)
	if err != nil {
		closeSource()
		return fmt.Errorf("load catalog from %s: %w", loader.Describe(), err)
	}
	metrics.CatalogItems.Set(float64(cat.Len()))
	slog.Info("catalog loaded", "source", loader.Describe(), "items", cat.Len())

	// 6. Initialize engine and collaborators
	eng := engine.New(cat, profiles)
	weatherClient := weatherProvider(cfg.Weather)
	if weatherClient == nil {
		slog.Warn("OPENWEATHER_API_KEY not set, recommendations will run without weather")
	}
	renderer := render.NewService(imageRenderer(cfg.Render))
	slog.Info("renderer initialized", "provider", renderer.Provider())

	// 7. Initialize HTTP router
	handler := api.NewHandler(api.Deps{
		Engine:   eng,
		Weather:  weatherClient,
		Renderer: renderer,
		Catalog:  cat,
		Profiles: profiles,
		Defaults: api.Defaults{
			Mode:       types.Mode(cfg.Engine.DefaultMode),
			MaxResults: cfg.Engine.DefaultMaxResults,
		},
		APIKey:            cfg.Auth.APIKey,
		Version:           Version,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
	})
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 8. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 9. Background workers
	var wg sync.WaitGroup
	if interval := time.Duration(cfg.Catalog.ReloadInterval); interval > 0 {
		reloader := worker.NewCatalogReloadWorker(loader, cat, interval)
		startWorker(ctx, &wg, "catalog-reload", reloader.Run)
	}

	// 10. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel() // Trigger shutdown on server failure
		}
	}()

	// 11. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 12. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 12a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 12b. Wait for workers to complete
	wg.Wait()

	// 12c. Close catalog source
	if err := closeSource(); err != nil {
		slog.Error("catalog source close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
