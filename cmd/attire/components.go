package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/hyperengineering/attire/internal/api"
	"github.com/hyperengineering/attire/internal/catalog"
	"github.com/hyperengineering/attire/internal/config"
	"github.com/hyperengineering/attire/internal/render"
	"github.com/hyperengineering/attire/internal/store"
	"github.com/hyperengineering/attire/internal/weather"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger builds the process logger. Format "text" is for local use; anything else is JSON.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// catalogSource resolves the configured catalog loader. The returned close
// function releases the SQLite store when one was opened.
func catalogSource(cfg *config.Config) (catalog.Loader, func() error, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceSQLite:
		db, err := store.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		return catalog.StoreLoader{Store: db, Name: cfg.Database.Path}, db.Close, nil
	default:
		return catalog.FileLoader{Path: cfg.Catalog.Path}, func() error { return nil }, nil
	}
}

// weatherProvider returns nil when no OpenWeatherMap key is configured.
func weatherProvider(cfg config.WeatherConfig) api.WeatherProvider {
	if cfg.APIKey == "" {
		return nil
	}
	return weather.NewClient(weather.Config{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           time.Duration(cfg.Timeout),
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
}

func imageRenderer(cfg config.RenderConfig) render.Renderer {
	if cfg.Provider == config.RenderProviderOpenAI {
		return render.NewOpenAI(cfg.APIKey, cfg.Model)
	}
	return render.NewPollinations()
}

// openStore opens the catalog store for the catalog subcommands.
// --db wins over ATTIRE_DB_PATH and the config file.
func openStore() (*store.SQLiteStore, error) {
	path := catalogDBOverride
	if path == "" {
		cfg, err := config.LoadLocal()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		path = cfg.Database.Path
	}
	return store.NewSQLiteStore(path)
}

// printJSON marshals v to indented JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads a file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
