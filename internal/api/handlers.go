package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/hyperengineering/attire/internal/engine"
	"github.com/hyperengineering/attire/internal/metrics"
	"github.com/hyperengineering/attire/internal/types"
	"github.com/hyperengineering/attire/internal/validation"
)

// maxBodyBytes bounds request bodies; reference images arrive inline.
const maxBodyBytes = 10 << 20

// Weather source labels reported in the debug block.
const (
	WeatherSourceOpenWeatherMap = "OpenWeatherMap"
	WeatherSourceNone           = "None"
)

// Recommender runs the recommendation engine.
type Recommender interface {
	Recommend(req types.RequestContext) (*types.RecommendationResult, error)
	RecommendWithRand(req types.RequestContext, rng engine.Rand) (*types.RecommendationResult, error)
}

// WeatherProvider resolves a location to current weather.
type WeatherProvider interface {
	Current(ctx context.Context, location string) (*types.WeatherSnapshot, error)
}

// ImageRenderer renders outfit model shots. It never fails.
type ImageRenderer interface {
	Render(ctx context.Context, req types.RenderRequest) types.RenderResult
	Provider() string
}

// CatalogReader exposes the current catalog snapshot.
type CatalogReader interface {
	Items() []types.ClothingItem
	Len() int
}

// ProfileCounter reports the size of the profile table.
type ProfileCounter interface {
	Len() int
}

// Defaults are applied to omitted request fields before validation.
type Defaults struct {
	Mode       types.Mode
	MaxResults int
}

// Deps wires a Handler. Weather may be nil, in which case weather is always null.
type Deps struct {
	Engine            Recommender
	Weather           WeatherProvider
	Renderer          ImageRenderer
	Catalog           CatalogReader
	Profiles          ProfileCounter
	Defaults          Defaults
	APIKey            string
	Version           string
	RequestsPerMinute int
}

// Handler implements the API handlers
type Handler struct {
	engine            Recommender
	weather           WeatherProvider
	renderer          ImageRenderer
	catalog           CatalogReader
	profiles          ProfileCounter
	defaults          Defaults
	apiKey            string
	version           string
	requestsPerMinute int
}

// NewHandler creates a new Handler from its dependencies.
func NewHandler(d Deps) *Handler {
	if d.Defaults.Mode == "" {
		d.Defaults.Mode = types.ModeHybrid
	}
	if d.Defaults.MaxResults == 0 {
		d.Defaults.MaxResults = 5
	}
	return &Handler{
		engine:            d.Engine,
		weather:           d.Weather,
		renderer:          d.Renderer,
		catalog:           d.Catalog,
		profiles:          d.Profiles,
		defaults:          d.Defaults,
		apiKey:            d.APIKey,
		version:           d.Version,
		requestsPerMinute: d.RequestsPerMinute,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := types.HealthResponse{
		Status:       "healthy",
		Version:      h.version,
		CatalogItems: h.catalog.Len(),
		Profiles:     h.profiles.Len(),
		Renderer:     h.renderer.Provider(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// Catalog handles GET /api/v1/catalog. An optional gender query narrows the list
// to items the engine could offer that gender, unisex included.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Items()

	if gender := strings.ToLower(r.URL.Query().Get("gender")); gender != "" {
		if err := validation.ValidateEnum("gender", gender, validation.ValidGenders); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
			return
		}
		filtered := make([]types.ClothingItem, 0, len(items))
		for _, item := range items {
			if engine.GenderCompatible(item.Gender, gender) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	writeJSON(w, http.StatusOK, types.CatalogResponse{Count: len(items), Items: items})
}

// Recommend handles POST /api/v1/recommend
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var body types.RecommendRequest
	if !decodeBody(w, r, &body) {
		return
	}

	snap, source := ResolveWeather(r.Context(), h.weather, body.Location)
	req := body.Context(snap, h.defaults.Mode, h.defaults.MaxResults)

	start := time.Now()
	var (
		result *types.RecommendationResult
		err    error
	)
	if seed, ok := SeedFromContext(r.Context()); ok {
		result, err = h.engine.RecommendWithRand(req, engine.NewSeededRand(seed))
	} else {
		result, err = h.engine.Recommend(req)
	}
	metrics.RecommendationLatency.WithLabelValues(string(req.Mode)).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, engine.ErrInvalidRequest) {
			metrics.RecommendationsTotal.WithLabelValues(string(req.Mode), metrics.OutcomeInvalid).Inc()
		} else {
			metrics.RecommendationsTotal.WithLabelValues(string(req.Mode), metrics.OutcomeFailure).Inc()
			slog.Error("recommendation failed", "component", "api", "error", err)
		}
		MapError(w, r, err)
		return
	}

	metrics.RecommendationsTotal.WithLabelValues(string(req.Mode), metrics.OutcomeSuccess).Inc()
	metrics.RecommendedItems.WithLabelValues(string(types.SourceCatalog)).Add(float64(len(result.Recommendations) - result.Analytics.GeneratedCount))
	metrics.RecommendedItems.WithLabelValues(string(types.SourceGenerated)).Add(float64(result.Analytics.GeneratedCount))

	slog.Info("recommendation served",
		"component", "api",
		"mode", req.Mode,
		"retrieved_count", result.Analytics.RetrievedCount,
		"generated_count", result.Analytics.GeneratedCount,
		"time_ms", result.Analytics.TimeMS,
		"weather_source", source,
	)

	writeJSON(w, http.StatusOK, types.RecommendResponse{
		Weather:         snap,
		Recommendations: result.Recommendations,
		Analytics:       result.Analytics,
		Debug: types.RecommendDebug{
			Mode:          req.Mode,
			WeatherSource: source,
		},
	})
}

// RenderImage handles POST /api/v1/render-image
func (h *Handler) RenderImage(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ValidateRenderRequest(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	writeJSON(w, http.StatusOK, h.renderer.Render(r.Context(), req))
}

// ResolveWeather looks up weather for a location. A nil provider, a blank
// location or any lookup failure yields null weather with source None.
func ResolveWeather(ctx context.Context, wp WeatherProvider, location string) (*types.WeatherSnapshot, string) {
	location = strings.TrimSpace(location)
	if location == "" || wp == nil {
		return nil, WeatherSourceNone
	}

	snap, err := wp.Current(ctx, location)
	if err != nil {
		slog.Warn("weather lookup failed, continuing without weather",
			"component", "api",
			"location", location,
			"error", err,
		)
		return nil, WeatherSourceNone
	}
	return snap, WeatherSourceOpenWeatherMap
}

// decodeBody decodes a JSON body, writing a problem response on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteProblem(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		WriteProblem(w, r, http.StatusBadRequest, "Failed to read request body")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "component", "api", "error", err)
	}
}
