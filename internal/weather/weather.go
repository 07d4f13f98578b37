// Package weather resolves a location to current conditions via OpenWeatherMap.
//
// Calls are paced by a token bucket and guarded by a circuit breaker so a
// failing upstream degrades quickly. Callers treat any error as "no weather".
package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/hyperengineering/attire/internal/metrics"
	"github.com/hyperengineering/attire/internal/types"
)

// DefaultBaseURL is the OpenWeatherMap current weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

const breakerName = "weather"

var (
	ErrNotConfigured    = errors.New("weather provider not configured")
	ErrLocationNotFound = errors.New("location not found")
	ErrUnavailable      = errors.New("weather provider unavailable")
)

// Config holds client settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration
	HTTPClient     *http.Client
}

// Client fetches current weather.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*types.WeatherSnapshot]
	logger  *slog.Logger
}

// NewClient builds a client. Zero values in cfg take defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := slog.Default().With("component", "weather")
	threshold := cfg.FailureThreshold

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*types.WeatherSnapshot](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// An unknown city is a caller problem, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrLocationNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	perMinute := cfg.RequestsPerMinute
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		cb:      cb,
		logger:  logger,
	}
}

// Current returns the weather for a free-form location such as "Paris" or "Mumbai,IN".
func (c *Client) Current(ctx context.Context, location string) (*types.WeatherSnapshot, error) {
	if c.apiKey == "" {
		metrics.WeatherLookups.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil, ErrNotConfigured
	}
	if location == "" {
		return nil, ErrLocationNotFound
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.WeatherLookups.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	start := time.Now()
	snap, err := c.cb.Execute(func() (*types.WeatherSnapshot, error) {
		return c.fetch(ctx, location)
	})
	metrics.WeatherLatency.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.WeatherLookups.WithLabelValues(metrics.OutcomeSuccess).Inc()
		return snap, nil
	case errors.Is(err, ErrLocationNotFound):
		metrics.WeatherLookups.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.WeatherLookups.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		metrics.WeatherLookups.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, err
	}
}

// currentResponse is the subset of the OpenWeatherMap payload we read.
type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

func (c *Client) fetch(ctx context.Context, location string) (*types.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	snap := &types.WeatherSnapshot{
		Temp:      body.Main.Temp,
		Humidity:  body.Main.Humidity,
		WindSpeed: body.Wind.Speed,
		City:      body.Name,
		Country:   body.Sys.Country,
	}
	if len(body.Weather) > 0 {
		snap.Condition = body.Weather[0].Main
		snap.Description = body.Weather[0].Description
	}
	return snap, nil
}

// State returns the breaker state for health reporting.
func (c *Client) State() string {
	return c.cb.State().String()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
