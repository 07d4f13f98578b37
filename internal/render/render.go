// Package render turns an outfit description into model-shot image references.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hyperengineering/attire/internal/metrics"
	"github.com/hyperengineering/attire/internal/types"
)

const (
	DefaultGender   = types.GenderFemale
	DefaultSkinTone = "Medium"
)

// ErrNotConfigured is returned by renderers missing credentials.
var ErrNotConfigured = errors.New("renderer not configured")

// Renderer produces three camera angles for one outfit.
type Renderer interface {
	Render(ctx context.Context, req types.RenderRequest) (types.RenderResult, error)
	Name() string
}

// Placeholders is the result returned when rendering fails.
func Placeholders() types.RenderResult {
	return types.RenderResult{
		Front: "https://via.placeholder.com/400x600?text=Model+Front",
		Side:  "https://via.placeholder.com/400x600?text=Model+Side",
		Angle: "https://via.placeholder.com/400x600?text=Model+Angle",
	}
}

// Prompt builds the base image prompt, applying gender and skin tone defaults.
func Prompt(req types.RenderRequest) string {
	subject := "woman"
	if strings.EqualFold(req.GenderIdentity, types.GenderMale) {
		subject = "man"
	}
	skin := req.SkinTone
	if skin == "" {
		skin = DefaultSkinTone
	}
	return fmt.Sprintf(
		"Full body photo of a %s model with %s skin tone, %s body shape wearing %s, professional fashion photography, realistic, 8k, studio lighting, neutral background",
		subject, skin, req.BodyShape, req.OutfitDescription,
	)
}

// Angle suffixes appended to the base prompt.
const (
	sideSuffix  = ", side view"
	angleSuffix = ", 45 degree angle"
)

// OutfitDescription renders a recommendation as "{color} {name}, {style} style, {fabric} fabric".
// Empty parts are dropped.
func OutfitDescription(rec types.Recommendation) string {
	head := strings.TrimSpace(rec.Color + " " + rec.Name)
	parts := []string{head}
	if rec.Style != "" {
		parts = append(parts, rec.Style+" style")
	}
	if rec.Fabric != "" {
		parts = append(parts, rec.Fabric+" fabric")
	}
	return strings.Join(parts, ", ")
}

// Service wraps a Renderer and never fails: errors degrade to placeholders.
type Service struct {
	renderer Renderer
	logger   *slog.Logger
}

// NewService creates a Service around r.
func NewService(r Renderer) *Service {
	return &Service{
		renderer: r,
		logger:   slog.Default().With("component", "render"),
	}
}

// Render returns image references, falling back to placeholders on error.
func (s *Service) Render(ctx context.Context, req types.RenderRequest) types.RenderResult {
	provider := s.renderer.Name()
	result, err := s.renderer.Render(ctx, req)
	if err != nil {
		s.logger.Warn("render failed, using placeholders", "provider", provider, "error", err)
		metrics.Renders.WithLabelValues(provider, metrics.OutcomeFallback).Inc()
		return Placeholders()
	}
	metrics.Renders.WithLabelValues(provider, metrics.OutcomeSuccess).Inc()
	return result
}

// Provider names the underlying renderer.
func (s *Service) Provider() string {
	return s.renderer.Name()
}
