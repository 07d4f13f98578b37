// Package engine recommends clothing for a request context. It filters the
// catalog, scores the survivors, and synthesizes stand-in items when the
// catalog falls short.
//
// The engine is pure: it holds no mutable state, performs no I/O, and is safe
// for concurrent use. Randomness and ids are created per call.
package engine

import (
	"time"

	"github.com/hyperengineering/attire/internal/types"
	"github.com/hyperengineering/attire/internal/validation"
)

// Catalog exposes the current, read-only catalog snapshot.
type Catalog interface {
	Items() []types.ClothingItem
}

// Profiles resolves a country code to its cultural style profile.
type Profiles interface {
	Lookup(country string) (types.StyleProfile, bool)
}

// Engine runs the retrieve → score → synthesize pipeline.
type Engine struct {
	catalog  Catalog
	profiles Profiles
	newRand  func() Rand
	newIDs   func(now time.Time) IDGenerator
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandSource replaces the per-call random source factory.
func WithRandSource(fn func() Rand) Option {
	return func(e *Engine) { e.newRand = fn }
}

// WithIDGenerator replaces the per-call synthetic id generator factory.
func WithIDGenerator(fn func(now time.Time) IDGenerator) Option {
	return func(e *Engine) { e.newIDs = fn }
}

// WithClock replaces the wall clock used for ids and timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine over a catalog and profile table.
func New(catalog Catalog, profiles Profiles, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		profiles: profiles,
		newRand:  newRandomRand,
		newIDs:   newULIDGenerator,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend validates the request and produces at most MaxResults recommendations.
// Invalid requests return a *RequestError matching ErrInvalidRequest.
func (e *Engine) Recommend(req types.RequestContext) (*types.RecommendationResult, error) {
	return e.RecommendWithRand(req, e.newRand())
}

// RecommendWithRand is Recommend with an explicit random source.
func (e *Engine) RecommendWithRand(req types.RequestContext, rng Rand) (*types.RecommendationResult, error) {
	if errs := validation.ValidateRecommendRequest(req); len(errs) > 0 {
		return nil, &RequestError{Errors: errs}
	}

	start := e.now()
	c := newCriteria(req)
	profile := e.lookupProfile(req.Weather)

	retrieved := retrieve(e.catalog.Items(), c)
	recs := score(retrieved, c, profile, rng)

	synth := synthesizer{c: c, profile: profile, rng: rng, ids: e.newIDs(start)}
	switch req.Mode {
	case types.ModeGenerative:
		recs = synth.generate(req.MaxResults)
	case types.ModeHybrid:
		if shortfall := req.MaxResults - len(recs); shortfall > 0 {
			recs = append(recs, synth.generate(shortfall)...)
		}
	}

	if len(recs) > req.MaxResults {
		recs = recs[:req.MaxResults]
	}

	generated := 0
	for _, r := range recs {
		if r.Source == types.SourceGenerated {
			generated++
		}
	}

	return &types.RecommendationResult{
		Recommendations: recs,
		Analytics: types.Analytics{
			RetrievedCount: len(retrieved),
			GeneratedCount: generated,
			TimeMS:         e.now().Sub(start).Milliseconds(),
		},
	}, nil
}

func (e *Engine) lookupProfile(w *types.WeatherSnapshot) *types.StyleProfile {
	if w == nil || w.Country == "" || e.profiles == nil {
		return nil
	}
	p, ok := e.profiles.Lookup(w.Country)
	if !ok {
		return nil
	}
	return &p
}
