package render

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/hyperengineering/attire/internal/types"
)

// DefaultPollinationsURL is the keyless image endpoint.
const DefaultPollinationsURL = "https://image.pollinations.ai/prompt/"

var _ Renderer = (*Pollinations)(nil)

// Pollinations builds keyless image URLs. The image is generated when the URL is fetched,
// so all three angles share one seed to keep the model consistent.
type Pollinations struct {
	baseURL string
	seed    func() int
}

// PollinationsOption configures a Pollinations renderer.
type PollinationsOption func(*Pollinations)

// WithSeedSource overrides the seed generator.
func WithSeedSource(seed func() int) PollinationsOption {
	return func(p *Pollinations) { p.seed = seed }
}

// WithBaseURL overrides the endpoint prefix.
func WithBaseURL(base string) PollinationsOption {
	return func(p *Pollinations) { p.baseURL = base }
}

// NewPollinations creates a Pollinations renderer.
func NewPollinations(opts ...PollinationsOption) *Pollinations {
	p := &Pollinations{
		baseURL: DefaultPollinationsURL,
		seed:    func() int { return rand.IntN(100000) },
	}
	for _, opt := range opts {
		opt(p)
	}
	if !strings.HasSuffix(p.baseURL, "/") {
		p.baseURL += "/"
	}
	return p
}

func (p *Pollinations) Name() string { return "pollinations" }

func (p *Pollinations) Render(ctx context.Context, req types.RenderRequest) (types.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return types.RenderResult{}, err
	}
	prompt := Prompt(req)
	seed := p.seed()
	return types.RenderResult{
		Front: p.url(prompt, seed),
		Side:  p.url(prompt+sideSuffix, seed),
		Angle: p.url(prompt+angleSuffix, seed),
	}, nil
}

func (p *Pollinations) url(prompt string, seed int) string {
	return fmt.Sprintf("%s%s?seed=%d", p.baseURL, url.PathEscape(prompt), seed)
}
