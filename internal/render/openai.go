package render

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hyperengineering/attire/internal/types"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "dall-e-3"

var _ Renderer = (*OpenAI)(nil)

// ImagesService defines the interface for making image generation calls.
// This abstraction enables testing without calling the real OpenAI API.
type ImagesService interface {
	Generate(ctx context.Context, params openai.ImageGenerateParams, opts ...option.RequestOption) (*openai.ImagesResponse, error)
}

// OpenAI renders each angle with an image generation call.
type OpenAI struct {
	images ImagesService
	model  openai.ImageModel
}

// NewOpenAI creates an OpenAI renderer. An empty key yields a renderer that
// always returns ErrNotConfigured.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	o := &OpenAI{model: openai.ImageModel(model)}
	if apiKey != "" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		o.images = client.Images
	}
	return o
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Render(ctx context.Context, req types.RenderRequest) (types.RenderResult, error) {
	if o.images == nil {
		return types.RenderResult{}, ErrNotConfigured
	}

	prompt := Prompt(req)
	var result types.RenderResult
	shots := []struct {
		dest   *string
		prompt string
	}{
		{&result.Front, prompt},
		{&result.Side, prompt + sideSuffix},
		{&result.Angle, prompt + angleSuffix},
	}

	for _, shot := range shots {
		u, err := o.generate(ctx, shot.prompt)
		if err != nil {
			return types.RenderResult{}, err
		}
		*shot.dest = u
	}
	return result, nil
}

func (o *OpenAI) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: openai.F(prompt),
		Model:  openai.F(o.model),
		N:      openai.F(int64(1)),
		Size:   openai.F(openai.ImageGenerateParamsSize1024x1792),
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation failed: no image returned")
	}
	return resp.Data[0].URL, nil
}
