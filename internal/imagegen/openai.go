package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is the image model used when none is configured.
const DefaultModel = "dall-e-3"

// OpenAI generates images with the OpenAI Images API.
type OpenAI struct {
	client openai.Client
	model  string
	apiKey string
}

// NewOpenAI returns a generator for apiKey. An empty apiKey yields a
// generator that reports itself unavailable. Extra options (base URL,
// headers) are passed through to the client.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{
		client: openai.NewClient(clientOpts...),
		model:  model,
		apiKey: apiKey,
	}
}

// Available implements Generator.Available.
func (g *OpenAI) Available() bool {
	return g != nil && g.apiKey != ""
}

// Generate implements Generator.Generate. The image is requested as base64
// so no second download is needed.
func (g *OpenAI) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(g.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai images: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode b64_json: %w", err)
	}
	return data, nil
}
