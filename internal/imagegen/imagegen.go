// Package imagegen is the boundary to external text-to-image services.
//
// Callers treat every failure here as recoverable: Fetch maps transport
// errors, timeouts and undecodable payloads to lecture.ErrExternalService so
// the caller can switch to its procedural fallback.
package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"lecture-studio/internal/lecture"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 30 * time.Second

// ErrEmptyResponse is returned when a service answers without image data.
var ErrEmptyResponse = errors.New("empty image response")

// Generator turns a prompt into encoded image bytes.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)

	// Available reports whether the service is configured. Renderers use it
	// to pick the procedural strategy up front instead of failing per call.
	Available() bool
}

// Disabled is a Generator for deployments without an image service.
type Disabled struct{}

// Generate implements Generator.Generate.
func (Disabled) Generate(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("%w: image generation disabled", lecture.ErrExternalService)
}

// Available implements Generator.Available.
func (Disabled) Available() bool { return false }

// Fetch calls gen with an explicit timeout and decodes the result. Any
// failure, including a timeout, is wrapped with lecture.ErrExternalService.
func Fetch(ctx context.Context, gen Generator, prompt string, timeout time.Duration) (image.Image, error) {
	if gen == nil || !gen.Available() {
		return nil, fmt.Errorf("%w: no image generator", lecture.ErrExternalService)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", lecture.ErrExternalService, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", lecture.ErrExternalService, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", lecture.ErrExternalService, ErrEmptyResponse)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", lecture.ErrExternalService, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %w", lecture.ErrExternalService, ErrEmptyResponse)
	}
	return img, nil
}
