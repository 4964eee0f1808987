package slides

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"lecture-studio/internal/imagegen"
)

// conceptStrategy illustrates abstract ideas with a generated image and a
// caption band. Any generator failure is returned to the Renderer, which
// falls back to plain text.
type conceptStrategy struct {
	gen     imagegen.Generator
	timeout time.Duration
}

func conceptPrompt(text string) string {
	return fmt.Sprintf("Clean, minimal educational illustration explaining: %s. No text, flat colors, white background.",
		truncate(text, 300))
}

func (s *conceptStrategy) Render(ctx context.Context, text string, size image.Point, style Style) (image.Image, error) {
	generated, err := imagegen.Fetch(ctx, s.gen, conceptPrompt(text), s.timeout)
	if err != nil {
		return nil, err
	}

	c, err := newCanvas(size, style)
	if err != nil {
		return nil, err
	}
	c.DrawImage(normalize(generated, size), 0, 0)

	caption := pick(text, 1, 0)
	if len(caption) == 0 {
		return c.rgba(), nil
	}
	bandH := 200 * c.u
	c.SetColor(color.RGBA{0, 0, 0, 170})
	c.DrawRectangle(0, c.h-bandH, c.w, bandH)
	c.Fill()
	c.regular(34)
	c.SetColor(color.White)
	c.centered(caption[0], c.w/2, c.h-bandH/2, c.w-120*c.u, 3)
	return c.rgba(), nil
}
