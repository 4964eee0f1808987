package slides

import (
	"context"
	"image"
)

const maxParagraphs = 3

// renderPlainText is also the fallback for every other strategy, so it
// must not depend on anything beyond the embedded fonts.
func renderPlainText(_ context.Context, text string, size image.Point, style Style) (image.Image, error) {
	c, err := newCanvas(size, style)
	if err != nil {
		return nil, err
	}
	margin := 80 * c.u

	c.SetColor(style.Accent)
	c.DrawRectangle(margin, margin, 14*c.u, c.h-2*margin)
	c.Fill()
	c.SetColor(tint(style.Accent, 0.6))
	c.DrawRectangle(margin+22*c.u, margin, 6*c.u, c.h-2*margin)
	c.Fill()

	x := margin + 60*c.u
	width := c.w - x - margin
	paragraphs := pick(text, maxParagraphs, 0)
	gap := 40 * c.u
	slotH := (c.h - 2*margin - gap*float64(maxParagraphs-1)) / maxParagraphs

	c.regular(40)
	c.SetColor(style.Text)
	lines := max(int(slotH/(c.FontHeight()*1.35)), 1)
	y := margin
	for _, p := range paragraphs {
		c.paragraph(p, x, y, width, lines)
		y += slotH + gap
	}
	return c.rgba(), nil
}
