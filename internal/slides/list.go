package slides

import (
	"context"
	"image"
)

const (
	maxListItems  = 5
	minListLength = 10
)

func renderList(_ context.Context, text string, size image.Point, style Style) (image.Image, error) {
	c, err := newCanvas(size, style)
	if err != nil {
		return nil, err
	}
	top := c.heading("Key Points")
	margin := 60 * c.u

	items := pick(text, maxListItems, minListLength)
	rowGap := 20 * c.u
	rowH := (c.h - top - margin - rowGap*float64(maxListItems-1)) / maxListItems

	y := top
	for i, item := range items {
		color := listPalette[i%len(listPalette)]
		c.SetColor(tint(color, 0.8))
		c.DrawRoundedRectangle(margin, y, c.w-2*margin, rowH, 12*c.u)
		c.Fill()
		c.SetColor(color)
		c.DrawRectangle(margin, y, 10*c.u, rowH)
		c.Fill()

		r := 32 * c.u
		c.badge(i+1, margin+40*c.u+r, y+rowH/2, r, color)

		textX := margin + 80*c.u + 2*r
		c.regular(34)
		c.SetColor(style.Text)
		lines := int(rowH / (c.FontHeight() * 1.35))
		c.paragraph(item, textX, y+18*c.u, c.w-margin-textX-20*c.u, max(lines, 1))
		y += rowH + rowGap
	}
	return c.rgba(), nil
}
