package slides

import (
	"context"
	"image"
	"image/color"
)

const (
	maxComparisonItems = 6
	itemsPerColumn     = 3
)

// renderComparison fills a left and a right column, three sentences each,
// separated by a divider with a "VS" marker.
func renderComparison(_ context.Context, text string, size image.Point, style Style) (image.Image, error) {
	c, err := newCanvas(size, style)
	if err != nil {
		return nil, err
	}
	top := c.heading("Comparison")
	margin := 50 * c.u
	mid := c.w / 2

	items := pick(text, maxComparisonItems, 0)
	left := items[:min(len(items), itemsPerColumn)]
	var right []string
	if len(items) > itemsPerColumn {
		right = items[itemsPerColumn:]
	}

	colW := mid - margin - 50*c.u
	drawColumn(c, left, margin, top, colW, comparisonLeft)
	drawColumn(c, right, mid+50*c.u, top, colW, comparisonRight)

	c.SetColor(style.Muted)
	c.SetLineWidth(4 * c.u)
	c.DrawLine(mid, top, mid, c.h-margin)
	c.Stroke()

	r := 44 * c.u
	cy := top + (c.h-margin-top)/2
	c.SetColor(style.Accent)
	c.DrawCircle(mid, cy, r)
	c.Fill()
	c.SetColor(color.White)
	c.bold(36)
	c.DrawStringAnchored("VS", mid, cy, 0.5, 0.35)

	return c.rgba(), nil
}

func drawColumn(c *canvas, items []string, x, y, width float64, accent color.RGBA) {
	cardH := (c.h - y - 50*c.u - 2*24*c.u) / itemsPerColumn
	for _, item := range items {
		c.SetColor(tint(accent, 0.82))
		c.DrawRoundedRectangle(x, y, width, cardH, 12*c.u)
		c.Fill()
		c.SetColor(accent)
		c.DrawRectangle(x, y, width, 8*c.u)
		c.Fill()

		c.regular(30)
		c.SetColor(c.style.Text)
		lines := int((cardH - 40*c.u) / (c.FontHeight() * 1.35))
		c.paragraph(item, x+20*c.u, y+24*c.u, width-40*c.u, max(lines, 1))
		y += cardH + 24*c.u
	}
}
