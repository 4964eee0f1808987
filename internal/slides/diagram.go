package slides

import (
	"context"
	"image"
	"image/color"
)

const maxDiagramSteps = 4

// renderDiagram stacks numbered steps vertically, joined by arrows, cycling
// through a four-color palette.
func renderDiagram(_ context.Context, text string, size image.Point, style Style) (image.Image, error) {
	c, err := newCanvas(size, style)
	if err != nil {
		return nil, err
	}
	top := c.heading("Process")
	margin := 70 * c.u

	steps := pick(text, maxDiagramSteps, 0)
	arrowGap := 60 * c.u
	boxH := (c.h - top - margin - arrowGap*float64(maxDiagramSteps-1)) / maxDiagramSteps
	boxW := c.w - 2*margin

	y := top
	for i, step := range steps {
		fill := diagramPalette[i%len(diagramPalette)]
		c.SetColor(fill)
		c.DrawRoundedRectangle(margin, y, boxW, boxH, 16*c.u)
		c.Fill()

		r := 28 * c.u
		c.badge(i+1, margin+30*c.u+r, y+boxH/2, r, fill)
		c.SetColor(color.White)
		c.SetLineWidth(3 * c.u)
		c.DrawCircle(margin+30*c.u+r, y+boxH/2, r)
		c.Stroke()

		textX := margin + 60*c.u + 2*r
		c.regular(30)
		c.SetColor(color.White)
		lines := int((boxH - 30*c.u) / (c.FontHeight() * 1.35))
		c.paragraph(step, textX, y+16*c.u, boxW-(textX-margin)-20*c.u, max(lines, 1))

		if i < len(steps)-1 {
			c.SetColor(style.Muted)
			c.SetLineWidth(5 * c.u)
			c.arrow(c.w/2, y+boxH+8*c.u, c.w/2, y+boxH+arrowGap-8*c.u)
		}
		y += boxH + arrowGap
	}
	return c.rgba(), nil
}
