package slides

import (
	"context"
	"image"
	"strings"
)

const maxFormulas = 3

// renderMath boxes up to three extracted formulas and, when the text
// mentions x, plots y = x² underneath.
func renderMath(_ context.Context, text string, size image.Point, style Style) (image.Image, error) {
	c, err := newCanvas(size, style)
	if err != nil {
		return nil, err
	}
	top := c.heading("Key Formulas")
	margin := 60 * c.u

	items := formulas(text, maxFormulas)
	if len(items) == 0 {
		items = []string{truncate(text, maxFormulaLen)}
	}

	boxH := 110 * c.u
	gap := 30 * c.u
	y := top
	for _, f := range items {
		c.SetColor(tint(style.Accent, 0.85))
		c.DrawRoundedRectangle(margin, y, c.w-2*margin, boxH, 14*c.u)
		c.Fill()
		c.SetColor(style.Accent)
		c.SetLineWidth(3 * c.u)
		c.DrawRoundedRectangle(margin, y, c.w-2*margin, boxH, 14*c.u)
		c.Stroke()

		c.regular(48)
		c.SetColor(style.Text)
		c.centered(f, c.w/2, y+boxH/2, c.w-4*margin, 1)
		y += boxH + gap
	}

	if strings.Contains(strings.ToLower(text), "x") {
		plotParabola(c, margin, y+gap, c.w-2*margin, c.h-y-gap-margin)
	}
	return c.rgba(), nil
}

// plotParabola draws axes and y = x² for x in [-3, 3] inside the box.
func plotParabola(c *canvas, x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	const xRange, yMax = 3.0, 9.0
	originX := x + w/2
	originY := y + h*0.9
	sx := (w / 2) / xRange
	sy := (h * 0.85) / yMax

	c.SetColor(c.style.Muted)
	c.SetLineWidth(2 * c.u)
	c.DrawLine(x, originY, x+w, originY)
	c.DrawLine(originX, y, originX, y+h)
	c.Stroke()

	for i := -3; i <= 3; i++ {
		tx := originX + float64(i)*sx
		c.DrawLine(tx, originY-6*c.u, tx, originY+6*c.u)
	}
	c.Stroke()

	c.SetColor(c.style.Accent)
	c.SetLineWidth(5 * c.u)
	const steps = 120
	for i := 0; i <= steps; i++ {
		xv := -xRange + 2*xRange*float64(i)/steps
		px, py := originX+xv*sx, originY-xv*xv*sy
		if i == 0 {
			c.MoveTo(px, py)
		} else {
			c.LineTo(px, py)
		}
	}
	c.Stroke()

	c.regular(30)
	c.SetColor(c.style.Muted)
	c.DrawStringAnchored("y = x²", originX+12*c.u, y+10*c.u, 0, 1)
}
