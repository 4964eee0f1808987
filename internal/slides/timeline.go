package slides

import (
	"context"
	"image"
)

const maxTimelineEvents = 4

// renderTimeline places events along a horizontal axis with callouts
// alternating above and below, each tied to its point by a leader line.
func renderTimeline(_ context.Context, text string, size image.Point, style Style) (image.Image, error) {
	c, err := newCanvas(size, style)
	if err != nil {
		return nil, err
	}
	top := c.heading("Timeline")
	margin := 40 * c.u

	events := pick(text, maxTimelineEvents, 0)
	axisY := top + (c.h-top-margin)/2

	c.SetColor(style.Muted)
	c.SetLineWidth(6 * c.u)
	c.DrawLine(margin, axisY, c.w-margin, axisY)
	c.Stroke()

	slot := (c.w - 2*margin) / float64(len(events))
	boxW := slot - 20*c.u
	boxH := (axisY - top) - 90*c.u
	for i, ev := range events {
		px := margin + slot*(float64(i)+0.5)
		above := i%2 == 0

		boxY := axisY + 70*c.u
		lineEnd := boxY
		if above {
			boxY = axisY - 70*c.u - boxH
			lineEnd = boxY + boxH
		}

		c.SetColor(style.Accent)
		c.SetLineWidth(3 * c.u)
		c.DrawLine(px, axisY, px, lineEnd)
		c.Stroke()
		c.DrawCircle(px, axisY, 16*c.u)
		c.Fill()

		c.SetColor(tint(style.Accent, 0.85))
		c.DrawRoundedRectangle(px-boxW/2, boxY, boxW, boxH, 10*c.u)
		c.Fill()
		c.SetColor(style.Accent)
		c.DrawRoundedRectangle(px-boxW/2, boxY, boxW, boxH, 10*c.u)
		c.Stroke()

		c.regular(26)
		c.SetColor(style.Text)
		lines := int((boxH - 30*c.u) / (c.FontHeight() * 1.35))
		c.paragraph(ev, px-boxW/2+12*c.u, boxY+14*c.u, boxW-24*c.u, max(lines, 1))
	}
	return c.rgba(), nil
}
