// Package slides renders one still image per narration segment.
//
// Each content type has its own Strategy. All strategies except Concept draw
// deterministically from the text alone; Concept asks the image generator
// first and uses the plain-text strategy whenever that is unavailable or
// fails. Output is always normalized to the renderer's size.
package slides

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"lecture-studio/internal/imagegen"
	"lecture-studio/internal/lecture"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

var (
	// FullSize is a slide that fills the whole frame.
	FullSize = image.Pt(1920, 1080)

	// PanelSize is a slide paired with the presenter overlay.
	PanelSize = image.Pt(960, 1080)
)

// Strategy draws the visual for one content type.
type Strategy interface {
	Render(ctx context.Context, text string, size image.Point, style Style) (image.Image, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, text string, size image.Point, style Style) (image.Image, error)

// Render implements Strategy.
func (f StrategyFunc) Render(ctx context.Context, text string, size image.Point, style Style) (image.Image, error) {
	return f(ctx, text, size, style)
}

// Slide is the rendered visual of one segment.
type Slide struct {
	Image       *image.RGBA
	OrderIndex  int
	ContentType lecture.ContentType
	// Fallback is true when the plain-text strategy stood in for the
	// segment's own strategy.
	Fallback bool
}

// Options configures a Renderer. Zero values select defaults.
type Options struct {
	Size      image.Point
	Style     Style
	Generator imagegen.Generator
	Timeout   time.Duration
	Workers   int
	Logger    *slog.Logger
}

// Renderer dispatches segments to strategies.
type Renderer struct {
	size       image.Point
	style      Style
	workers    int
	gen        imagegen.Generator
	log        *slog.Logger
	strategies map[lecture.ContentType]Strategy
	fallback   Strategy
}

// New returns a Renderer for opts.
func New(opts Options) *Renderer {
	if opts.Size.X <= 0 || opts.Size.Y <= 0 {
		opts.Size = PanelSize
	}
	if opts.Style.Name == "" {
		opts.Style = SimpleText
	}
	if opts.Generator == nil {
		opts.Generator = imagegen.Disabled{}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	plain := StrategyFunc(renderPlainText)
	return &Renderer{
		size:    opts.Size,
		style:   opts.Style,
		workers: opts.Workers,
		gen:     opts.Generator,
		log:     opts.Logger,
		strategies: map[lecture.ContentType]Strategy{
			lecture.Math:       StrategyFunc(renderMath),
			lecture.List:       StrategyFunc(renderList),
			lecture.Comparison: StrategyFunc(renderComparison),
			lecture.Timeline:   StrategyFunc(renderTimeline),
			lecture.Diagram:    StrategyFunc(renderDiagram),
			lecture.Concept:    &conceptStrategy{gen: opts.Generator, timeout: opts.Timeout},
			lecture.PlainText:  plain,
		},
		fallback: plain,
	}
}

// Size returns the dimensions of every slide this renderer produces.
func (r *Renderer) Size() image.Point { return r.size }

// strategyFor returns the strategy for ct and whether it is the fallback
// chosen because the external service is not configured.
func (r *Renderer) strategyFor(ct lecture.ContentType) (Strategy, bool) {
	if ct == lecture.Concept && !r.gen.Available() {
		return r.fallback, true
	}
	if s, ok := r.strategies[ct]; ok {
		return s, false
	}
	return r.fallback, false
}

// Render draws seg. Strategy failures are recovered with the plain-text
// strategy; only a failure of that strategy returns lecture.ErrRender.
func (r *Renderer) Render(ctx context.Context, seg lecture.Segment) (Slide, error) {
	ct := seg.ContentType
	if !ct.Valid() {
		ct = lecture.Classify(seg.Text)
	}

	strategy, fallback := r.strategyFor(ct)
	img, err := strategy.Render(ctx, seg.Text, r.size, r.style)
	if err != nil && !fallback && ct != lecture.PlainText {
		r.log.Warn("visual strategy failed, using plain text",
			slog.Int("order_index", seg.OrderIndex),
			slog.String("content_type", string(ct)),
			slog.String("error", err.Error()))
		fallback = true
		img, err = r.fallback.Render(ctx, seg.Text, r.size, r.style)
	}
	if err != nil {
		return Slide{}, fmt.Errorf("%w: segment %d: %w", lecture.ErrRender, seg.OrderIndex, err)
	}

	return Slide{
		Image:       normalize(img, r.size),
		OrderIndex:  seg.OrderIndex,
		ContentType: ct,
		Fallback:    fallback,
	}, nil
}

// RenderAll renders every segment on a bounded worker pool. The result is
// indexed like segs regardless of completion order.
func (r *Renderer) RenderAll(ctx context.Context, segs []lecture.Segment) ([]Slide, error) {
	slides := make([]Slide, len(segs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range segs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slide, err := r.Render(gctx, segs[i])
			if err != nil {
				return err
			}
			slides[i] = slide
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slides, nil
}

// normalize scales img to cover size, cropping the overflow symmetrically.
// Images already at size are returned as-is.
func normalize(img image.Image, size image.Point) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == size.X && b.Dy() == size.Y {
		return toRGBA(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	if b.Dx() == 0 || b.Dy() == 0 {
		return dst
	}
	scale := max(float64(size.X)/float64(b.Dx()), float64(size.Y)/float64(b.Dy()))
	srcW := int(float64(size.X) / scale)
	srcH := int(float64(size.Y) / scale)
	x0 := b.Min.X + (b.Dx()-srcW)/2
	y0 := b.Min.Y + (b.Dy()-srcH)/2
	src := image.Rect(x0, y0, x0+srcW, y0+srcH)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst
}
