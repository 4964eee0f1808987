// Package pipeline runs one render request through every stage, from
// scheduling to the encoded video.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"lecture-studio/internal/compositor"
	"lecture-studio/internal/imagegen"
	"lecture-studio/internal/lecture"
	"lecture-studio/internal/presenter"
	"lecture-studio/internal/slides"
	"lecture-studio/internal/timeline"
)

// Request is one lecture to render.
type Request struct {
	// ID, when set, prefixes the default output name so renders sharing a
	// title never write the same file.
	ID     string
	Title  string
	Script string
	Audio  timeline.AudioTrack
	// OutputPath defaults to OutputName(Title) under Config.OutputDir.
	OutputPath string
	Style      string
}

// Result describes a finished render. Transcript is the script, unmodified.
type Result struct {
	VideoPath       string
	Transcript      string
	Segments        []lecture.Segment
	FallbackVisuals int
	DrawnPresenter  bool
}

// Event is emitted when a stage completes or the run fails.
type Event struct {
	Stage   lecture.Stage
	Elapsed time.Duration
	Err     error
}

// Observer receives stage events in order. It must not block.
type Observer func(Event)

// Config holds resolved settings. Zero counts, sizes and timeouts select
// defaults; LeadIn and fades are taken as given, so start from DefaultConfig.
type Config struct {
	LeadIn          float64
	FadeIn          float64
	FadeOut         float64
	PresenterFrames int
	Workers         int
	ImageTimeout    time.Duration
	FPS             int
	WorkDir         string
	OutputDir       string

	SlideSize     image.Point
	PresenterSize image.Point
}

func (c Config) withDefaults() Config {
	if c.LeadIn < 0 {
		c.LeadIn = 0
	}
	if c.FadeIn < 0 {
		c.FadeIn = 0
	}
	if c.FadeOut < 0 {
		c.FadeOut = 0
	}
	if c.PresenterFrames <= 0 {
		c.PresenterFrames = presenter.DefaultFrameCount
	}
	if c.ImageTimeout <= 0 {
		c.ImageTimeout = imagegen.DefaultTimeout
	}
	if c.FPS <= 0 {
		c.FPS = timeline.FPS
	}
	if c.SlideSize.X <= 0 || c.SlideSize.Y <= 0 {
		c.SlideSize = slides.PanelSize
	}
	if c.PresenterSize.X <= 0 || c.PresenterSize.Y <= 0 {
		c.PresenterSize = presenter.Size
	}
	return c
}

// DefaultConfig mirrors the stock lecture layout.
func DefaultConfig() Config {
	return Config{
		LeadIn:          lecture.DefaultLeadIn,
		FadeIn:          compositor.DefaultFadeIn,
		FadeOut:         compositor.DefaultFadeOut,
		PresenterFrames: presenter.DefaultFrameCount,
		ImageTimeout:    imagegen.DefaultTimeout,
		FPS:             timeline.FPS,
	}
}

// Pipeline is safe for concurrent Runs; each run owns its own workspace.
type Pipeline struct {
	cfg       Config
	gen       imagegen.Generator
	assembler *timeline.Assembler
	log       *slog.Logger
}

// New returns a Pipeline. A nil generator disables generated visuals.
func New(cfg Config, gen imagegen.Generator, enc timeline.Encoder, log *slog.Logger) *Pipeline {
	if gen == nil {
		gen = imagegen.Disabled{}
	}
	if log == nil {
		log = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Pipeline{
		cfg:       cfg,
		gen:       gen,
		assembler: timeline.NewAssembler(enc, cfg.FPS, log),
		log:       log,
	}
}

// run tracks the state of one Run.
type run struct {
	observe Observer
	log     *slog.Logger
	mark    time.Time
}

func (r *run) done(stage lecture.Stage, attrs ...any) {
	elapsed := time.Since(r.mark)
	r.mark = time.Now()
	r.log.Debug("stage complete",
		append([]any{slog.String("stage", string(stage)), slog.Int64("duration_ms", elapsed.Milliseconds())}, attrs...)...)
	if r.observe != nil {
		r.observe(Event{Stage: stage, Elapsed: elapsed})
	}
}

func (r *run) fail(stage lecture.Stage, kind, err error) error {
	serr := lecture.Fail(stage, kind, err)
	r.log.Error("render failed", slog.String("stage", string(stage)), slog.String("error", err.Error()))
	if r.observe != nil {
		r.observe(Event{Stage: lecture.StageFailed, Elapsed: time.Since(r.mark), Err: serr})
	}
	return serr
}

// Run executes Schedule, Classify, Render, Animate, Composite and Assemble
// strictly in that order. Any failure stops the run with a
// *lecture.StageError naming the stage being attempted; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, req Request, observe Observer) (Result, error) {
	r := &run{observe: observe, log: p.log.With(slog.String("title", req.Title)), mark: time.Now()}
	cfg := p.cfg

	if err := ctx.Err(); err != nil {
		return Result{}, r.fail(lecture.StageScheduled, lecture.ErrScheduling, err)
	}
	segs, err := lecture.Schedule(req.Script, req.Audio.Duration, cfg.LeadIn)
	if err != nil {
		return Result{}, r.fail(lecture.StageScheduled, lecture.ErrScheduling, err)
	}
	r.done(lecture.StageScheduled, slog.Int("segments", len(segs)))

	lecture.ClassifyAll(segs)
	r.done(lecture.StageClassified)

	renderer := slides.New(slides.Options{
		Size:      cfg.SlideSize,
		Style:     slides.StyleByName(req.Style),
		Generator: p.gen,
		Timeout:   cfg.ImageTimeout,
		Workers:   cfg.Workers,
		Logger:    r.log,
	})
	rendered, err := renderer.RenderAll(ctx, segs)
	if err != nil {
		return Result{}, r.fail(lecture.StageRendered, lecture.ErrRender, err)
	}
	fallbacks := 0
	for _, s := range rendered {
		if s.Fallback {
			fallbacks++
		}
	}
	r.done(lecture.StageRendered, slog.Int("fallbacks", fallbacks))

	animator := presenter.NewAnimator(p.gen, cfg.PresenterSize, cfg.ImageTimeout, r.log)
	base, drawn := animator.Portrait(ctx)
	frames, err := presenter.Animate(base, cfg.PresenterFrames)
	if err != nil {
		return Result{}, r.fail(lecture.StageAnimated, lecture.ErrRender, err)
	}
	r.done(lecture.StageAnimated, slog.Bool("drawn", drawn))

	if err := ctx.Err(); err != nil {
		return Result{}, r.fail(lecture.StageComposited, lecture.ErrRender, err)
	}
	title, clips, err := p.composite(req, segs, rendered, frames)
	if err != nil {
		return Result{}, r.fail(lecture.StageComposited, lecture.ErrRender, err)
	}
	r.done(lecture.StageComposited)

	path, err := p.assemble(ctx, req, title, clips)
	if err != nil {
		return Result{}, r.fail(lecture.StageAssembled, lecture.ErrAssembly, err)
	}
	r.done(lecture.StageAssembled, slog.String("video", path))

	r.done(lecture.StageDone)
	r.log.Info("render complete", slog.String("video", path),
		slog.Int("segments", len(segs)), slog.Int("fallbacks", fallbacks))

	return Result{
		VideoPath:       path,
		Transcript:      req.Script,
		Segments:        segs,
		FallbackVisuals: fallbacks,
		DrawnPresenter:  drawn,
	}, nil
}

// composite builds the faded title card and one faded clip per segment.
func (p *Pipeline) composite(req Request, segs []lecture.Segment, rendered []slides.Slide,
	frames presenter.Frames) (compositor.Clip, []compositor.Clip, error) {
	cfg := p.cfg

	card, err := slides.RenderTitle(req.Title, compositor.CanvasSize)
	if err != nil {
		return compositor.Clip{}, nil, fmt.Errorf("title card: %w", err)
	}
	titleLen := min(cfg.LeadIn, max(req.Audio.Duration, 0))
	title := compositor.ApplyFade(compositor.Still(card, titleLen), cfg.FadeIn, cfg.FadeOut)

	if len(rendered) != len(segs) {
		return compositor.Clip{}, nil, errors.New("slide count does not match segment count")
	}
	clips := make([]compositor.Clip, len(segs))
	for i, seg := range segs {
		slide := rendered[i]
		if slide.OrderIndex != seg.OrderIndex {
			return compositor.Clip{}, nil, fmt.Errorf("slide %d out of order", slide.OrderIndex)
		}
		clip := compositor.Compose(frames.At(seg.OrderIndex), slide.Image, seg.Duration)
		clips[i] = compositor.ApplyFade(clip, cfg.FadeIn, cfg.FadeOut)
	}
	return title, clips, nil
}

func (p *Pipeline) assemble(ctx context.Context, req Request, title compositor.Clip, clips []compositor.Clip) (string, error) {
	out := req.OutputPath
	if out == "" {
		name := OutputName(req.Title)
		if req.ID != "" {
			name = req.ID + "_" + name
		}
		out = filepath.Join(p.cfg.OutputDir, name)
	}
	ws, err := timeline.NewWorkspace(p.cfg.WorkDir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", lecture.ErrAssembly, err)
	}
	defer ws.Close()
	return p.assembler.Assemble(ctx, title, clips, req.Audio, out, ws)
}
