package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lecture-studio/internal/lecture"
	"lecture-studio/internal/pipeline"
	"lecture-studio/internal/platform/metrics"
	"lecture-studio/internal/timeline"
)

// ErrShuttingDown is returned by Submit after Shutdown has begun.
var ErrShuttingDown = errors.New("render service shutting down")

// Runner executes one render. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request, observe pipeline.Observer) (pipeline.Result, error)
}

// Service accepts render requests, runs them in the background and
// records their progress in the Repository.
type Service struct {
	repo    Repository
	runner  Runner
	prober  timeline.Prober
	log     *slog.Logger
	metrics *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewService returns a Service. prober may be nil, in which case requests
// must carry audio_duration. Metrics may be nil to disable recording.
func NewService(repo Repository, runner Runner, prober timeline.Prober, log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		repo:    repo,
		runner:  runner,
		prober:  prober,
		log:     log,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Submit validates req, stores a queued job and starts rendering it. The
// returned job is a snapshot at submission time.
func (s *Service) Submit(ctx context.Context, req RenderRequest) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	duration, err := s.audioDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:            NewRenderID(),
		Title:         req.Title,
		Style:         req.Style,
		AudioPath:     req.AudioPath,
		AudioDuration: duration,
		Stage:         lecture.StageQueued,
		Transcript:    req.Script,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrShuttingDown
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncRendersStarted()
	}
	s.log.Info("render queued",
		slog.String("render_id", string(job.ID)),
		slog.String("title", job.Title),
		slog.Float64("audio_duration", duration))

	s.wg.Add(1)
	go s.run(job.ID, pipeline.Request{
		ID:     string(job.ID),
		Title:  req.Title,
		Script: req.Script,
		Audio:  timeline.AudioTrack{Path: req.AudioPath, Duration: duration},
		Style:  req.Style,
	})
	return job.clone(), nil
}

func (s *Service) audioDuration(ctx context.Context, req RenderRequest) (float64, error) {
	if req.AudioDuration != nil {
		return *req.AudioDuration, nil
	}
	if s.prober == nil {
		return 0, fmt.Errorf("%w: audio_duration is required", ErrInvalidRequest)
	}
	d, err := s.prober.Duration(ctx, req.AudioPath)
	if err != nil {
		return 0, fmt.Errorf("%w: probe audio: %w", ErrInvalidRequest, err)
	}
	return d, nil
}

func (s *Service) run(id RenderID, req pipeline.Request) {
	defer s.wg.Done()
	log := s.log.With(slog.String("render_id", string(id)))

	observe := func(e pipeline.Event) {
		if s.metrics != nil && e.Stage != lecture.StageFailed {
			s.metrics.ObserveStage(string(e.Stage), e.Elapsed)
		}
		if e.Stage == lecture.StageDone || e.Stage == lecture.StageFailed {
			return
		}
		if err := s.repo.Update(context.WithoutCancel(s.ctx), id, func(j *Job) { j.Stage = e.Stage }); err != nil {
			log.Warn("stage update failed", slog.String("stage", string(e.Stage)), slog.String("error", err.Error()))
		}
	}

	res, err := s.runner.Run(s.ctx, req, observe)

	// The final write must land even when shutdown cancelled the run.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 5*time.Second)
	defer cancel()

	if err != nil {
		stage := lecture.StageFailed
		var serr *lecture.StageError
		if errors.As(err, &serr) {
			stage = serr.Stage
		}
		if s.metrics != nil {
			s.metrics.IncRendersFailed(string(stage))
		}
		log.Error("render failed", slog.String("stage", string(stage)), slog.String("error", err.Error()))
		if uerr := s.repo.Update(ctx, id, func(j *Job) {
			j.Stage = lecture.StageFailed
			j.Error = err.Error()
		}); uerr != nil {
			log.Error("record failure", slog.String("error", uerr.Error()))
		}
		return
	}

	if s.metrics != nil {
		s.metrics.IncRendersCompleted()
		s.metrics.AddFallbackVisuals(res.FallbackVisuals)
	}
	log.Info("render done",
		slog.String("video", res.VideoPath),
		slog.Int("segments", len(res.Segments)),
		slog.Int("fallbacks", res.FallbackVisuals))
	if err := s.repo.Update(ctx, id, func(j *Job) {
		j.Stage = lecture.StageDone
		j.VideoPath = res.VideoPath
		j.Transcript = res.Transcript
		j.Segments = res.Segments
		j.FallbackVisuals = res.FallbackVisuals
	}); err != nil {
		log.Error("record result", slog.String("error", err.Error()))
	}
}

// Get returns the job for id.
func (s *Service) Get(ctx context.Context, id RenderID) (*Job, error) {
	return s.repo.Get(ctx, id)
}

// Transcript returns the unmodified script of the render.
func (s *Service) Transcript(ctx context.Context, id RenderID) (string, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return job.Transcript, nil
}

// VideoPath returns the finished video, or ErrRenderNotFinished.
func (s *Service) VideoPath(ctx context.Context, id RenderID) (string, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Stage != lecture.StageDone {
		return "", fmt.Errorf("%w: stage %s", ErrRenderNotFinished, job.Stage)
	}
	return job.VideoPath, nil
}

// ActiveRenders returns the number of unfinished jobs.
func (s *Service) ActiveRenders(ctx context.Context) int {
	return s.repo.ActiveCount(ctx)
}

// Shutdown stops accepting renders and waits for running ones. If ctx
// expires first the running renders are cancelled and ctx.Err is returned
// once they have stopped.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}
