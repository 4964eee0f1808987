package orchestrator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"lecture-studio/internal/lecture"

	"github.com/google/uuid"
)

// RenderID uniquely identifies a render job.
type RenderID string

// NewRenderID returns a random RenderID.
func NewRenderID() RenderID {
	return RenderID(uuid.NewString())
}

// RenderRequest is the input JSON payload for submitting a render.
// AudioDuration is probed from the audio file when omitted.
type RenderRequest struct {
	Title         string   `json:"title"`
	Script        string   `json:"script"`
	AudioPath     string   `json:"audio_path"`
	AudioDuration *float64 `json:"audio_duration,omitempty"`
	Style         string   `json:"style,omitempty"`
}

// Validate reports the first problem with r, wrapped in ErrInvalidRequest.
func (r RenderRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	case strings.TrimSpace(r.Script) == "":
		return fmt.Errorf("%w: script is required", ErrInvalidRequest)
	case strings.TrimSpace(r.AudioPath) == "":
		return fmt.Errorf("%w: audio_path is required", ErrInvalidRequest)
	}
	if d := r.AudioDuration; d != nil && (*d < 0 || math.IsNaN(*d) || math.IsInf(*d, 0)) {
		return fmt.Errorf("%w: audio_duration must be a non-negative number", ErrInvalidRequest)
	}
	return nil
}

// Job is the stored state of one render.
type Job struct {
	ID              RenderID          `json:"id"`
	Title           string            `json:"title"`
	Style           string            `json:"style,omitempty"`
	AudioPath       string            `json:"audio_path"`
	AudioDuration   float64           `json:"audio_duration"`
	Stage           lecture.Stage     `json:"stage"`
	Error           string            `json:"error,omitempty"`
	VideoPath       string            `json:"video_path,omitempty"`
	Transcript      string            `json:"transcript,omitempty"`
	Segments        []lecture.Segment `json:"segments,omitempty"`
	FallbackVisuals int               `json:"fallback_visuals"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// clone returns a deep copy so callers never share the stored segments.
func (j *Job) clone() *Job {
	c := *j
	if j.Segments != nil {
		c.Segments = append([]lecture.Segment(nil), j.Segments...)
	}
	return &c
}
