package orchestrator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

const (
	jsonContentType  = "application/json"
	textContentType  = "text/plain; charset=utf-8"
	videoContentType = "video/mp4"

	maxRequestBytes = 4 << 20
)

// Handler exposes render job HTTP endpoints using go-chi.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler returns a Handler that uses the given Service and Logger.
// Render metrics are recorded by the Service.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes mounts the render endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/renders", func(r chi.Router) {
		r.Post("/", h.SubmitRender)
		r.Route("/{render_id}", func(r chi.Router) {
			r.Get("/", h.GetRender)
			r.Get("/transcript", h.GetTranscript)
			r.Get("/video", h.GetVideo)
		})
	})
}

// SubmitRender handles POST /renders.
// Body: { "title": "...", "script": "...", "audio_path": "/data/a.mp3", "audio_duration": 42.5, "style": "simple_text" }.
func (h *Handler) SubmitRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.log.Debug("invalid render body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	job, err := h.svc.Submit(r.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidRequest):
		h.log.Info("render rejected", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrShuttingDown):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.log.Error("submit render failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "submit failed")
		return
	}

	w.Header().Set("Location", "/renders/"+string(job.ID))
	writeJSON(w, http.StatusAccepted, map[string]any{"id": job.ID, "stage": job.Stage})
}

// GetRender handles GET /renders/{render_id}.
func (h *Handler) GetRender(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	job.Transcript = ""
	writeJSON(w, http.StatusOK, job)
}

// GetTranscript handles GET /renders/{render_id}/transcript.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(job.Transcript))
}

// GetVideo handles GET /renders/{render_id}/video.
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := RenderID(chi.URLParam(r, "render_id"))
	path, err := h.svc.VideoPath(r.Context(), id)
	switch {
	case errors.Is(err, ErrRenderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, ErrRenderNotFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.log.Error("get video failed", slog.String("render_id", string(id)), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	if _, err := os.Stat(path); err != nil {
		h.log.Warn("video missing on disk", slog.String("render_id", string(id)), slog.String("path", path))
		writeError(w, http.StatusGone, "video no longer available")
		return
	}
	w.Header().Set("Content-Type", videoContentType)
	http.ServeFile(w, r, path)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Job, bool) {
	id := RenderID(chi.URLParam(r, "render_id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing render id")
		return nil, false
	}
	job, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, ErrRenderNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		h.log.Error("get render failed", slog.String("render_id", string(id)), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return nil, false
	}
	return job, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
