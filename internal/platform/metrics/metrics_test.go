package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, m *Metrics, update func()) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler(update).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape: %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestMetrics_render_counters(t *testing.T) {
	m := New()
	m.IncRendersStarted()
	m.IncRendersStarted()
	m.IncRendersCompleted()
	m.IncRendersFailed("assembled")
	m.AddFallbackVisuals(3)
	m.AddFallbackVisuals(0)
	m.ObserveStage("rendered", 1500*time.Millisecond)

	out := scrape(t, m, func() { m.SetActiveRenders(4) })
	for _, want := range []string{
		"lecture_renders_started_total 2",
		"lecture_renders_completed_total 1",
		`lecture_renders_failed_total{stage="assembled"} 1`,
		"lecture_fallback_visuals_total 3",
		"lecture_active_renders 4",
		`lecture_stage_duration_seconds_count{stage="rendered"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestRequestMiddleware(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(RequestMiddleware(m))
	r.Get("/renders/{render_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/renders/a", "/renders/b", "/elsewhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := scrape(t, m, nil)
	if !strings.Contains(out, `lecture_requests_total{method="GET",route="/renders/{render_id}"} 2`) {
		t.Errorf("route counter missing:\n%s", out)
	}
	if !strings.Contains(out, "lecture_errors_total 3") {
		t.Errorf("error counter missing:\n%s", out)
	}
}
