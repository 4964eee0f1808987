package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("LS_INT", "7")
	t.Setenv("LS_BAD_INT", "seven")
	t.Setenv("LS_FLOAT", "2.5")
	t.Setenv("LS_DUR", "90s")

	if got := GetEnv("LS_MISSING", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
	if got := GetEnvInt("LS_INT", 1); got != 7 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("LS_BAD_INT", 1); got != 1 {
		t.Errorf("GetEnvInt invalid = %d", got)
	}
	if got := GetEnvFloat("LS_FLOAT", 0); got != 2.5 {
		t.Errorf("GetEnvFloat = %v", got)
	}
	if got := GetEnvDuration("LS_DUR", 0); got != 90*time.Second {
		t.Errorf("GetEnvDuration = %v", got)
	}
}

func TestFromEnv_defaults(t *testing.T) {
	for _, k := range []string{"PORT", "OUTPUT_DIR", "RENDER_WORKERS", "LEAD_IN_SECONDS", "REDIS_ADDR", "IMAGE_TIMEOUT"} {
		t.Setenv(k, "")
	}
	s := FromEnv()
	if s.Port != "8080" || s.OutputDir != "data/videos" || s.LeadInSeconds != 3 || s.FadeSeconds != 0.5 {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.RenderWorkers != runtime.NumCPU() || s.PresenterFrames != 60 || s.ImageTimeout != 30*time.Second {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.RedisAddr != "" || s.RedisJobTTL != 24*time.Hour || s.MaxFileAge != 24*time.Hour {
		t.Errorf("unexpected defaults %+v", s)
	}
}

func TestLoad_dotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LS_FROM_DOTENV=hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LS_FROM_DOTENV", "")
	os.Unsetenv("LS_FROM_DOTENV")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := GetEnv("LS_FROM_DOTENV", ""); got != "hello" {
		t.Errorf("value from .env = %q", got)
	}
	if err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing file")
	}
}
