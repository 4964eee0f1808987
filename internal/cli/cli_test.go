package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lecture-studio/internal/lecture"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "script.txt", "One.\n\nTwo.\n\nThree.")
	path := writeFile(t, dir, "lecture.yaml", `
title: Intro to Go
script_file: script.txt
audio: narration.mp3
audio_duration: 42.5
output: /tmp/out.mp4
style: animated_text
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Title != "Intro to Go" || m.Style != "animated_text" || m.Output != "/tmp/out.mp4" {
		t.Errorf("unexpected manifest %+v", m)
	}
	if m.Audio != filepath.Join(dir, "narration.mp3") {
		t.Errorf("audio not resolved against manifest dir: %q", m.Audio)
	}
	if m.AudioDuration == nil || *m.AudioDuration != 42.5 {
		t.Errorf("audio_duration = %v", m.AudioDuration)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	script, err := m.ScriptText()
	if err != nil || !strings.HasPrefix(script, "One.") {
		t.Errorf("ScriptText = %q, %v", script, err)
	}
}

func TestManifest_invalid(t *testing.T) {
	neg := -1.0
	m := Manifest{AudioDuration: &neg}
	err := m.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"title", "script", "audio is required", "negative"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}

	both := Manifest{Script: "x", ScriptFile: "y"}
	if _, err := both.ScriptText(); err == nil {
		t.Error("expected error when script and script_file are both set")
	}

	path := writeFile(t, t.TempDir(), "bad.yaml", "title: [unclosed")
	if _, err := LoadManifest(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestMergeManifest(t *testing.T) {
	d := 10.0
	base := Manifest{Title: "A", ScriptFile: "s.txt", Audio: "a.mp3", Style: "light"}
	got := mergeManifest(base, Manifest{Script: "inline", AudioDuration: &d, Style: "dark"})
	if got.Title != "A" || got.Audio != "a.mp3" {
		t.Errorf("unset flags overrode manifest: %+v", got)
	}
	if got.Script != "inline" || got.ScriptFile != "" || got.Style != "dark" || *got.AudioDuration != 10 {
		t.Errorf("flags not applied: %+v", got)
	}
}

func TestSegmentsCommand(t *testing.T) {
	out, err := execute(t, "segments",
		"--script", "First we define terms.\n\nThen we compare both options.\n\nFinally we summarise.",
		"--duration", "15")
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	var segs []lecture.Segment
	if err := json.Unmarshal([]byte(out), &segs); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	for i, s := range segs {
		if s.OrderIndex != i || s.Duration != 4 || !s.ContentType.Valid() {
			t.Errorf("segment %d = %+v", i, s)
		}
	}
}

func TestSegmentsCommand_requiresScript(t *testing.T) {
	if _, err := execute(t, "segments", "--duration", "10"); err == nil {
		t.Error("expected error without a script")
	}
	if _, err := execute(t, "segments", "--script", "x"); err == nil {
		t.Error("expected error without --duration")
	}
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "old_lecture.mp4", "x")
	fresh := writeFile(t, dir, "new_lecture.mp4", "x")
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "clean", "--max-age", "24h", dir)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "removed 1 files") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh file should be kept")
	}
}

func TestPresenterCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	out, err := execute(t, "presenter", "--out", dir, "--frames", "2")
	if err != nil {
		t.Fatalf("presenter: %v", err)
	}
	if !strings.Contains(out, "wrote 2 frames") {
		t.Errorf("output = %q", out)
	}
	for _, name := range []string{"frame_000.png", "frame_001.png"} {
		if info, err := os.Stat(filepath.Join(dir, name)); err != nil || info.Size() == 0 {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestRenderCommand_validation(t *testing.T) {
	if _, err := execute(t, "render", "--title", "T"); err == nil {
		t.Error("expected validation error")
	}
	if _, err := execute(t, "render", "--manifest", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
