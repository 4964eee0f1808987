package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"lecture-studio/internal/timeline"
)

const maxNameRunes = 80

// OutputName is the default video file name for title: unsafe characters
// dropped, spaces collapsed to underscores, suffixed "_lecture.mp4".
func OutputName(title string) string {
	var b strings.Builder
	n := 0
	for _, field := range strings.Fields(title) {
		var word strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
				word.WriteRune(r)
			}
		}
		if word.Len() == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		for _, r := range word.String() {
			if n == maxNameRunes {
				break
			}
			b.WriteRune(r)
			n++
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "untitled"
	}
	return name + "_lecture" + timeline.VideoExt
}

// CleanOldFiles removes regular files directly inside dirs whose
// modification time is older than maxAge. Missing directories are skipped.
// It returns how many files were removed.
func CleanOldFiles(dirs []string, maxAge time.Duration, now time.Time, log *slog.Logger) (int, error) {
	if log == nil {
		log = slog.Default()
	}
	removed := 0
	var errs []error
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", dir, err))
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if now.Sub(info.ModTime()) <= maxAge {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				errs = append(errs, err)
				continue
			}
			removed++
			log.Debug("removed old file", slog.String("path", path))
		}
	}
	return removed, errors.Join(errs...)
}
