package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes one render in YAML. Relative paths resolve against the
// manifest's directory.
type Manifest struct {
	Title         string   `yaml:"title"`
	Script        string   `yaml:"script"`
	ScriptFile    string   `yaml:"script_file"`
	Audio         string   `yaml:"audio"`
	AudioDuration *float64 `yaml:"audio_duration"`
	Output        string   `yaml:"output"`
	Style         string   `yaml:"style"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	base := filepath.Dir(path)
	m.ScriptFile = resolve(base, m.ScriptFile)
	m.Audio = resolve(base, m.Audio)
	m.Output = resolve(base, m.Output)
	return &m, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ScriptText returns the inline script or the contents of ScriptFile.
// Setting both is an error.
func (m *Manifest) ScriptText() (string, error) {
	switch {
	case m.Script != "" && m.ScriptFile != "":
		return "", errors.New("set either script or script_file, not both")
	case m.ScriptFile != "":
		data, err := os.ReadFile(m.ScriptFile)
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		return string(data), nil
	default:
		return m.Script, nil
	}
}

// Validate checks the fields every render needs.
func (m *Manifest) Validate() error {
	var errs []error
	if m.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if m.Script == "" && m.ScriptFile == "" {
		errs = append(errs, errors.New("script or script_file is required"))
	}
	if m.Audio == "" {
		errs = append(errs, errors.New("audio is required"))
	}
	if m.AudioDuration != nil && *m.AudioDuration < 0 {
		errs = append(errs, fmt.Errorf("audio_duration must not be negative, got %g", *m.AudioDuration))
	}
	return errors.Join(errs...)
}
