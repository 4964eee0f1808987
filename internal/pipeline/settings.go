package pipeline

import (
	"lecture-studio/internal/imagegen"
	"lecture-studio/internal/platform/config"
)

// ConfigFromSettings maps environment settings onto a pipeline Config.
// FadeSeconds applies to both fade-in and fade-out.
func ConfigFromSettings(s config.Settings) Config {
	cfg := DefaultConfig()
	cfg.LeadIn = s.LeadInSeconds
	cfg.FadeIn = s.FadeSeconds
	cfg.FadeOut = s.FadeSeconds
	cfg.PresenterFrames = s.PresenterFrames
	cfg.Workers = s.RenderWorkers
	cfg.ImageTimeout = s.ImageTimeout
	cfg.WorkDir = s.WorkDir
	cfg.OutputDir = s.OutputDir
	return cfg
}

// GeneratorFromSettings returns the OpenAI image generator when a key is
// configured and the disabled generator otherwise.
func GeneratorFromSettings(s config.Settings) imagegen.Generator {
	if s.OpenAIKey == "" {
		return imagegen.Disabled{}
	}
	return imagegen.NewOpenAI(s.OpenAIKey, s.OpenAIImageModel)
}
