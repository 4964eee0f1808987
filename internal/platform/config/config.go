package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvFloat is GetEnvInt for floating point values.
func GetEnvFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return fallback
}

// GetEnvDuration parses values such as "30s" or "24h".
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}

// Settings is every environment-derived value the binaries use.
type Settings struct {
	Port      string
	LogLevel  string
	LogFormat string

	OutputDir  string
	WorkDir    string
	MaxFileAge time.Duration

	OpenAIKey        string
	OpenAIImageModel string
	ImageTimeout     time.Duration

	RenderWorkers   int
	PresenterFrames int
	LeadInSeconds   float64
	FadeSeconds     float64

	FFmpegPath  string
	FFprobePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisJobTTL   time.Duration
}

// FromEnv reads Settings from the environment with defaults applied.
func FromEnv() Settings {
	return Settings{
		Port:      GetEnv("PORT", "8080"),
		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "json"),

		OutputDir:  GetEnv("OUTPUT_DIR", "data/videos"),
		WorkDir:    GetEnv("WORK_DIR", ""),
		MaxFileAge: GetEnvDuration("MAX_FILE_AGE", 24*time.Hour),

		OpenAIKey:        GetEnv("OPENAI_API_KEY", ""),
		OpenAIImageModel: GetEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		ImageTimeout:     GetEnvDuration("IMAGE_TIMEOUT", 30*time.Second),

		RenderWorkers:   GetEnvInt("RENDER_WORKERS", runtime.NumCPU()),
		PresenterFrames: GetEnvInt("PRESENTER_FRAMES", 60),
		LeadInSeconds:   GetEnvFloat("LEAD_IN_SECONDS", 3),
		FadeSeconds:     GetEnvFloat("FADE_SECONDS", 0.5),

		FFmpegPath:  GetEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: GetEnv("FFPROBE_PATH", "ffprobe"),

		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("REDIS_DB", 0),
		RedisJobTTL:   GetEnvDuration("REDIS_JOB_TTL", 24*time.Hour),
	}
}
