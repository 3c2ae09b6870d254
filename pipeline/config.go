package pipeline

import (
	"os"
	"strconv"
	"time"
)

// Config holds pipeline-wide settings, populated from the environment
type Config struct {
	RedisAddr      string
	RedisPassword  string
	ResultTTL      time.Duration
	TempDir        string
	YouTubeAPIKey  string
	FFmpegPath     string
	FFprobePath    string
	YtdlpPath      string
	MaxUploadBytes int64
	SampleSeconds  float64
}

// LoadConfig reads configuration from the environment with sensible
// defaults. Call godotenv.Load beforehand if a .env file should apply.
func LoadConfig() Config {
	return Config{
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		ResultTTL:      getEnvDuration("RESULT_TTL", time.Hour),
		TempDir:        getEnv("TEMP_DIR", os.TempDir()),
		YouTubeAPIKey:  getEnv("YOUTUBE_API_KEY", ""),
		FFmpegPath:     getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:    getEnv("FFPROBE_PATH", "ffprobe"),
		YtdlpPath:      getEnv("YTDLP_PATH", "yt-dlp"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 50<<20),
		SampleSeconds:  getEnvFloat("SAMPLE_SECONDS", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
