package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by DREAMWEAVE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("DREAMWEAVE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// Provider selection. Valid values: openai, mock.

func LLMProvider() string {
	return providerOr("LLM_PROVIDER")
}

func EmbeddingProvider() string {
	return providerOr("EMBEDDING_PROVIDER")
}

func STTProvider() string {
	return providerOr("STT_PROVIDER")
}

func ModerationProvider() string {
	return providerOr("MODERATION_PROVIDER")
}

func ImageProvider() string {
	return providerOr("IMAGE_PROVIDER")
}

func providerOr(key string) string {
	p := os.Getenv(key)
	if p == "" {
		return "openai"
	}
	return p
}

// IndexBackend returns where the knowledge index lives.
// Valid values: disk (default), postgres.
func IndexBackend() string {
	b := os.Getenv("INDEX_BACKEND")
	if b == "" {
		return "disk"
	}
	return b
}

// IndexDir is the parent directory of disk index bundles.
func IndexDir() string {
	d := os.Getenv("INDEX_DIR")
	if d == "" {
		return "."
	}
	return d
}

// IndexName is the fixed bundle name consumed at startup.
func IndexName() string {
	n := os.Getenv("INDEX_NAME")
	if n == "" {
		return "dream-knowledge-index"
	}
	return n
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// DataDir holds the source reference documents consumed by the indexer.
func DataDir() string {
	d := os.Getenv("DATA_DIR")
	if d == "" {
		return "data"
	}
	return d
}

// ReportLanguage is the working language of generated report text, fixed at
// configuration time, not per request.
func ReportLanguage() string {
	l := os.Getenv("REPORT_LANGUAGE")
	if l == "" {
		return "Korean"
	}
	return l
}

// TranscriptionLanguage is the recognition language code passed to the
// speech-to-text provider.
func TranscriptionLanguage() string {
	l := os.Getenv("TRANSCRIPTION_LANGUAGE")
	if l == "" {
		return "ko"
	}
	return l
}

// RetrievalTopK returns how many passages ground each report.
func RetrievalTopK() int {
	k, err := strconv.Atoi(os.Getenv("RETRIEVAL_TOP_K"))
	if err != nil || k <= 0 {
		return 4
	}
	return k
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
