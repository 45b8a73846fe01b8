package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all engine configuration. None of these knobs change core
// exam semantics: they select the remote endpoint, timeouts, logging and
// the performance-threshold policy table.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SubmitTimeout  time.Duration
	PingTimeout    time.Duration
	LogLevel       string
	LogFormat      string
	// UseMock switches the offline question/rubric provider on. This is a
	// development affordance only, never an error-handling fallback.
	UseMock bool
	// Performance tier cut points (absolute scores, inclusive lower bounds).
	ThresholdExcellent float64
	ThresholdGood      float64
	ThresholdRegular   float64
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env if present but does not fail when it is missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		APIBaseURL:         getEnv("API_URL", ""),
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		SubmitTimeout:      time.Duration(getEnvInt("SUBMIT_TIMEOUT_SECONDS", 15)) * time.Second,
		PingTimeout:        time.Duration(getEnvInt("PING_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "pretty"),
		UseMock:            getEnvBool("USE_MOCK", false) || os.Getenv("API_URL") == "",
		ThresholdExcellent: getEnvFloat("THRESHOLD_EXCELLENT", 2400),
		ThresholdGood:      getEnvFloat("THRESHOLD_GOOD", 1800),
		ThresholdRegular:   getEnvFloat("THRESHOLD_REGULAR", 1200),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
