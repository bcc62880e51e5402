package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds deployment-level settings, populated from environment
// variables. Per-run parameters (raster paths, threshold, output directory)
// travel on the command line instead.
type Config struct {
	LogLevel  string
	LogFormat string

	// Defaults for the CLI flags.
	CurveFile string
	Threshold float64
	OutputDir string

	// Optional /healthz + /metrics endpoint for long batch runs.
	// Empty disables the server.
	MetricsAddr     string
	ShutdownTimeout time.Duration

	// Optional run-summary publishing (HABITAT_KAFKA_BROKERS / HABITAT_KAFKA_ENABLED).
	KafkaBrokers      []string
	KafkaSummaryTopic string
	KafkaEnabled      bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	threshold, err := parseThreshold()
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("HABITAT_KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("HABITAT_KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		CurveFile: envOrDefault("HABITAT_CURVE_FILE", "habitat-suitability-grayling-spawn.csv"),
		Threshold: threshold,
		OutputDir: envOrDefault("HABITAT_OUTPUT_DIR", "habitat-calculation"),

		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:      brokers,
		KafkaSummaryTopic: envOrDefault("HABITAT_KAFKA_TOPIC", "habitat-run-summaries"),
		KafkaEnabled:      kafkaEnabled,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("HABITAT_KAFKA_ENABLED is true but HABITAT_KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("HABITAT_KAFKA_TOPIC must not be empty")
	}

	return cfg, nil
}

func parseThreshold() (float64, error) {
	s := os.Getenv("HABITAT_THRESHOLD")
	if s == "" {
		return 0.6, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("invalid HABITAT_THRESHOLD")
	}
	return v, nil
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
