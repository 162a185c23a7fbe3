package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	VolumeCSVPath string
	DamageCSVPath string

	// MaterialityThreshold is the minimum |residual %| before a residual is
	// reported. 0 reports everything.
	MaterialityThreshold float64

	// WatchInputs recomputes the metric set when either input file changes.
	WatchInputs bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka sink configuration (optional, off by default).
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	threshold, err := parseMaterialityThreshold()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		VolumeCSVPath:        os.Getenv("VOLUME_CSV_PATH"),
		DamageCSVPath:        os.Getenv("DAMAGE_CSV_PATH"),
		MaterialityThreshold: threshold,
		WatchInputs:          sharedcfg.EnvOrDefault("WATCH_INPUTS", "true") == "true",
		HTTPAddr:             sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:             sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:      shutdownTimeout,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "state-damage-benchmarks"),
	}

	if cfg.VolumeCSVPath == "" {
		return nil, errors.New("VOLUME_CSV_PATH is required")
	}
	if cfg.DamageCSVPath == "" {
		return nil, errors.New("DAMAGE_CSV_PATH is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}

	return cfg, nil
}

func parseMaterialityThreshold() (float64, error) {
	s := sharedcfg.EnvOrDefault("MATERIALITY_THRESHOLD", "0")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, errors.New("invalid MATERIALITY_THRESHOLD")
	}
	return v, nil
}
