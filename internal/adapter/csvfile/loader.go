package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/damage-rate-service/internal/config"
	"github.com/couchcryptid/damage-rate-service/internal/domain"
	"github.com/couchcryptid/damage-rate-service/internal/observability"
)

// Source labels for row metrics.
const (
	sourceVolumes = "volumes"
	sourceDamages = "damages"
)

// Loader reads the two benchmark inputs from their configured paths.
// It implements service.DatasetLoader.
type Loader struct {
	volumePath string
	damagePath string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewLoader creates a Loader for the configured input files.
func NewLoader(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		volumePath: cfg.VolumeCSVPath,
		damagePath: cfg.DamageCSVPath,
		logger:     logger,
		metrics:    metrics,
	}
}

// LoadVolumes reads and parses the volume dataset.
func (l *Loader) LoadVolumes(ctx context.Context) ([]domain.VolumeRecord, error) {
	var records []domain.VolumeRecord
	err := l.loadFile(ctx, l.volumePath, sourceVolumes, func(f *os.File) (int, int, error) {
		var skipped int
		var err error
		records, skipped, err = ParseVolumes(f)
		return len(records), skipped, err
	})
	return records, err
}

// LoadDamages reads and parses the damage dataset.
func (l *Loader) LoadDamages(ctx context.Context) ([]domain.DamageRecord, error) {
	var records []domain.DamageRecord
	err := l.loadFile(ctx, l.damagePath, sourceDamages, func(f *os.File) (int, int, error) {
		var skipped int
		var err error
		records, skipped, err = ParseDamages(f)
		return len(records), skipped, err
	})
	return records, err
}

func (l *Loader) loadFile(ctx context.Context, path, source string, parse func(*os.File) (parsed, skipped int, err error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s dataset: %w", source, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	parsed, skipped, err := parse(f)
	if err != nil {
		return fmt.Errorf("parse %s dataset: %w", source, err)
	}

	l.metrics.RowsParsed.WithLabelValues(source).Add(float64(parsed))
	l.metrics.RowsSkipped.WithLabelValues(source).Add(float64(skipped))
	if skipped > 0 {
		l.logger.Warn("skipped malformed csv rows", "source", source, "path", path, "skipped", skipped)
	}
	l.logger.Debug("dataset loaded", "source", source, "path", path, "rows", parsed)
	return nil
}
