// Command report runs the damage-rate benchmark pipeline over two CSV files
// and prints the result, for offline analysis without running the service.
//
// Usage:
//
//	go run ./cmd/report \
//	  -volumes data/ticket_volumes.csv \
//	  -damages data/reported_damages.csv \
//	  -threshold 0.05 -year 2023 -format table
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/damage-rate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/damage-rate-service/internal/domain"
	"github.com/couchcryptid/damage-rate-service/internal/pipeline"
)

func main() {
	volumesPath := flag.String("volumes", "", "path to the locate-ticket volume CSV")
	damagesPath := flag.String("damages", "", "path to the reported-damage CSV")
	threshold := flag.Float64("threshold", 0, "materiality threshold for residual reporting")
	year := flag.Int("year", 0, "only print rows for this year")
	state := flag.String("state", "", "only print rows for this state code")
	format := flag.String("format", "table", "output format: table or json")
	flag.Parse()

	if *volumesPath == "" || *damagesPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *threshold < 0 {
		fmt.Fprintln(os.Stderr, "threshold must not be negative")
		os.Exit(1)
	}

	os.Exit(run(*volumesPath, *damagesPath, *threshold, *year, strings.ToUpper(strings.TrimSpace(*state)), *format))
}

func run(volumesPath, damagesPath string, threshold float64, year int, state, format string) int {
	volumes, skippedVolumes, err := loadVolumes(volumesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	damages, skippedDamages, err := loadDamages(damagesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	if skipped := skippedVolumes + skippedDamages; skipped > 0 {
		fmt.Fprintf(os.Stderr, "warning: skipped %d malformed csv rows\n", skipped)
	}

	set := pipeline.Transform(volumes, damages, threshold)

	rows := set.All()
	if year != 0 {
		rows = set.ForYear(year)
	}
	if state != "" {
		rows = filterState(rows, state)
	}

	switch format {
	case "json":
		printJSON(rows)
	case "table":
		printTable(rows)
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", format)
		return 1
	}
	return 0
}

func loadVolumes(path string) ([]domain.VolumeRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open volumes: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file
	return csvfile.ParseVolumes(f)
}

func loadDamages(path string) ([]domain.DamageRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open damages: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file
	return csvfile.ParseDamages(f)
}

func filterState(rows []*domain.StateYearMetric, state string) []*domain.StateYearMetric {
	var out []*domain.StateYearMetric
	for _, m := range rows {
		if m.State == state {
			out = append(out, m)
		}
	}
	return out
}

func printJSON(rows []*domain.StateYearMetric) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(rows) //nolint:errcheck // stdout
}

func printTable(rows []*domain.StateYearMetric) {
	fmt.Printf("%-6s %-6s %12s %9s %8s %9s %10s %10s %9s\n",
		"STATE", "YEAR", "VOLUME", "DAMAGES", "RATE", "EXPECTED", "EXP_DMG", "RESIDUAL", "RES_PCT")
	for _, m := range rows {
		fmt.Printf("%-6s %-6d %12d %9d %8s %9s %10s %10s %9s\n",
			m.State, m.Year, m.Volume, m.Damages,
			fmtRate(m.ActualRate), fmtRate(m.ExpectedRate),
			fmtResidual(m.Residuals, func(r *domain.ResidualStats) float64 { return r.ExpectedDamages }),
			fmtResidual(m.Residuals, func(r *domain.ResidualStats) float64 { return r.Residual }),
			fmtResidualPct(m.Residuals),
		)
	}
	fmt.Printf("\n%d rows\n", len(rows))
}

func fmtRate(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtResidual(r *domain.ResidualStats, field func(*domain.ResidualStats) float64) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", field(r))
}

func fmtResidualPct(r *domain.ResidualStats) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", r.ResidualPct*100)
}
