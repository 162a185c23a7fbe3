// Package csvfile ingests the two flat benchmark inputs from local CSV
// files and watches them for changes.
//
// Both files share the same shape: a header line followed by 3-field data
// rows. Volume file columns: state, year, transmission count. Damage file
// columns: state, year, damage count. Rows with the wrong field count or
// unparseable numbers are skipped, not errors — the skip count is returned
// so callers can log and meter it.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/damage-rate-service/internal/domain"
)

// fieldCount is the number of columns in a well-formed data row.
const fieldCount = 3

// ParseVolumes reads the volume dataset. Returns the parsed records and the
// number of rows skipped for malformed field counts or values.
func ParseVolumes(r io.Reader) ([]domain.VolumeRecord, int, error) {
	var records []domain.VolumeRecord
	skipped, err := parseRows(r, func(state string, year, count int) {
		records = append(records, domain.VolumeRecord{State: state, Year: year, Volume: count})
	})
	return records, skipped, err
}

// ParseDamages reads the damage dataset. Same contract as ParseVolumes.
func ParseDamages(r io.Reader) ([]domain.DamageRecord, int, error) {
	var records []domain.DamageRecord
	skipped, err := parseRows(r, func(state string, year, count int) {
		records = append(records, domain.DamageRecord{State: state, Year: year, Damages: count})
	})
	return records, skipped, err
}

// parseRows drives the shared row format: skips the header, drops rows whose
// field count or numeric fields don't parse, trims and uppercases the state
// code. Only a structurally unreadable file is an error.
func parseRows(r io.Reader, emit func(state string, year, count int)) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are skipped per-row, not fatal
	cr.TrimLeadingSpace = true

	var skipped int
	header := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}
		if err != nil {
			return skipped, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(row) != fieldCount {
			skipped++
			continue
		}

		year, errYear := strconv.Atoi(strings.TrimSpace(row[1]))
		count, errCount := strconv.Atoi(strings.TrimSpace(row[2]))
		if errYear != nil || errCount != nil {
			skipped++
			continue
		}

		emit(strings.ToUpper(strings.TrimSpace(row[0])), year, count)
	}
}
