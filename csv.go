package plantchart

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// LoadReport summarizes a CSV load
type LoadReport struct {
	Rows    int
	Kept    int
	Dropped int
	Mapping ColumnMapping
}

// iterCSV reads the header row and returns an iterator over the remaining
// rows keyed by header. Blank lines are skipped.
func iterCSV(reader *csv.Reader) ([]string, iter.Seq2[map[string]string, error], error) {
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrMissingHeader
		}
		return nil, nil, fmt.Errorf("error reading header: %w", err)
	}
	if len(headers) == 0 || (len(headers) == 1 && strings.TrimSpace(headers[0]) == "") {
		return nil, nil, ErrMissingHeader
	}
	// strip a UTF-8 BOM left by spreadsheet exports
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	return headers, func(yield func(map[string]string, error) bool) {
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}

			if isBlank(record) {
				continue
			}

			row := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(record) {
					row[h] = record[i]
				}
			}
			if !yield(row, nil) {
				return
			}
		}
	}, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadRecords parses CSV input into sorted records. It returns ErrNoValidRows
// when no row survives normalization.
func ReadRecords(r io.Reader, loc *time.Location) ([]Record, LoadReport, error) {
	headers, rows, err := iterCSV(csv.NewReader(r))
	if err != nil {
		return nil, LoadReport{}, err
	}

	report := LoadReport{Mapping: MapColumns(headers)}

	var raw []map[string]string
	for row, err := range rows {
		if err != nil {
			log.Debug().Err(err).Msg("skipping unreadable CSV row")
			report.Rows++
			continue
		}
		raw = append(raw, row)
	}
	report.Rows += len(raw)

	records := Normalize(raw, report.Mapping, loc)
	report.Kept = len(records)
	report.Dropped = report.Rows - report.Kept

	if len(records) == 0 {
		return nil, report, ErrNoValidRows
	}
	return records, report, nil
}
