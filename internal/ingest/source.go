// Package ingest fetches raw respondent records and normalizes them into
// the canonical dataset shape the store serves.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// RawRow is one respondent record as delivered by a source, before
// normalization.
type RawRow struct {
	QuestionCode  string
	RawResponse   string
	Lemmatized    string
	CanonicalCode string
	Lang          string
	Alpha2Country string
	Region        string
	Province      string
	Age           string
	Gender        string
	Profession    string
	Setting       string
	ResponseYear  string
	IngestionTime time.Time
}

// Source delivers raw rows for a campaign. Fetch failures are reported to
// the caller; retry policy belongs to whoever triggered the load.
type Source interface {
	FetchRows(ctx context.Context, campaignCode string) ([]RawRow, error)
}

// CSVSource reads raw rows from a headered CSV file in the data directory.
type CSVSource struct {
	dataDir string
	file    string
}

// NewCSVSource creates a CSV source for one campaign file.
func NewCSVSource(dataDir, file string) *CSVSource {
	return &CSVSource{dataDir: dataDir, file: file}
}

// FetchRows reads and parses the whole CSV file.
func (s *CSVSource) FetchRows(ctx context.Context, campaignCode string) ([]RawRow, error) {
	path := filepath.Join(s.dataDir, s.file)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening campaign file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"q_code", "raw_response", "canonical_code", "alpha2country"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("campaign file %s is missing column %q", s.file, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []RawRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv record: %w", err)
		}

		row := RawRow{
			QuestionCode:  field(record, "q_code"),
			RawResponse:   field(record, "raw_response"),
			Lemmatized:    field(record, "lemmatized"),
			CanonicalCode: field(record, "canonical_code"),
			Lang:          field(record, "lang"),
			Alpha2Country: field(record, "alpha2country"),
			Region:        field(record, "region"),
			Province:      field(record, "province"),
			Age:           field(record, "age"),
			Gender:        field(record, "gender"),
			Profession:    field(record, "profession"),
			Setting:       field(record, "setting"),
			ResponseYear:  field(record, "response_year"),
		}
		if ts := field(record, "ingestion_time"); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				row.IngestionTime = parsed
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
