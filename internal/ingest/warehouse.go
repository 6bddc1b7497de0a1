package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Warehouse wraps the SQLite response warehouse that table-backed
// campaigns are loaded from.
type Warehouse struct {
	db   *sqlx.DB
	path string
}

// OpenWarehouse opens the warehouse database at the given path.
func OpenWarehouse(dbPath string) (*Warehouse, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening warehouse: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &Warehouse{db: db, path: dbPath}, nil
}

// Close closes the warehouse connection.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// Path returns the warehouse file path.
func (w *Warehouse) Path() string {
	return w.path
}

// warehouseRecord mirrors the column layout of a campaign response table.
type warehouseRecord struct {
	QuestionCode  string         `db:"q_code"`
	RawResponse   string         `db:"raw_response"`
	Lemmatized    sql.NullString `db:"lemmatized"`
	CanonicalCode string         `db:"canonical_code"`
	Lang          sql.NullString `db:"lang"`
	Alpha2Country string         `db:"alpha2country"`
	Region        sql.NullString `db:"region"`
	Province      sql.NullString `db:"province"`
	Age           sql.NullString `db:"age"`
	Gender        sql.NullString `db:"gender"`
	Profession    sql.NullString `db:"profession"`
	Setting       sql.NullString `db:"setting"`
	ResponseYear  sql.NullString `db:"response_year"`
	IngestionTime sql.NullString `db:"ingestion_time"`
}

// WarehouseSource reads raw rows for one campaign from a warehouse table.
type WarehouseSource struct {
	warehouse *Warehouse
	table     string
}

// NewWarehouseSource creates a source over one campaign response table.
func NewWarehouseSource(w *Warehouse, table string) *WarehouseSource {
	return &WarehouseSource{warehouse: w, table: table}
}

// FetchRows selects every response row from the campaign table.
func (s *WarehouseSource) FetchRows(ctx context.Context, campaignCode string) ([]RawRow, error) {
	query := fmt.Sprintf(`SELECT q_code, raw_response, lemmatized, canonical_code,
		lang, alpha2country, region, province, age, gender, profession,
		setting, response_year, ingestion_time FROM %q`, s.table)

	var records []warehouseRecord
	if err := s.warehouse.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("querying table %s: %w", s.table, err)
	}

	rows := make([]RawRow, 0, len(records))
	for _, rec := range records {
		row := RawRow{
			QuestionCode:  rec.QuestionCode,
			RawResponse:   rec.RawResponse,
			Lemmatized:    rec.Lemmatized.String,
			CanonicalCode: rec.CanonicalCode,
			Lang:          rec.Lang.String,
			Alpha2Country: rec.Alpha2Country,
			Region:        rec.Region.String,
			Province:      rec.Province.String,
			Age:           rec.Age.String,
			Gender:        rec.Gender.String,
			Profession:    rec.Profession.String,
			Setting:       rec.Setting.String,
			ResponseYear:  rec.ResponseYear.String,
		}
		if ts := rec.IngestionTime.String; ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				row.IngestionTime = parsed
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
