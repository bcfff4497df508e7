package parser

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcboeker/go-duckdb"

	"github.com/lane-pulse/backend/internal/models"
)

// RecordQuery filters raw shipment record queries.
type RecordQuery struct {
	LaneID  string
	Carrier string
}

// RecordStore keeps a session's raw shipment records in a temporary DuckDB
// file so the dashboard can page through rows behind any lane/carrier cell
// without the JSON layer holding the full record set.
type RecordStore struct {
	db     *sql.DB
	dbPath string
	count  int
	batch  []models.ShipmentRecord
}

const recordBatchSize = 10000

// NewRecordStore creates a DuckDB-backed record store for a session.
func NewRecordStore(tempDir, sessionID string) (*RecordStore, error) {
	dbPath := filepath.Join(tempDir, fmt.Sprintf("session_%s.duckdb", sessionID))

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE shipments (
			id            INTEGER PRIMARY KEY,
			carrier_name  VARCHAR NOT NULL,
			lane_id       VARCHAR NOT NULL,
			transit_hours DOUBLE NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("creating shipments table: %w", err)
	}

	return &RecordStore{
		db:     db,
		dbPath: dbPath,
		batch:  make([]models.ShipmentRecord, 0, recordBatchSize),
	}, nil
}

// Add buffers a record for insertion. Records are batched; call Finalize
// after the last Add.
func (rs *RecordStore) Add(rec models.ShipmentRecord) error {
	rs.batch = append(rs.batch, rec)
	if len(rs.batch) >= recordBatchSize {
		return rs.flush()
	}
	return nil
}

// Finalize flushes pending records and creates the query index.
// The index is deferred until after inserts to keep ingestion fast.
func (rs *RecordStore) Finalize() error {
	if err := rs.flush(); err != nil {
		return err
	}
	if _, err := rs.db.Exec("CREATE INDEX idx_lane_carrier ON shipments(lane_id, carrier_name)"); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	return nil
}

func (rs *RecordStore) flush() error {
	if len(rs.batch) == 0 {
		return nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("starting insert transaction: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO shipments (id, carrier_name, lane_id, transit_hours) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}

	for i, rec := range rs.batch {
		if _, err := stmt.Exec(rs.count+i+1, rec.CarrierName, rec.LaneID, rec.TransitHours); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("inserting record: %w", err)
		}
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert batch: %w", err)
	}

	rs.count += len(rs.batch)
	rs.batch = rs.batch[:0]
	return nil
}

// Len returns the number of stored records.
func (rs *RecordStore) Len() int {
	return rs.count
}

// Count returns how many records match the query.
func (rs *RecordStore) Count(ctx context.Context, q RecordQuery) (int, error) {
	where, args := buildWhere(q)

	var n int
	err := rs.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shipments"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Query returns one page of matching records in insertion order.
func (rs *RecordStore) Query(ctx context.Context, q RecordQuery, page, pageSize int) ([]models.ShipmentRecord, error) {
	if page < 1 {
		page = 1
	}

	where, args := buildWhere(q)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := rs.db.QueryContext(ctx,
		"SELECT carrier_name, lane_id, transit_hours FROM shipments"+where+" ORDER BY id LIMIT ? OFFSET ?",
		args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make([]models.ShipmentRecord, 0, pageSize)
	for rows.Next() {
		var rec models.ShipmentRecord
		if err := rows.Scan(&rec.CarrierName, &rec.LaneID, &rec.TransitHours); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Lanes returns the distinct lane IDs present in the store.
func (rs *RecordStore) Lanes(ctx context.Context) ([]string, error) {
	return rs.distinct(ctx, "lane_id")
}

// Carriers returns the distinct carrier names present in the store.
func (rs *RecordStore) Carriers(ctx context.Context) ([]string, error) {
	return rs.distinct(ctx, "carrier_name")
}

func (rs *RecordStore) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := rs.db.QueryContext(ctx, "SELECT DISTINCT "+column+" FROM shipments ORDER BY "+column)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Close closes the database and removes the temporary file.
func (rs *RecordStore) Close() error {
	err := rs.db.Close()
	if removeErr := os.Remove(rs.dbPath); removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
		err = removeErr
	}
	return err
}

func buildWhere(q RecordQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if q.LaneID != "" {
		clauses = append(clauses, "lane_id = ?")
		args = append(args, q.LaneID)
	}
	if q.Carrier != "" {
		clauses = append(clauses, "carrier_name = ?")
		args = append(args, q.Carrier)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
