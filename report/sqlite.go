package report

import (
	"database/sql"
	"fmt"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"

	"github.com/sarchlab/complink/compression/vsc"
	"github.com/sarchlab/complink/timing/link"
)

// SQLiteWriter buffers profile rows and link statistics of one run and
// writes them to a SQLite database on Flush. Every run gets its own ID, so
// several runs can share a database.
type SQLiteWriter struct {
	*sql.DB

	path    string
	runID   string
	profile []vsc.ReportRow
	links   []link.Statistics
}

// NewSQLiteWriter opens or creates the database at path.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	w := &SQLiteWriter{
		DB:    db,
		path:  path,
		runID: xid.New().String(),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// RunID returns the ID that tags the rows of this run.
func (w *SQLiteWriter) RunID() string {
	return w.runID
}

func (w *SQLiteWriter) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profile (
			run_id     TEXT,
			section    TEXT,
			pattern    TEXT,
			size       INTEGER,
			count      INTEGER,
			percent    REAL,
			cumulative REAL
		)`,
		`CREATE TABLE IF NOT EXISTS link_stats (
			run_id         TEXT,
			link           TEXT,
			total_flits    INTEGER,
			transfer_flits INTEGER,
			single_flits   INTEGER,
			multi_flits    INTEGER
		)`,
	}

	for _, s := range stmts {
		if _, err := w.Exec(s); err != nil {
			return fmt.Errorf("failed to create tables in %s: %w", w.path, err)
		}
	}

	return nil
}

// WriteProfile buffers the rows of the report sections.
func (w *SQLiteWriter) WriteProfile(sections []vsc.ReportSection) {
	w.profile = append(w.profile, ProfileRows(sections)...)
}

// WriteLinkStats buffers link statistics.
func (w *SQLiteWriter) WriteLinkStats(stats []link.Statistics) {
	w.links = append(w.links, stats...)
}

// Flush writes the buffered rows in one transaction.
func (w *SQLiteWriter) Flush() error {
	if len(w.profile) == 0 && len(w.links) == 0 {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := w.insert(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	w.profile = nil
	w.links = nil

	return nil
}

func (w *SQLiteWriter) insert(tx *sql.Tx) error {
	for _, r := range w.profile {
		_, err := tx.Exec(
			`INSERT INTO profile VALUES (?, ?, ?, ?, ?, ?, ?)`,
			w.runID, r.Section, r.Name, r.Size, int64(r.Count),
			r.Percent, r.Cumulative,
		)
		if err != nil {
			return fmt.Errorf("failed to insert profile row: %w", err)
		}
	}

	for _, s := range w.links {
		_, err := tx.Exec(
			`INSERT INTO link_stats VALUES (?, ?, ?, ?, ?, ?)`,
			w.runID, s.Name, int64(s.TotalFlits), int64(s.TransferFlits),
			int64(s.SingleFlits), int64(s.MultiFlits),
		)
		if err != nil {
			return fmt.Errorf("failed to insert link stats: %w", err)
		}
	}

	return nil
}

// Close flushes the buffered rows and closes the database.
func (w *SQLiteWriter) Close() error {
	flushErr := w.Flush()
	closeErr := w.DB.Close()

	if flushErr != nil {
		return flushErr
	}

	return closeErr
}
