package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists forecast runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			period          TEXT,
			horizon         INTEGER,
			observations    INTEGER,
			last_date       TEXT,
			last_close      REAL,
			alpha           REAL,
			beta            REAL,
			sse             REAL,
			first_forecast  REAL,
			last_forecast   REAL,
			source          TEXT,
			error           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecast_ts ON forecast_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_forecast_symbol ON forecast_runs(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordForecast(run *ForecastRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastDate string
	if !run.LastDate.IsZero() {
		lastDate = run.LastDate.Format("2006-01-02")
	}

	_, err := r.db.Exec(`INSERT INTO forecast_runs
		(timestamp, symbol, period, horizon, observations, last_date, last_close,
		 alpha, beta, sse, first_forecast, last_forecast, source, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), run.Symbol, run.Period, run.Horizon, run.Observations,
		lastDate, run.LastClose, run.Alpha, run.Beta, run.SSE,
		run.FirstForecast, run.LastForecast, run.Source, run.Err,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
