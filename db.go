package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var errNoAPI = errors.New("probe record has no api")

func openDB(ds string) (*historyDB, error) {
	db, err := sqlx.Open("sqlite", ds)
	if err != nil {
		return nil, fmt.Errorf(
			"could not create db: %w",
			err,
		)
	}
	// sqlite has a single writer, and each :memory: connection is a new
	// database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf(
			"could not ping db: %w",
			err,
		)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS probes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			api TEXT NOT NULL,
			model TEXT NOT NULL,
			flow TEXT NOT NULL,
			ok BOOLEAN NOT NULL,
			failed_step TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			models INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_probes_api ON probes (api);
	`); err != nil {
		return nil, fmt.Errorf("could not migrate db: %w", err)
	}
	return &historyDB{db: db}, nil
}

func dbForConfig(cfg Config) (*historyDB, error) {
	if err := os.MkdirAll(cfg.DataPath, 0o700); err != nil { //nolint:mnd
		return nil, fmt.Errorf("could not create db: %w", err)
	}
	return openDB(filepath.Join(cfg.DataPath, "history.db"))
}

type historyDB struct {
	db *sqlx.DB
}

// probeRecord is the outcome of a probe. Prompts and responses are not
// stored.
type probeRecord struct {
	ID         int64     `db:"id"`
	API        string    `db:"api"`
	Model      string    `db:"model"`
	Flow       string    `db:"flow"`
	OK         bool      `db:"ok"`
	FailedStep string    `db:"failed_step"`
	Error      string    `db:"error"`
	Models     int       `db:"models"`
	ElapsedMS  int64     `db:"elapsed_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

// Elapsed returns the probe duration.
func (r probeRecord) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMS) * time.Millisecond
}

// Close closes the underlying connection.
func (h *historyDB) Close() error {
	return h.db.Close() //nolint:wrapcheck
}

func (h *historyDB) Save(r probeRecord) error {
	if r.API == "" {
		return errNoAPI
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if _, err := h.db.NamedExec(`
		INSERT INTO probes (api, model, flow, ok, failed_step, error, models, elapsed_ms, created_at)
		VALUES (:api, :model, :flow, :ok, :failed_step, :error, :models, :elapsed_ms, :created_at)
	`, r); err != nil {
		return fmt.Errorf("could not save probe: %w", err)
	}
	return nil
}

// List returns the most recent probes first. A limit of 0 or less returns
// all of them.
func (h *historyDB) List(limit int) ([]probeRecord, error) {
	var records []probeRecord
	q := `SELECT * FROM probes ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	if err := h.db.Select(&records, q, args...); err != nil {
		return records, fmt.Errorf("could not list probes: %w", err)
	}
	return records, nil
}

// Last returns the most recent probe of api.
func (h *historyDB) Last(api string) (probeRecord, error) {
	var r probeRecord
	if err := h.db.Get(&r, `SELECT * FROM probes WHERE api = ? ORDER BY id DESC LIMIT 1`, api); err != nil {
		return r, fmt.Errorf("could not find last probe for %s: %w", api, err)
	}
	return r, nil
}

// Clear removes every record.
func (h *historyDB) Clear() error {
	if _, err := h.db.Exec(`DELETE FROM probes`); err != nil {
		return fmt.Errorf("could not clear history: %w", err)
	}
	return nil
}
