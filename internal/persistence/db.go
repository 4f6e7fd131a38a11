// Package persistence provides SQLite-based storage for run summaries.
// Only finished-run results are stored; live simulation state never is.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/eneri4/exploration-drones/internal/engine"
)

// DB wraps a SQLite connection for run results.
type DB struct {
	conn *sqlx.DB
}

// RunMeta is the run context that is not part of engine.Result.
type RunMeta struct {
	Width  int
	Height int
	Layout string
	Seed   int64
	Budget int
}

// RunRecord is one stored run summary.
type RunRecord struct {
	ID           string    `db:"id" json:"id"`
	Mode         string    `db:"mode" json:"mode"`
	Policy       string    `db:"policy" json:"policy"`
	Drones       int       `db:"drones" json:"drones"`
	Width        int       `db:"width" json:"width"`
	Height       int       `db:"height" json:"height"`
	Layout       string    `db:"layout" json:"layout"`
	Seed         int64     `db:"seed" json:"seed"`
	Budget       int       `db:"budget" json:"budget"`
	Rounds       int       `db:"rounds" json:"rounds"`
	Reason       string    `db:"reason" json:"reason"`
	Covered      int       `db:"covered" json:"covered"`
	Total        int       `db:"total" json:"total"`
	Exchanges    int       `db:"exchanges" json:"exchanges"`
	Synchronized bool      `db:"synchronized" json:"synchronized"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Coverage returns the covered fraction of the run.
func (r RunRecord) Coverage() float64 {
	if r.Total == 0 {
		return 1
	}
	return float64(r.Covered) / float64(r.Total)
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		policy TEXT NOT NULL,
		drones INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		layout TEXT NOT NULL,
		seed INTEGER NOT NULL,
		budget INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		reason TEXT NOT NULL,
		covered INTEGER NOT NULL,
		total INTEGER NOT NULL,
		exchanges INTEGER NOT NULL,
		synchronized INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_counters (
		run_id TEXT NOT NULL REFERENCES runs(id),
		agent_id INTEGER NOT NULL,
		transmits INTEGER NOT NULL,
		receives INTEGER NOT NULL,
		PRIMARY KEY (run_id, agent_id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun stores a finished run and its per-drone counters and returns the
// new run ID.
func (db *DB) SaveRun(res engine.Result, meta RunMeta) (string, error) {
	id := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, mode, policy, drones, width, height, layout, seed, budget,
		 rounds, reason, covered, total, exchanges, synchronized, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Mode, res.Policy, res.Drones, meta.Width, meta.Height, meta.Layout,
		meta.Seed, meta.Budget, res.Rounds, string(res.Reason), res.Covered, res.Total,
		res.Exchanges, res.Synchronized, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO agent_counters
		(run_id, agent_id, transmits, receives) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, c := range res.Counters {
		if _, err := stmt.Exec(id, c.ID, int64(c.Transmits), int64(c.Receives)); err != nil {
			return "", fmt.Errorf("insert counters for agent %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Info("run saved", "id", id, "mode", res.Mode, "rounds", res.Rounds, "exchanges", res.Exchanges)
	return id, nil
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := db.conn.Select(&runs,
		`SELECT id, mode, policy, drones, width, height, layout, seed, budget,
		        rounds, reason, covered, total, exchanges, synchronized, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	return runs, err
}

// GetRun returns one stored run.
func (db *DB) GetRun(id string) (RunRecord, error) {
	var run RunRecord
	err := db.conn.Get(&run,
		`SELECT id, mode, policy, drones, width, height, layout, seed, budget,
		        rounds, reason, covered, total, exchanges, synchronized, created_at
		 FROM runs WHERE id = ?`, id)
	return run, err
}

// RunCounters returns the per-drone counters of a stored run, by agent ID.
func (db *DB) RunCounters(id string) ([]engine.Counter, error) {
	var rows []struct {
		AgentID   int   `db:"agent_id"`
		Transmits int64 `db:"transmits"`
		Receives  int64 `db:"receives"`
	}
	err := db.conn.Select(&rows,
		"SELECT agent_id, transmits, receives FROM agent_counters WHERE run_id = ? ORDER BY agent_id",
		id,
	)
	if err != nil {
		return nil, err
	}

	out := make([]engine.Counter, len(rows))
	for i, r := range rows {
		out[i] = engine.Counter{ID: r.AgentID, Transmits: uint64(r.Transmits), Receives: uint64(r.Receives)}
	}
	return out, nil
}
