// Package storage provides SQLite-based persistence for finished runs,
// per-level best scores and star progress.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished play of a level.
type Run struct {
	ID        int64
	RunID     string // Random identifier, assigned on save when empty
	GameID    string // Mode, e.g. "hexfall" or "hexfall_endless"
	LevelID   string
	Score     int
	Stars     int
	Duration  time.Duration
	Reason    string  // Why the run ended
	CreatedAt time.Time
}

// LevelProgress is the best result recorded for a level.
type LevelProgress struct {
	LevelID    string
	BestScore  int
	BestStars  int
	Plays      int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			stars INTEGER NOT NULL DEFAULT 0,
			duration_secs REAL NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(game_id, level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(game_id, level_id, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns it with its ids filled in.
func (s *Store) SaveRun(r Run) (Run, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if _, err := uuid.Parse(r.RunID); err != nil {
		return r, fmt.Errorf("storage: bad run id %q: %w", r.RunID, err)
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (run_id, game_id, level_id, score, stars, duration_secs, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.GameID, r.LevelID, r.Score, r.Stars, r.Duration.Seconds(), r.Reason,
	)
	if err != nil {
		return r, fmt.Errorf("storage: cannot save run: %w", err)
	}

	r.ID, err = result.LastInsertId()
	if err != nil {
		return r, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return r, nil
}

const runColumns = `id, run_id, game_id, level_id, score, stars, duration_secs, reason, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var createdAt any
	var secs float64
	err := sc.Scan(&r.ID, &r.RunID, &r.GameID, &r.LevelID, &r.Score, &r.Stars, &secs, &r.Reason, &createdAt)
	r.Duration = time.Duration(secs * float64(time.Second))
	r.CreatedAt = parseTime(createdAt)
	return r, err
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// TopScores returns the best runs of a mode, ordered by score descending.
// An empty levelID spans every level.
func (s *Store) TopScores(gameID, levelID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE game_id = ? AND (? = '' OR level_id = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// RunByID returns a run by its run id, or nil if there is none.
func (s *Store) RunByID(runID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// HighScore returns the best score of a mode on a level, 0 if none.
func (s *Store) HighScore(gameID, levelID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE game_id = ? AND level_id = ?",
		gameID, levelID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// BestStars returns the most stars earned on a level in any mode.
func (s *Store) BestStars(levelID string) (int, error) {
	var stars sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(stars) FROM runs WHERE level_id = ?", levelID).Scan(&stars)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query stars: %w", err)
	}
	if !stars.Valid {
		return 0, nil
	}
	return int(stars.Int64), nil
}

// LevelProgress returns the best result of every level played in a mode,
// keyed by level id.
func (s *Store) LevelProgress(gameID string) (map[string]LevelProgress, error) {
	rows, err := s.db.Query(
		`SELECT level_id, MAX(score), MAX(stars), COUNT(*), MAX(created_at)
		 FROM runs
		 WHERE game_id = ?
		 GROUP BY level_id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]LevelProgress)
	for rows.Next() {
		var p LevelProgress
		var lastPlayed any
		if err := rows.Scan(&p.LevelID, &p.BestScore, &p.BestStars, &p.Plays, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan progress row: %w", err)
		}
		p.LastPlayed = parseTime(lastPlayed)
		progress[p.LevelID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return progress, nil
}

// ClearScores deletes the runs of a mode. An empty levelID clears every
// level.
func (s *Store) ClearScores(gameID, levelID string) error {
	_, err := s.db.Exec(
		"DELETE FROM runs WHERE game_id = ? AND (? = '' OR level_id = ?)",
		gameID, levelID, levelID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}
