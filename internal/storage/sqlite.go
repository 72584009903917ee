// Package storage provides SQLite-based persistence for completed runs and
// online race results. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-polypaint/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry represents one completed painting run. Ticks is the completion
// time in simulation ticks, so lower is better.
type RunEntry struct {
	ID        int64
	GameID    string
	Ticks     int
	Coverage  float64
	CreatedAt time.Time
}

// RaceResult represents the outcome of an online race.
type RaceResult struct {
	ID             int64
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int // coverage in hundredths of a percent
	Score2         int
	WinnerSession  string // Empty if no winner (disconnect before start)
	EndReason      string
	Duration       int // Duration in seconds
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
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
			game_id TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			coverage REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(game_id, ticks ASC);

		CREATE TABLE IF NOT EXISTS race_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_race_results_game_id ON race_results(game_id);
		CREATE INDEX IF NOT EXISTS idx_race_results_player1 ON race_results(player1_session);
		CREATE INDEX IF NOT EXISTS idx_race_results_player2 ON race_results(player2_session);
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

// SaveRun records a completed run for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(gameID string, ticks int, coverage float64) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (game_id, ticks, coverage) VALUES (?, ?, ?)",
		gameID, ticks, coverage,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestRuns retrieves the N fastest completed runs for the given game.
// Results are ordered by completion time ascending (fastest first).
func (s *Store) BestRuns(gameID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, ticks, coverage, created_at
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY ticks ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Ticks, &e.Coverage, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// AllRuns retrieves all completed runs for the given game (no limit).
func (s *Store) AllRuns(gameID string) ([]RunEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, game_id, ticks, coverage, created_at
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY ticks ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Ticks, &e.Coverage, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	return entries, nil
}

// BestTime returns the fastest completion time for the given game, in ticks.
// Returns 0 if no runs exist.
func (s *Store) BestTime(gameID string) (int, error) {
	var ticks sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(ticks) FROM runs WHERE game_id = ?",
		gameID,
	).Scan(&ticks)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best time: %w", err)
	}

	if !ticks.Valid {
		return 0, nil
	}

	return int(ticks.Int64), nil
}

// ClearRuns deletes all runs for the given game.
func (s *Store) ClearRuns(gameID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveRaceResult records the result of an online race.
// Returns the ID of the inserted record.
func (s *Store) SaveRaceResult(result RaceResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO race_results
		 (match_id, game_id, player1_session, player2_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.GameID,
		result.Player1Session,
		result.Player2Session,
		result.Score1,
		result.Score2,
		result.WinnerSession,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save race result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RaceResultByMatchID retrieves a race result by its match ID.
// Returns nil if no such race exists.
func (s *Store) RaceResultByMatchID(matchID string) (*RaceResult, error) {
	var result RaceResult
	var createdAt any
	var winnerSession sql.NullString

	err := s.db.QueryRow(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM race_results
		 WHERE match_id = ?`,
		matchID,
	).Scan(
		&result.ID,
		&result.MatchID,
		&result.GameID,
		&result.Player1Session,
		&result.Player2Session,
		&result.Score1,
		&result.Score2,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query race result: %w", err)
	}

	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseTimestamp(createdAt)

	return &result, nil
}

// RecentRaces retrieves the most recent race results.
func (s *Store) RecentRaces(limit int) ([]RaceResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM race_results
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query race results: %w", err)
	}
	defer rows.Close()

	return scanRaceResults(rows)
}

// PlayerRaceHistory retrieves race history for a specific session/player.
func (s *Store) PlayerRaceHistory(sessionID string, limit int) ([]RaceResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1_session, player2_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM race_results
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player races: %w", err)
	}
	defer rows.Close()

	return scanRaceResults(rows)
}

// scanRaceResults reads race result rows into a slice.
func scanRaceResults(rows *sql.Rows) ([]RaceResult, error) {
	var results []RaceResult
	for rows.Next() {
		var result RaceResult
		var createdAt any
		var winnerSession sql.NullString

		if err := rows.Scan(
			&result.ID,
			&result.MatchID,
			&result.GameID,
			&result.Player1Session,
			&result.Player2Session,
			&result.Score1,
			&result.Score2,
			&winnerSession,
			&result.EndReason,
			&result.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winnerSession.Valid {
			result.WinnerSession = winnerSession.String
		}
		result.CreatedAt = parseTimestamp(createdAt)

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// parseTimestamp handles DATETIME columns that arrive as time.Time or string.
func parseTimestamp(v any) time.Time {
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

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter allows the coordinator to save race results without a direct
// storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	result := RaceResult{
		MatchID:        data.MatchID,
		GameID:         data.GameID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	}
	_, err := s.SaveRaceResult(result)
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	RunsCount  int
	BestTicks  int
	AvgTicks   float64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated run statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(ticks), 0), COALESCE(AVG(ticks), 0)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&stats.RunsCount, &stats.BestTicks, &stats.AvgTicks)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}
