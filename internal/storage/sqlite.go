// Package storage keeps the round history of the running process in an
// in-memory SQLite database. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies. Nothing is written to disk: history ends with the
// process.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tetris-duel/internal/games/duel"
	"github.com/vovakirdan/tetris-duel/internal/multiplayer"
)

// Store manages the SQLite connection holding the round history.
type Store struct {
	db *sql.DB
}

// Round is one finished match as recorded in the history.
type Round struct {
	ID        int64
	MatchID   string
	Mode      multiplayer.MatchMode
	Reason    multiplayer.MatchEndReason
	Winner    multiplayer.PlayerID // 0 on a draw
	Score1    int
	Score2    int
	Lines1    int
	Lines2    int
	Gifts1    int
	Gifts2    int
	Exch1     int
	Exch2     int
	Ticks     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Standings is the win/loss/draw record of Player1 for one match mode.
type Standings struct {
	Mode   multiplayer.MatchMode
	Rounds int
	Wins   int
	Losses int
	Draws  int
	Best   int // best Player1 score
}

// OpenMemory creates a fresh in-memory database and runs migrations.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			mode INTEGER NOT NULL,
			end_reason INTEGER NOT NULL,
			winner INTEGER NOT NULL DEFAULT 0,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			lines1 INTEGER NOT NULL DEFAULT 0,
			lines2 INTEGER NOT NULL DEFAULT 0,
			gifts1 INTEGER NOT NULL DEFAULT 0,
			gifts2 INTEGER NOT NULL DEFAULT 0,
			exchanges1 INTEGER NOT NULL DEFAULT 0,
			exchanges2 INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_mode ON rounds(mode);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection and discards the history.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRound records a finished match.
// Returns the ID of the inserted record.
func (s *Store) SaveRound(o duel.Outcome) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO rounds
		 (match_id, mode, end_reason, winner, score1, score2, lines1, lines2,
		  gifts1, gifts2, exchanges1, exchanges2, ticks, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(o.MatchID),
		int(o.Mode),
		int(o.Reason),
		int(o.Winner),
		o.Scores[0], o.Scores[1],
		o.Lines[0], o.Lines[1],
		o.Gifts[0], o.Gifts[1],
		o.Exchanges[0], o.Exchanges[1],
		o.Ticks,
		o.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save round: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const roundColumns = `id, match_id, mode, end_reason, winner, score1, score2, lines1, lines2,
	gifts1, gifts2, exchanges1, exchanges2, ticks, duration_ms, created_at`

// RecentRounds retrieves the most recent rounds, newest first.
func (s *Store) RecentRounds(limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+roundColumns+`
		 FROM rounds
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return rounds, nil
}

// RoundByMatchID retrieves a round by its match ID.
// Returns nil when the match was never saved.
func (s *Store) RoundByMatchID(id multiplayer.MatchID) (*Round, error) {
	row := s.db.QueryRow(
		`SELECT `+roundColumns+` FROM rounds WHERE match_id = ?`,
		string(id),
	)
	r, err := scanRound(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Standings aggregates the Player1 record for the given mode.
func (s *Store) Standings(mode multiplayer.MatchMode) (Standings, error) {
	st := Standings{Mode: mode}
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(score1), 0)
		 FROM rounds WHERE mode = ?`,
		int(multiplayer.Player1), int(multiplayer.Player2), int(mode),
	).Scan(&st.Rounds, &st.Wins, &st.Losses, &st.Draws, &st.Best)
	if err != nil {
		return Standings{}, fmt.Errorf("storage: cannot get standings: %w", err)
	}
	return st, nil
}

// ClearRounds deletes the whole history.
func (s *Store) ClearRounds() error {
	if _, err := s.db.Exec("DELETE FROM rounds"); err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(sc scanner) (Round, error) {
	var (
		r                    Round
		mode, reason, winner int
		durationMs           int64
		createdAt            any
	)
	err := sc.Scan(
		&r.ID, &r.MatchID, &mode, &reason, &winner,
		&r.Score1, &r.Score2, &r.Lines1, &r.Lines2,
		&r.Gifts1, &r.Gifts2, &r.Exch1, &r.Exch2,
		&r.Ticks, &durationMs, &createdAt,
	)
	if err == sql.ErrNoRows {
		return Round{}, err
	}
	if err != nil {
		return Round{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	r.Mode = multiplayer.MatchMode(mode)
	r.Reason = multiplayer.MatchEndReason(reason)
	r.Winner = multiplayer.PlayerID(winner)
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles the driver returning either time.Time or a string.
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
