package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ipperhq/ipper/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the MentionStore interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite mention store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// The full row is the identity: inserting an identical mention twice
	// is a no-op
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS mentions (
			proposal INTEGER,
			mention_type TEXT,
			message_key INTEGER,
			year INTEGER,
			month INTEGER,
			timestamp TIMESTAMP,
			sender TEXT,
			vote TEXT,
			PRIMARY KEY (proposal, mention_type, message_key, year, month, timestamp, sender, vote)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_mentions_proposal ON mentions(proposal, mention_type)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Add stores mentions, skipping rows already present
func (s *SQLiteStore) Add(ctx context.Context, mentions []core.Mention) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO mentions
			(proposal, mention_type, message_key, year, month, timestamp, sender, vote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, m := range mentions {
		result, err := stmt.ExecContext(ctx,
			m.Proposal, string(m.Type), m.MessageKey, m.Year, m.Month,
			m.Timestamp.UTC().Format(time.RFC3339), m.Sender, m.Vote.String())
		if err != nil {
			return added, fmt.Errorf("failed to insert mention: %w", err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			added += int(rows)
		}
	}

	if err := tx.Commit(); err != nil {
		return added, fmt.Errorf("failed to commit mentions: %w", err)
	}
	return added, nil
}

// List returns every stored mention
func (s *SQLiteStore) List(ctx context.Context) ([]core.Mention, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proposal, mention_type, message_key, year, month, timestamp, sender, vote
		FROM mentions
		ORDER BY year, month, message_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []core.Mention
	for rows.Next() {
		var m core.Mention
		var mentionType, timestamp, vote string
		if err := rows.Scan(&m.Proposal, &mentionType, &m.MessageKey, &m.Year,
			&m.Month, &timestamp, &m.Sender, &vote); err != nil {
			return nil, fmt.Errorf("failed to scan mention: %w", err)
		}

		if m.Type, err = core.ParseMentionType(mentionType); err != nil {
			return nil, err
		}
		if m.Vote, err = core.ParseVoteResult(vote); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored timestamp: %w", err)
		}
		m.Timestamp = ts.UTC()

		mentions = append(mentions, m)
	}
	return mentions, rows.Err()
}

// Tally counts the votes recorded for a proposal
func (s *SQLiteStore) Tally(ctx context.Context, proposal int) (core.VoteTally, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT vote, COUNT(*)
		FROM mentions
		WHERE proposal = ? AND mention_type = ?
		GROUP BY vote
	`, proposal, string(core.MentionVote))
	if err != nil {
		return core.VoteTally{}, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	tally := core.VoteTally{Proposal: proposal}
	for rows.Next() {
		var vote string
		var count int
		if err := rows.Scan(&vote, &count); err != nil {
			return tally, fmt.Errorf("failed to scan tally: %w", err)
		}
		switch vote {
		case "+1":
			tally.PlusOne = count
		case "0":
			tally.Zero = count
		case "-1":
			tally.MinusOne = count
		}
	}
	return tally, rows.Err()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	return nil
}
