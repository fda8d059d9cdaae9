package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ipperhq/ipper/internal/core"
	"go.uber.org/zap"
)

var csvHeader = []string{
	"proposal", "mention_type", "message_key", "year", "month",
	"timestamp", "sender", "vote",
}

// CSVStore is a file-backed implementation of the MentionStore interface
// using the flat ledger layout. The whole ledger is held in memory and
// rewritten on change.
type CSVStore struct {
	mu     sync.Mutex
	path   string
	seen   map[core.Mention]struct{}
	rows   []core.Mention
	logger *zap.Logger
}

// NewCSVStore creates a CSV mention store, loading any existing ledger. A
// malformed existing file is treated as absent with a diagnostic.
func NewCSVStore(path string, logger *zap.Logger) (*CSVStore, error) {
	s := &CSVStore{
		path:   path,
		seen:   make(map[core.Mention]struct{}),
		logger: logger,
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.load(); err != nil {
			logger.Warn("Ignoring malformed mention ledger",
				zap.String("path", path),
				zap.Error(err))
			s.seen = make(map[core.Mention]struct{})
			s.rows = nil
		} else {
			logger.Info("Loaded mention ledger",
				zap.String("path", path),
				zap.Int("mentions", len(s.rows)))
		}
	}

	return s, nil
}

// Add stores mentions, skipping rows already present, and rewrites the
// ledger file when anything changed
func (s *CSVStore) Add(ctx context.Context, mentions []core.Mention) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range mentions {
		if _, dup := s.seen[m]; dup {
			continue
		}
		s.seen[m] = struct{}{}
		s.rows = append(s.rows, m)
		added++
	}

	if added > 0 {
		if err := s.persist(); err != nil {
			return added, err
		}
	}
	return added, nil
}

// List returns every stored mention
func (s *CSVStore) List(ctx context.Context) ([]core.Mention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Mention, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Tally counts the votes recorded for a proposal
func (s *CSVStore) Tally(ctx context.Context, proposal int) (core.VoteTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tally := core.VoteTally{Proposal: proposal}
	for _, m := range s.rows {
		if m.Proposal != proposal || m.Type != core.MentionVote {
			continue
		}
		switch m.Vote {
		case core.VotePlusOne:
			tally.PlusOne++
		case core.VoteZero:
			tally.Zero++
		case core.VoteMinusOne:
			tally.MinusOne++
		}
	}
	return tally, nil
}

// Close releases resources; the ledger is already on disk
func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse ledger csv: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	// First row is the header
	for i, record := range records[1:] {
		mention, err := unmarshalRow(record)
		if err != nil {
			return fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		if _, dup := s.seen[mention]; dup {
			continue
		}
		s.seen[mention] = struct{}{}
		s.rows = append(s.rows, mention)
	}
	return nil
}

func (s *CSVStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, m := range s.rows {
		if err := w.Write(marshalRow(m)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func marshalRow(m core.Mention) []string {
	return []string{
		strconv.Itoa(m.Proposal),
		string(m.Type),
		strconv.Itoa(m.MessageKey),
		strconv.Itoa(m.Year),
		strconv.Itoa(m.Month),
		m.Timestamp.UTC().Format(time.RFC3339),
		m.Sender,
		m.Vote.String(),
	}
}

func unmarshalRow(record []string) (core.Mention, error) {
	if len(record) != len(csvHeader) {
		return core.Mention{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	proposal, err := strconv.Atoi(record[0])
	if err != nil {
		return core.Mention{}, fmt.Errorf("invalid proposal id: %w", err)
	}
	mentionType, err := core.ParseMentionType(record[1])
	if err != nil {
		return core.Mention{}, err
	}
	messageKey, err := strconv.Atoi(record[2])
	if err != nil {
		return core.Mention{}, fmt.Errorf("invalid message key: %w", err)
	}
	year, err := strconv.Atoi(record[3])
	if err != nil {
		return core.Mention{}, fmt.Errorf("invalid year: %w", err)
	}
	month, err := strconv.Atoi(record[4])
	if err != nil {
		return core.Mention{}, fmt.Errorf("invalid month: %w", err)
	}
	timestamp, err := time.Parse(time.RFC3339, record[5])
	if err != nil {
		return core.Mention{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	vote, err := core.ParseVoteResult(record[7])
	if err != nil {
		return core.Mention{}, err
	}

	return core.Mention{
		Proposal:   proposal,
		Type:       mentionType,
		MessageKey: messageKey,
		Year:       year,
		Month:      month,
		Timestamp:  timestamp.UTC(),
		Sender:     record[6],
		Vote:       vote,
	}, nil
}
