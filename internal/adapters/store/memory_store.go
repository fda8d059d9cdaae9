package store

import (
	"context"
	"sync"

	"github.com/ipperhq/ipper/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the MentionStore
// interface, used for one-shot runs and tests
type MemoryStore struct {
	mu     sync.RWMutex
	seen   map[core.Mention]struct{}
	rows   []core.Mention
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory mention store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		seen:   make(map[core.Mention]struct{}),
		logger: logger,
	}
}

// Add stores mentions, skipping rows already present
func (s *MemoryStore) Add(ctx context.Context, mentions []core.Mention) (int, error) {
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
	return added, nil
}

// List returns every stored mention
func (s *MemoryStore) List(ctx context.Context) ([]core.Mention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Mention, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Tally counts the votes recorded for a proposal
func (s *MemoryStore) Tally(ctx context.Context, proposal int) (core.VoteTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

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

// Close releases resources; a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
