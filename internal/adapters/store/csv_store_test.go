package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ipperhq/ipper/internal/core"
)

func TestCSVStorePersistsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "mentions.csv")
	ctx := context.Background()

	mentions := []core.Mention{
		testMention(1000, core.MentionSubject, 0, core.VoteNone),
		testMention(1000, core.MentionVote, 0, core.VotePlusOne),
		testMention(1001, core.MentionDiscuss, 1, core.VoteNone),
	}

	s, err := NewCSVStore(path, zap.NewNop())
	require.NoError(t, err)

	added, err := s.Add(ctx, mentions)
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	require.NoError(t, s.Close())

	// A fresh store over the same file sees the same ledger
	reopened, err := NewCSVStore(path, zap.NewNop())
	require.NoError(t, err)

	rows, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, mentions, rows)

	// And still deduplicates against the loaded rows
	added, err = reopened.Add(ctx, mentions[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestCSVStoreTally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.csv")
	ctx := context.Background()

	s, err := NewCSVStore(path, zap.NewNop())
	require.NoError(t, err)

	_, err = s.Add(ctx, []core.Mention{
		testMention(1000, core.MentionVote, 0, core.VotePlusOne),
		testMention(1000, core.MentionVote, 1, core.VoteMinusOne),
		testMention(1000, core.MentionBody, 2, core.VoteNone),
	})
	require.NoError(t, err)

	tally, err := s.Tally(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, core.VoteTally{Proposal: 1000, PlusOne: 1, MinusOne: 1}, tally)
}

func TestCSVStoreIgnoresMalformedLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.csv")
	require.NoError(t, os.WriteFile(path, []byte("proposal,bogus\nnot,a,ledger\n"), 0644))

	s, err := NewCSVStore(path, zap.NewNop())
	require.NoError(t, err)

	rows, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVStoreEmptyAddDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentions.csv")

	s, err := NewCSVStore(path, zap.NewNop())
	require.NoError(t, err)

	added, err := s.Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
