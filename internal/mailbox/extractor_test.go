package mailbox

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ipperhq/ipper/internal/core"
)

// stubClassifier returns a fixed result for every payload
type stubClassifier struct {
	result core.VoteResult
}

func (s stubClassifier) Classify(payload, fromHeader string) core.VoteResult {
	return s.result
}

const testArchive = `From dev-return-123 Mon Feb  2 10:00:00 2026
From: Jane Doe <jane@apache.org>
To: dev@kafka.apache.org
Subject: [VOTE] KIP-1000: Improve tiered storage
Date: Mon, 02 Feb 2026 10:00:00 +0000

+1 (binding)

From dev-return-124 Mon Feb  2 11:00:00 2026
From: Bob <bob@example.com>
To: dev@kafka.apache.org
Subject: [DISCUSS] KIP-1001: Another idea
Date: Mon, 02 Feb 2026 11:00:00 +0000

I think this relates to KIP-999 as well.
KIP-999 keeps coming up.

From dev-return-125 Mon Feb  2 12:00:00 2026
From: Eve <eve@example.com>
To: dev@kafka.apache.org
Subject: [VOTE] KIP-1000: Improve tiered storage
Date: whenever

+1 (binding)
`

func writeTestArchive(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestExtractor(t *testing.T, result core.VoteResult) *Extractor {
	t.Helper()
	e, err := NewExtractor(`(?i)KIP-(\d+)`, "VOTE", "DISCUSS", stubClassifier{result: result}, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestNewExtractorRejectsBadPatterns(t *testing.T) {
	_, err := NewExtractor(`KIP-(\d+`, "VOTE", "DISCUSS", stubClassifier{}, zap.NewNop())
	assert.Error(t, err)

	// A valid pattern without a capturing group is also rejected
	_, err = NewExtractor(`KIP-\d+`, "VOTE", "DISCUSS", stubClassifier{}, zap.NewNop())
	assert.Error(t, err)
}

func TestProcessArchive(t *testing.T) {
	path := writeTestArchive(t, "dev_kafka.apache.org-2026-2.mbox", testArchive)
	e := newTestExtractor(t, core.VotePlusOne)

	mentions, err := e.ProcessArchive(path)
	require.NoError(t, err)

	voteTime := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	discussTime := time.Date(2026, 2, 2, 11, 0, 0, 0, time.UTC)

	expected := []core.Mention{
		{Proposal: 1000, Type: core.MentionSubject, MessageKey: 0, Year: 2026, Month: 2,
			Timestamp: voteTime, Sender: "Jane Doe <jane@apache.org>"},
		{Proposal: 1000, Type: core.MentionVote, MessageKey: 0, Year: 2026, Month: 2,
			Timestamp: voteTime, Sender: "Jane Doe <jane@apache.org>", Vote: core.VotePlusOne},
		{Proposal: 1001, Type: core.MentionSubject, MessageKey: 1, Year: 2026, Month: 2,
			Timestamp: discussTime, Sender: "Bob <bob@example.com>"},
		{Proposal: 1001, Type: core.MentionDiscuss, MessageKey: 1, Year: 2026, Month: 2,
			Timestamp: discussTime, Sender: "Bob <bob@example.com>"},
		{Proposal: 999, Type: core.MentionBody, MessageKey: 1, Year: 2026, Month: 2,
			Timestamp: discussTime, Sender: "Bob <bob@example.com>"},
	}
	assert.Equal(t, expected, mentions)
}

func TestProcessArchiveSkipsBadTimestamps(t *testing.T) {
	path := writeTestArchive(t, "dev_kafka.apache.org-2026-2.mbox", testArchive)
	e := newTestExtractor(t, core.VotePlusOne)

	mentions, err := e.ProcessArchive(path)
	require.NoError(t, err)

	// The third message has an unparseable Date header and contributes
	// nothing
	for _, m := range mentions {
		assert.NotEqual(t, 2, m.MessageKey)
	}
}

func TestProcessArchiveDeduplicatesBodyMentions(t *testing.T) {
	path := writeTestArchive(t, "dev_kafka.apache.org-2026-2.mbox", testArchive)
	e := newTestExtractor(t, core.VotePlusOne)

	mentions, err := e.ProcessArchive(path)
	require.NoError(t, err)

	// KIP-999 appears twice in the same body but is recorded once
	count := 0
	for _, m := range mentions {
		if m.Proposal == 999 && m.Type == core.MentionBody {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestProcessArchiveBadFilename(t *testing.T) {
	e := newTestExtractor(t, core.VoteNone)

	_, err := e.ProcessArchive(filepath.Join(t.TempDir(), "archive.mbox"))
	assert.Error(t, err)
}

func TestProcessArchiveMissingFile(t *testing.T) {
	e := newTestExtractor(t, core.VoteNone)

	_, err := e.ProcessArchive(filepath.Join(t.TempDir(), "dev_kafka.apache.org-2026-2.mbox"))
	assert.Error(t, err)
}
