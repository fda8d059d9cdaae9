package core

import (
	"context"
)

// MentionStore defines the interface for persisting the mention ledger
type MentionStore interface {
	// Add stores mentions, skipping rows already present. It returns the
	// number of rows actually added.
	Add(ctx context.Context, mentions []Mention) (int, error)

	// List returns every stored mention
	List(ctx context.Context) ([]Mention, error)

	// Tally counts the votes recorded for a proposal
	Tally(ctx context.Context, proposal int) (VoteTally, error)

	// Close releases any resources held by the store
	Close() error
}

// KeysFetcher defines the interface for retrieving a raw KEYS file
type KeysFetcher interface {
	// FetchKeys downloads the KEYS file at url and returns its text
	FetchKeys(ctx context.Context, url string) (string, error)
}

// ArchiveFetcher defines the interface for retrieving monthly mbox archives
type ArchiveFetcher interface {
	// FetchMonth downloads one monthly archive and returns its local path
	FetchMonth(ctx context.Context, list, domain string, year, month int) (string, error)
}

// MentionExtractor defines the interface for harvesting mentions from a
// single mbox archive file
type MentionExtractor interface {
	ProcessArchive(path string) ([]Mention, error)
}
