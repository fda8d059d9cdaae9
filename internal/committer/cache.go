package committer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// cacheFile is the on-disk shape of a persisted committer index
type cacheFile struct {
	LastUpdated string `json:"last_updated"`
	SourceURL   string `json:"source_url"`
	Committers  []Info `json:"committers"`
}

// SaveIndex persists an index to a JSON cache file, creating parent
// directories as needed
func SaveIndex(index *Index, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cacheFile{
		LastUpdated: index.LastUpdated.UTC().Format(time.RFC3339Nano),
		SourceURL:   index.SourceURL,
		Committers:  index.Committers,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode committer cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write committer cache: %w", err)
	}
	return nil
}

// LoadIndex loads a persisted index from a JSON cache file. Any failure
// (missing file, malformed JSON, missing fields) is returned as an error;
// callers treat it as an absent cache rather than a hard failure.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read committer cache: %w", err)
	}

	var cached cacheFile
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to decode committer cache: %w", err)
	}
	if cached.Committers == nil {
		return nil, fmt.Errorf("committer cache %s has no committers field", path)
	}

	lastUpdated, err := time.Parse(time.RFC3339Nano, cached.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cache timestamp: %w", err)
	}

	// Re-normalize through NewInfo so hand-edited caches still satisfy
	// the email invariants
	committers := make([]Info, 0, len(cached.Committers))
	for _, c := range cached.Committers {
		committers = append(committers, NewInfo(c.Name, c.Emails, c.RawUID))
	}

	return NewIndex(committers, lastUpdated, cached.SourceURL), nil
}
