package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Metadata records the most recent monthly archive already processed, so
// later runs can fetch incrementally
type Metadata struct {
	LastUpdated string `json:"last_updated"`
	LatestYear  int    `json:"latest_mbox_year"`
	LatestMonth int    `json:"latest_mbox_month"`
}

// SaveMetadata writes the metadata file recording the latest fetched month
func SaveMetadata(path string, year, month int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(Metadata{
		LastUpdated: time.Now().UTC().Format(time.RFC3339Nano),
		LatestYear:  year,
		LatestMonth: month,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads the metadata file. A missing or malformed file
// returns an error; callers fall back to a full fetch.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.LatestYear == 0 || meta.LatestMonth < 1 || meta.LatestMonth > 12 {
		return nil, fmt.Errorf("metadata %s has invalid year/month", path)
	}

	return &meta, nil
}

// MonthsToDownload plans which monthly archives to fetch. With usable
// metadata and no explicit daysBack, it resumes from the last processed
// month (re-fetching it to catch late arrivals); otherwise it covers the
// last daysBack days (default 365).
func MonthsToDownload(metadataPath string, daysBack int, now time.Time) []YearMonth {
	if daysBack <= 0 {
		if meta, err := LoadMetadata(metadataPath); err == nil {
			then := time.Date(meta.LatestYear, time.Month(meta.LatestMonth), 1, 0, 0, 0, 0, time.UTC)
			return MonthRange(now, then)
		}
		daysBack = 365
	}

	then := now.AddDate(0, 0, -daysBack)
	return MonthRange(now, then)
}
