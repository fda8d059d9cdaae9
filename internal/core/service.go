package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// TrackerService is the core service for harvesting proposal mentions from
// mailing list archives into the mention ledger
type TrackerService struct {
	extractor MentionExtractor
	store     MentionStore
	logger    *zap.Logger
}

// NewTrackerService creates a new tracker service
func NewTrackerService(extractor MentionExtractor, store MentionStore, logger *zap.Logger) *TrackerService {
	return &TrackerService{
		extractor: extractor,
		store:     store,
		logger:    logger,
	}
}

// ProcessDirectory processes every mbox archive in a directory. A failure
// in one archive is logged and does not abort the rest of the batch.
func (s *TrackerService) ProcessDirectory(ctx context.Context, dir string) (ProcessStats, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.mbox"))
	if err != nil {
		return ProcessStats{}, fmt.Errorf("failed to list archives in %s: %w", dir, err)
	}
	sort.Strings(paths)

	s.logger.Info("Processing mbox archives",
		zap.String("directory", dir),
		zap.Int("files", len(paths)))

	stats := ProcessStats{Files: len(paths)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		mentions, err := s.extractor.ProcessArchive(path)
		if err != nil {
			stats.Failed++
			s.logger.Error("Failed to process archive",
				zap.String("file", filepath.Base(path)),
				zap.Error(err))
			continue
		}
		stats.Mentions += len(mentions)

		added, err := s.store.Add(ctx, mentions)
		if err != nil {
			stats.Failed++
			s.logger.Error("Failed to store mentions",
				zap.String("file", filepath.Base(path)),
				zap.Error(err))
			continue
		}
		stats.Added += added

		s.logger.Info("Processed archive",
			zap.String("file", filepath.Base(path)),
			zap.Int("mentions", len(mentions)),
			zap.Int("added", added))
	}

	return stats, nil
}

// Tally returns the counted votes for a proposal
func (s *TrackerService) Tally(ctx context.Context, proposal int) (VoteTally, error) {
	return s.store.Tally(ctx, proposal)
}
