package committer

import (
	"context"
	"fmt"
	"time"

	"github.com/ipperhq/ipper/internal/core"
	"go.uber.org/zap"
)

// Provider returns an up-to-date committer index, reusing the file-backed
// cache while it is fresh and re-downloading the KEYS file once it goes
// stale
type Provider struct {
	fetcher   core.KeysFetcher
	cachePath string
	maxAge    time.Duration
	logger    *zap.Logger
}

// NewProvider creates a new committer index provider
func NewProvider(fetcher core.KeysFetcher, cachePath string, maxAgeDays int, logger *zap.Logger) *Provider {
	return &Provider{
		fetcher:   fetcher,
		cachePath: cachePath,
		maxAge:    time.Duration(maxAgeDays) * 24 * time.Hour,
		logger:    logger,
	}
}

// Get returns the committer index for the supplied KEYS URL. A cached
// index younger than the max age is returned as-is unless forceRefresh is
// set; otherwise the KEYS file is downloaded, parsed and cached.
func (p *Provider) Get(ctx context.Context, keysURL string, forceRefresh bool) (*Index, error) {
	if !forceRefresh {
		if index, err := LoadIndex(p.cachePath); err == nil {
			age := time.Since(index.LastUpdated)
			if age < p.maxAge {
				p.logger.Info("Using cached committer index",
					zap.String("path", p.cachePath),
					zap.Duration("age", age),
					zap.Int("committers", len(index.Committers)))
				return index, nil
			}
			p.logger.Info("Committer cache is stale, refreshing",
				zap.String("path", p.cachePath),
				zap.Duration("age", age))
		} else {
			p.logger.Debug("No usable committer cache", zap.Error(err))
		}
	}

	p.logger.Info("Downloading KEYS file", zap.String("url", keysURL))
	keysText, err := p.fetcher.FetchKeys(ctx, keysURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch KEYS file: %w", err)
	}

	committers := ParseKeysFile(keysText)
	p.logger.Info("Parsed KEYS file", zap.Int("committers", len(committers)))

	index := NewIndex(committers, time.Now().UTC(), keysURL)
	if err := SaveIndex(index, p.cachePath); err != nil {
		// A failed cache write is not fatal, the index is still usable
		p.logger.Error("Failed to save committer cache", zap.Error(err))
	} else {
		p.logger.Info("Saved committer index", zap.String("path", p.cachePath))
	}

	return index, nil
}
