package di

import (
	"context"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/ipperhq/ipper/internal/archive"
	"github.com/ipperhq/ipper/internal/committer"
	"github.com/ipperhq/ipper/internal/config"
	"github.com/ipperhq/ipper/internal/core"
	"github.com/ipperhq/ipper/internal/factory"
	"github.com/ipperhq/ipper/internal/logging"
	"github.com/ipperhq/ipper/internal/mailbox"
	"github.com/ipperhq/ipper/internal/vote"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register project profile
	if err := container.Provide(func(cfg *config.Config) (config.ProjectConfig, error) {
		return cfg.GetProject()
	}); err != nil {
		return nil, err
	}

	// Register HTTP fetcher for KEYS files and mbox archives
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*archive.HTTPFetcher, error) {
		timeout, err := cfg.GetDuration("mail.download_timeout")
		if err != nil {
			timeout = 30 * time.Second
		}
		return archive.NewHTTPFetcher(
			cfg.GetString("mail.archive_dir"),
			cfg.GetBool("mail.overwrite"),
			timeout,
			logger,
		), nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *archive.HTTPFetcher) core.KeysFetcher {
		return f
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *archive.HTTPFetcher) core.ArchiveFetcher {
		return f
	}); err != nil {
		return nil, err
	}

	// Register committer index provider
	if err := container.Provide(func(fetcher core.KeysFetcher, cfg *config.Config, logger *zap.Logger) *committer.Provider {
		committersCfg := cfg.GetCommitters()
		return committer.NewProvider(fetcher, committersCfg.CachePath, committersCfg.MaxAgeDays, logger)
	}); err != nil {
		return nil, err
	}

	// Register committer index. A disabled index resolves to nil and the
	// classifier falls back to explicit markers only.
	if err := container.Provide(func(p *committer.Provider, project config.ProjectConfig, cfg *config.Config) (*committer.Index, error) {
		if !cfg.GetCommitters().Enabled {
			return nil, nil
		}
		return p.Get(context.Background(), project.KeysURL, cfg.GetBool("committers.force_refresh"))
	}); err != nil {
		return nil, err
	}

	// Register vote classifier
	if err := container.Provide(func(index *committer.Index, cfg *config.Config, logger *zap.Logger) *vote.Classifier {
		return vote.NewClassifier(index, cfg.GetCommitters().NameThreshold, logger)
	}); err != nil {
		return nil, err
	}

	// Register mention extractor
	if err := container.Provide(func(project config.ProjectConfig, classifier *vote.Classifier, logger *zap.Logger) (core.MentionExtractor, error) {
		return mailbox.NewExtractor(
			project.Pattern,
			project.VoteKeyword,
			project.DiscussKeyword,
			classifier,
			logger,
		)
	}); err != nil {
		return nil, err
	}

	// Register mention store
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory) (core.MentionStore, error) {
		return f.CreateMentionStore()
	}); err != nil {
		return nil, err
	}

	// Register tracker service
	if err := container.Provide(core.NewTrackerService); err != nil {
		return nil, err
	}

	return container, nil
}
