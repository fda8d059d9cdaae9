package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ipperhq/ipper/internal/archive"
	"github.com/ipperhq/ipper/internal/config"
	"github.com/ipperhq/ipper/internal/core"
	"github.com/ipperhq/ipper/internal/di"
)

var (
	project      = flag.String("project", "", "Project to track (kafka, flink); overrides config")
	daysBack     = flag.Int("days-back", 0, "Fetch archives covering this many days; overrides config")
	refreshKeys  = flag.Bool("refresh-keys", false, "Force a re-download of the committer KEYS file")
	skipDownload = flag.Bool("skip-download", false, "Skip archive downloads and only process local files")
	tallyFlag    = flag.Int("tally", 0, "Print the vote tally for the given proposal number and exit")
)

func main() {
	flag.Parse()

	// Flags become environment overrides so the configuration layer stays
	// the single source of truth.
	if *project != "" {
		os.Setenv("IPPER_PROJECT_NAME", *project)
	}
	if *daysBack > 0 {
		os.Setenv("IPPER_MAIL_DAYS_BACK", strconv.Itoa(*daysBack))
	}
	if *refreshKeys {
		os.Setenv("IPPER_COMMITTERS_FORCE_REFRESH", "true")
	}

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	projectCfg config.ProjectConfig,
	fetcher *archive.HTTPFetcher,
	service *core.TrackerService,
	store core.MentionStore,
) error {
	defer logger.Sync()
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close mention store", zap.Error(err))
		}
	}()

	ctx := context.Background()

	if *tallyFlag > 0 {
		return printTally(ctx, service, projectCfg, *tallyFlag)
	}

	list := cfg.GetString("mail.list")
	archiveDir := cfg.GetString("mail.archive_dir")
	metadataFile := cfg.GetString("mail.metadata_file")

	if !*skipDownload {
		back := cfg.GetInt("mail.days_back")
		if cfg.GetBool("mail.use_metadata") {
			back = 0
		}

		months := archive.MonthsToDownload(metadataFile, back, time.Now().UTC())
		logger.Info("Fetching mailing list archives",
			zap.String("project", projectCfg.Name),
			zap.String("list", list),
			zap.Int("months", len(months)))

		if _, err := fetcher.FetchMonths(ctx, list, projectCfg.Domain, months); err != nil {
			return fmt.Errorf("failed to fetch archives: %w", err)
		}

		if len(months) > 0 {
			latest := months[len(months)-1]
			if err := archive.SaveMetadata(metadataFile, latest.Year, latest.Month); err != nil {
				logger.Warn("Failed to save archive metadata", zap.Error(err))
			}
		}
	}

	stats, err := service.ProcessDirectory(ctx, archiveDir)
	if err != nil {
		return fmt.Errorf("failed to process archives: %w", err)
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Project: %s\n", projectCfg.Name)
	fmt.Printf("Archives processed: %d\n", stats.Files)
	fmt.Printf("Archives failed: %d\n", stats.Failed)
	fmt.Printf("Mentions found: %d\n", stats.Mentions)
	fmt.Printf("Mentions added: %d\n", stats.Added)

	return nil
}

// printTally reports the recorded votes for a single proposal
func printTally(ctx context.Context, service *core.TrackerService, projectCfg config.ProjectConfig, proposal int) error {
	tally, err := service.Tally(ctx, proposal)
	if err != nil {
		return fmt.Errorf("failed to tally votes: %w", err)
	}

	fmt.Printf("\n=== Vote Tally: %s-%d ===\n", projectCfg.ProposalPrefix, proposal)
	fmt.Printf("+1: %d\n", tally.PlusOne)
	fmt.Printf(" 0: %d\n", tally.Zero)
	fmt.Printf("-1: %d\n", tally.MinusOne)

	return nil
}
