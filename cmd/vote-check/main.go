package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"

	"go.uber.org/zap"

	"github.com/ipperhq/ipper/internal/committer"
	"github.com/ipperhq/ipper/internal/core"
	"github.com/ipperhq/ipper/internal/logging"
	"github.com/ipperhq/ipper/internal/mailbox"
	"github.com/ipperhq/ipper/internal/vote"
)

var (
	inputFile     = flag.String("file", "", "Input email file (use stdin if not specified)")
	keysCache     = flag.String("keys-cache", "", "Path to a cached committer index (JSON)")
	noCommitters  = flag.Bool("no-committers", false, "Disable committer inference, use explicit markers only")
	nameThreshold = flag.Float64("name-threshold", committer.DefaultNameThreshold, "Minimum fuzzy name match score for committer inference")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog       = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load the committer index if one was supplied
	var index *committer.Index
	if !*noCommitters && *keysCache != "" {
		index, err = committer.LoadIndex(*keysCache)
		if err != nil {
			logger.Fatal("Failed to load committer index", zap.Error(err), zap.String("path", *keysCache))
		}
		logger.Info("Loaded committer index",
			zap.String("path", *keysCache),
			zap.Int("committers", len(index.Committers)))
	} else {
		logger.Info("Running without a committer index; only explicit vote markers are detected")
	}

	classifier := vote.NewClassifier(index, *nameThreshold, logger)

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	from := msg.Header.Get("From")
	subject := msg.Header.Get("Subject")

	payloads, err := mailbox.ExtractPayloads(msg, logger)
	if err != nil {
		logger.Fatal("Failed to extract email payloads", zap.Error(err))
	}

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", from)
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Payloads: %d\n", len(payloads))

	// Classify each usable payload; the first counted vote wins
	result := core.VoteNone
	for _, payload := range payloads {
		if v := classifier.Classify(payload, from); v != core.VoteNone {
			result = v
			break
		}
	}

	fmt.Printf("\n=== Results ===\n")
	if result == core.VoteNone {
		fmt.Printf("Vote: none\n")
	} else {
		fmt.Printf("Vote: %s\n", result)
	}
}
