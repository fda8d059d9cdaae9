package mailbox

import (
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/ipperhq/ipper/internal/core"
	"go.uber.org/zap"
)

// Classifier decides whether one message payload carries a counted vote
type Classifier interface {
	Classify(payload, fromHeader string) core.VoteResult
}

// Extractor harvests proposal mentions from mbox archive files
type Extractor struct {
	pattern        *regexp.Regexp
	voteKeyword    string
	discussKeyword string
	classifier     Classifier
	logger         *zap.Logger
}

// NewExtractor creates an extractor for the given proposal-id pattern. The
// pattern must contain one capturing group holding the numeric proposal id
// (e.g. `(?i)KIP-(\d+)`).
func NewExtractor(pattern, voteKeyword, discussKeyword string, classifier Classifier, logger *zap.Logger) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid proposal pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("proposal pattern %q has no capturing group", pattern)
	}

	return &Extractor{
		pattern:        re,
		voteKeyword:    voteKeyword,
		discussKeyword: discussKeyword,
		classifier:     classifier,
		logger:         logger,
	}, nil
}

// ProcessArchive reads one monthly mbox archive and returns every proposal
// mention found in it, deduplicated by full-row equality. Messages with
// unparseable timestamps or payloads are dropped with a diagnostic and
// never abort the archive.
func (e *Extractor) ProcessArchive(path string) ([]core.Mention, error) {
	year, month, err := parseArchiveName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	var mentions []core.Mention
	seen := make(map[core.Mention]struct{})
	record := func(m core.Mention) {
		if _, dup := seen[m]; dup {
			return
		}
		seen[m] = struct{}{}
		mentions = append(mentions, m)
	}

	reader := mbox.NewReader(f)
	for key := 0; ; key++ {
		msgReader, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return mentions, fmt.Errorf("failed to read message %d: %w", key, err)
		}

		msg, err := mail.ReadMessage(msgReader)
		if err != nil {
			e.logger.Warn("Skipping unparseable message",
				zap.String("file", filepath.Base(path)),
				zap.Int("key", key),
				zap.Error(err))
			continue
		}

		e.processMessage(msg, key, year, month, record, path)
	}

	return mentions, nil
}

func (e *Extractor) processMessage(msg *mail.Message, key, year, month int, record func(core.Mention), path string) {
	subject := msg.Header.Get("Subject")
	sender := msg.Header.Get("From")

	timestamp, err := ParseTimestamp(msg.Header.Get("Date"))
	if err != nil {
		e.logger.Warn("Could not parse message timestamp",
			zap.String("file", filepath.Base(path)),
			zap.Int("key", key),
			zap.Error(err))
		return
	}
	timestamp = timestamp.UTC()

	base := core.Mention{
		MessageKey: key,
		Year:       year,
		Month:      month,
		Timestamp:  timestamp,
		Sender:     sender,
	}

	isVote := false
	subjectID := 0
	if m := e.pattern.FindStringSubmatch(subject); m != nil {
		subjectID, _ = strconv.Atoi(m[1])

		mention := base
		mention.Proposal = subjectID
		mention.Type = core.MentionSubject
		record(mention)

		if strings.Contains(subject, e.voteKeyword) {
			isVote = true
		} else if strings.Contains(subject, e.discussKeyword) {
			mention = base
			mention.Proposal = subjectID
			mention.Type = core.MentionDiscuss
			record(mention)
		}
	}

	payloads, err := ExtractPayloads(msg, e.logger)
	if err != nil {
		e.logger.Warn("Error extracting message payload",
			zap.String("file", filepath.Base(path)),
			zap.Int("key", key),
			zap.Error(err))
		return
	}

	for _, payload := range payloads {
		if isVote {
			mention := base
			mention.Proposal = subjectID
			mention.Type = core.MentionVote
			mention.Vote = e.classifier.Classify(payload, sender)
			record(mention)
		}

		for _, m := range e.pattern.FindAllStringSubmatch(payload, -1) {
			bodyID, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			mention := base
			mention.Proposal = bodyID
			mention.Type = core.MentionBody
			record(mention)
		}
	}
}

// parseArchiveName recovers the year and month from an archive filename of
// the form "<list>_<domain>-<year>-<month>.mbox"
func parseArchiveName(path string) (int, int, error) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	parts := strings.Split(name, "-")
	if len(parts) < 3 {
		return 0, 0, fmt.Errorf("archive name %q missing year-month suffix", filepath.Base(path))
	}

	year, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, 0, fmt.Errorf("archive name %q has invalid year: %w", filepath.Base(path), err)
	}
	month, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("archive name %q has invalid month: %w", filepath.Base(path), err)
	}

	return year, month, nil
}
