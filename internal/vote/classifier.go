package vote

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/ipperhq/ipper/internal/committer"
	"github.com/ipperhq/ipper/internal/core"
	"github.com/ipperhq/ipper/internal/fuzzy"
	"go.uber.org/zap"
)

const (
	// quotePrefixWidth bounds the reply-quote check to the start of the
	// line so a ">" later in a long attribution line does not exclude it
	quotePrefixWidth = 10

	// Similarity thresholds for the explicit marker parentheticals
	nonBindingThreshold = 80.0
	bindingThreshold    = 85.0
)

var (
	voteTokenRe     = regexp.MustCompile(`([+-]1|0)`)
	signedVoteRe    = regexp.MustCompile(`[+-]1`)
	parentheticalRe = regexp.MustCompile(`\(([^)]*)\)`)
)

// Classifier decides whether an email body contains a counted (binding)
// vote. A vote counts either because the author explicitly marked it
// "(binding)" (with fuzzy tolerance for typos), or because the sender is a
// known committer. Explicit markers always win over inference, and an
// explicit "(non-binding)" marker always wins over everything.
type Classifier struct {
	index         *committer.Index
	nameThreshold float64
	logger        *zap.Logger
}

// NewClassifier creates a new vote classifier. The committer index may be
// nil, in which case only explicitly marked votes are counted.
func NewClassifier(index *committer.Index, nameThreshold float64, logger *zap.Logger) *Classifier {
	return &Classifier{
		index:         index,
		nameThreshold: nameThreshold,
		logger:        logger,
	}
}

// Classify scans one message payload for a binding vote and returns its
// polarity, or VoteNone when the message carries no counted vote.
func (c *Classifier) Classify(payload, fromHeader string) core.VoteResult {
	lines := strings.Split(payload, "\n")

	// Pass 1: explicit markers. A vote token on a non-quoted line with a
	// "(binding)"-like parenthetical decides immediately, and a
	// "(non-binding)"-like parenthetical on such a line vetoes the whole
	// message.
	for _, line := range lines {
		if isQuoted(line) {
			continue
		}
		token := voteTokenRe.FindStringSubmatch(line)
		if token == nil {
			continue
		}

		parens := parentheticalRe.FindAllStringSubmatch(line, -1)
		for _, paren := range parens {
			if isNonBindingMarker(paren[1]) {
				return core.VoteNone
			}
		}
		for _, paren := range parens {
			if isBindingMarker(paren[1]) {
				return normalizeToken(token[1])
			}
		}
	}

	// Pass 2: committer inference for votes that forgot the marker
	if c.index == nil {
		return core.VoteNone
	}

	name, email := parseFromHeader(fromHeader)
	matched, confidence, method := c.index.IsCommitter(name, email, c.nameThreshold)
	if !matched {
		return core.VoteNone
	}

	// Prefer +1/-1 over 0: an incidental zero ("I have 0 concerns")
	// must not be read as a vote while a real +1/-1 exists anywhere in
	// the message.
	for _, line := range lines {
		if isQuoted(line) {
			continue
		}
		if token := signedVoteRe.FindString(line); token != "" {
			c.logInferred(token, fromHeader, confidence, method)
			return normalizeToken(token)
		}
	}
	for _, line := range lines {
		if isQuoted(line) {
			continue
		}
		if strings.Contains(line, "0") {
			c.logInferred("0", fromHeader, confidence, method)
			return core.VoteZero
		}
	}

	return core.VoteNone
}

func (c *Classifier) logInferred(token, fromHeader string, confidence float64, method committer.MatchMethod) {
	if c.logger == nil {
		return
	}
	c.logger.Debug("Detected unmarked binding vote from committer",
		zap.String("vote", token),
		zap.String("from", fromHeader),
		zap.Float64("confidence", confidence),
		zap.String("method", string(method)))
}

// isQuoted reports whether a line is a reply quote: a ">" anywhere within
// its first quotePrefixWidth characters
func isQuoted(line string) bool {
	prefix := line
	if len(prefix) > quotePrefixWidth {
		prefix = prefix[:quotePrefixWidth]
	}
	return strings.Contains(prefix, ">")
}

// isNonBindingMarker reports whether a parenthetical reads as
// "non-binding", allowing typos and missing hyphens. The "non" prefix
// guard keeps plain "binding" (about 78% similar to "non-binding") from
// matching.
func isNonBindingMarker(text string) bool {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "non") {
		return false
	}
	return fuzzy.Ratio(text, "non-binding") >= nonBindingThreshold
}

// isBindingMarker reports whether a parenthetical reads as "binding",
// allowing typos
func isBindingMarker(text string) bool {
	return fuzzy.Ratio(text, "binding") >= bindingThreshold
}

func normalizeToken(token string) core.VoteResult {
	switch token {
	case "+1", "1":
		return core.VotePlusOne
	case "-1":
		return core.VoteMinusOne
	default:
		return core.VoteZero
	}
}

// parseFromHeader splits a raw From header into display name and address.
// Headers that fail RFC 5322 parsing yield an empty pair, which simply
// fails committer lookup.
func parseFromHeader(fromHeader string) (string, string) {
	addr, err := mail.ParseAddress(fromHeader)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(addr.Name), strings.TrimSpace(addr.Address)
}
