package committer

import (
	"strings"
	"time"

	"github.com/ipperhq/ipper/internal/fuzzy"
)

// DefaultNameThreshold is the minimum fuzzy name score (0-100) accepted as
// a committer match when no email evidence is available
const DefaultNameThreshold = 70.0

// MatchMethod describes how a committer identity was resolved
type MatchMethod string

const (
	MatchByEmail MatchMethod = "email"
	MatchByName  MatchMethod = "name"
	MatchNone    MatchMethod = "none"
)

// Index holds the committers of a project and supports exact email and
// fuzzy name lookup. It is built once and treated as read-only for the
// duration of a processing run.
type Index struct {
	Committers  []Info
	LastUpdated time.Time
	SourceURL   string

	// emailIndex is a derived view rebuilt on construction, never
	// mutated independently of Committers
	emailIndex map[string]*Info
}

// NewIndex builds an index over the supplied committers. If two committers
// abnormally share an email address, the first one in slice order wins.
func NewIndex(committers []Info, lastUpdated time.Time, sourceURL string) *Index {
	index := &Index{
		Committers:  committers,
		LastUpdated: lastUpdated,
		SourceURL:   sourceURL,
		emailIndex:  make(map[string]*Info),
	}
	for i := range index.Committers {
		for _, email := range index.Committers[i].Emails {
			key := strings.ToLower(strings.TrimSpace(email))
			if _, ok := index.emailIndex[key]; !ok {
				index.emailIndex[key] = &index.Committers[i]
			}
		}
	}
	return index
}

// MatchEmailExact looks up an email address exactly, case-insensitively
// and ignoring surrounding whitespace. It returns nil if no committer
// holds the address.
func (ix *Index) MatchEmailExact(email string) *Info {
	if email == "" {
		return nil
	}
	return ix.emailIndex[strings.ToLower(strings.TrimSpace(email))]
}

// MatchNameFuzzy finds the committer whose name scores highest against the
// supplied name using a token-order-insensitive similarity ratio. Equal
// scores keep the first committer encountered. If the best score is below
// threshold it returns (nil, bestScore) so callers can inspect near
// misses.
func (ix *Index) MatchNameFuzzy(name string, threshold float64) (*Info, float64) {
	if strings.TrimSpace(name) == "" {
		return nil, 0.0
	}

	var best *Info
	bestScore := 0.0
	for i := range ix.Committers {
		score := fuzzy.TokenSortRatio(name, ix.Committers[i].Name)
		if score > bestScore {
			bestScore = score
			best = &ix.Committers[i]
		}
	}

	if bestScore >= threshold {
		return best, bestScore
	}
	return nil, bestScore
}

// IsCommitter resolves a (name, email) pair against the index. Exact email
// evidence is authoritative and always takes precedence; fuzzy name
// matching is only consulted when the email is unknown, covering
// committers who vote from a personal address.
func (ix *Index) IsCommitter(name, email string, nameThreshold float64) (bool, float64, MatchMethod) {
	if match := ix.MatchEmailExact(email); match != nil {
		return true, 100.0, MatchByEmail
	}

	if match, score := ix.MatchNameFuzzy(name, nameThreshold); match != nil {
		return true, score, MatchByName
	}

	return false, 0.0, MatchNone
}
