package core

import (
	"fmt"
	"time"
)

// VoteResult represents the outcome of classifying one email message for a
// counted (binding) vote. VoteNone means no counted vote was found, which
// is distinct from an explicit zero vote.
type VoteResult int

const (
	VoteNone VoteResult = iota
	VotePlusOne
	VoteZero
	VoteMinusOne
)

// String returns the wire representation of the vote ("+1", "0", "-1").
// VoteNone renders as the empty string.
func (v VoteResult) String() string {
	switch v {
	case VotePlusOne:
		return "+1"
	case VoteZero:
		return "0"
	case VoteMinusOne:
		return "-1"
	default:
		return ""
	}
}

// Counted reports whether the result is an actual vote
func (v VoteResult) Counted() bool {
	return v != VoteNone
}

// ParseVoteResult converts a wire representation back into a VoteResult.
// The empty string maps to VoteNone.
func ParseVoteResult(s string) (VoteResult, error) {
	switch s {
	case "+1", "1":
		return VotePlusOne, nil
	case "0":
		return VoteZero, nil
	case "-1":
		return VoteMinusOne, nil
	case "":
		return VoteNone, nil
	default:
		return VoteNone, fmt.Errorf("invalid vote result: %q", s)
	}
}

// MentionType represents where in a message a proposal was mentioned
type MentionType string

const (
	MentionSubject MentionType = "subject"
	MentionVote    MentionType = "vote"
	MentionDiscuss MentionType = "discuss"
	MentionBody    MentionType = "body"
)

// ParseMentionType converts a string into a MentionType
func ParseMentionType(s string) (MentionType, error) {
	switch MentionType(s) {
	case MentionSubject, MentionVote, MentionDiscuss, MentionBody:
		return MentionType(s), nil
	default:
		return "", fmt.Errorf("invalid mention type: %q", s)
	}
}

// Mention represents one recorded occurrence of a proposal identifier in a
// mailing list message. Rows are value types and are deduplicated by full
// equality.
type Mention struct {
	Proposal   int
	Type       MentionType
	MessageKey int
	Year       int
	Month      int
	Timestamp  time.Time
	Sender     string
	Vote       VoteResult
}

// VoteTally represents the counted votes for a single proposal
type VoteTally struct {
	Proposal int
	PlusOne  int
	Zero     int
	MinusOne int
}

// ProcessStats summarizes a batch processing run over archive files
type ProcessStats struct {
	Files    int
	Failed   int
	Mentions int
	Added    int
}
