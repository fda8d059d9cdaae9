package committer

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// pubLineRe marks the start of a PGP key block. Both the old
	// ("pub   4096R/99369B56 2011-10-06") and new
	// ("pub   rsa4096 2023-05-03 [SC]") formats begin this way.
	pubLineRe = regexp.MustCompile(`(?m)^pub\s`)

	// uidRe captures the display name (possibly with a trust indicator
	// and a parenthetical comment) and the angle-bracketed email of a
	// uid line.
	uidRe = regexp.MustCompile(`(?m)^uid\s+(.+?)\s*<([^>]+)>`)

	bracketRe = regexp.MustCompile(`\[[^\]]*\]`)
	parenRe   = regexp.MustCompile(`\([^)]*\)`)
)

// Info represents one project committer extracted from a KEYS file. A
// committer with multiple PGP keys is consolidated into a single entry
// holding every email address seen across their key blocks.
type Info struct {
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
	RawUID string   `json:"raw_uid"`
}

// NewInfo creates a committer Info with emails lowercased, trimmed,
// deduplicated and sorted
func NewInfo(name string, emails []string, rawUID string) Info {
	seen := make(map[string]struct{}, len(emails))
	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		normalized = append(normalized, email)
	}
	sort.Strings(normalized)

	return Info{
		Name:   name,
		Emails: normalized,
		RawUID: rawUID,
	}
}

// ParseKeysFile parses an Apache-style PGP KEYS file into committer
// records. Blocks without a uid line, and blocks whose display name is
// empty after stripping trust indicators and comments, are skipped.
// Blocks sharing a cleaned name are merged: their email sets are unioned
// and the first-seen raw uid is retained. Output is sorted by name so the
// result is independent of block order.
func ParseKeysFile(keysText string) []Info {
	type blockData struct {
		emails map[string]struct{}
		rawUID string
	}
	byName := make(map[string]*blockData)

	for _, block := range splitKeyBlocks(keysText) {
		uids := uidRe.FindAllStringSubmatch(block, -1)
		if len(uids) == 0 {
			continue
		}

		// The first uid is the primary identity for the block
		primaryName, primaryEmail := uids[0][1], uids[0][2]

		name := bracketRe.ReplaceAllString(primaryName, "")
		name = parenRe.ReplaceAllString(name, "")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		entry, ok := byName[name]
		if !ok {
			rawName := strings.TrimSpace(bracketRe.ReplaceAllString(primaryName, ""))
			entry = &blockData{
				emails: make(map[string]struct{}),
				rawUID: rawName + " <" + strings.TrimSpace(primaryEmail) + ">",
			}
			byName[name] = entry
		}

		// All uid lines contribute emails, not just the primary
		for _, uid := range uids {
			email := strings.ToLower(strings.TrimSpace(uid[2]))
			if email != "" {
				entry.emails[email] = struct{}{}
			}
		}
	}

	committers := make([]Info, 0, len(byName))
	for name, entry := range byName {
		emails := make([]string, 0, len(entry.emails))
		for email := range entry.emails {
			emails = append(emails, email)
		}
		committers = append(committers, NewInfo(name, emails, entry.rawUID))
	}
	sort.Slice(committers, func(i, j int) bool {
		return committers[i].Name < committers[j].Name
	})

	return committers
}

// splitKeyBlocks splits the KEYS text at every line starting with "pub".
// Text before the first pub line (the file preamble) forms its own block;
// it carries no uid lines and falls out naturally.
func splitKeyBlocks(keysText string) []string {
	starts := pubLineRe.FindAllStringIndex(keysText, -1)

	var blocks []string
	prev := 0
	for _, loc := range starts {
		if loc[0] > prev {
			blocks = append(blocks, keysText[prev:loc[0]])
		}
		prev = loc[0]
	}
	if prev < len(keysText) {
		blocks = append(blocks, keysText[prev:])
	}

	return blocks
}
