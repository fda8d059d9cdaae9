package mailbox

import (
	"fmt"
	"strings"
	"time"
)

// Mail header date layouts seen on Apache lists, in the order they are
// tried. The parenthesized variant covers "+0000 (UTC)" style trailers.
var (
	mailDateLayouts = []string{
		"Mon, 02 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 -0700",
	}
	mailDateZoneLayouts = []string{
		"Mon, 02 Jan 2006 15:04:05 -0700 (MST)",
		"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	}
)

// ParseTimestamp parses a message Date header. It tries the plain numeric
// offset format, then the variant with a trailing parenthesized zone name,
// and finally the plain format again after stripping any trailing
// parenthetical.
func ParseTimestamp(dateStr string) (time.Time, error) {
	for _, layout := range mailDateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	for _, layout := range mailDateZoneLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}

	if i := strings.Index(dateStr, " ("); i >= 0 {
		stripped := dateStr[:i]
		for _, layout := range mailDateLayouts {
			if t, err := time.Parse(layout, stripped); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("could not parse timestamp: %q", dateStr)
}
