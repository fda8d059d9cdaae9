package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampStandardFormat(t *testing.T) {
	ts, err := ParseTimestamp("Sat, 07 Feb 2026 12:00:00 +0000")
	require.NoError(t, err)

	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, time.February, ts.Month())
	assert.Equal(t, 7, ts.Day())
	assert.Equal(t, 12, ts.Hour())
	assert.Equal(t, 0, ts.Minute())
}

func TestParseTimestampUnpaddedDay(t *testing.T) {
	ts, err := ParseTimestamp("Sat, 7 Feb 2026 12:00:00 +0000")
	require.NoError(t, err)
	assert.Equal(t, 7, ts.Day())
}

func TestParseTimestampWithZoneName(t *testing.T) {
	ts, err := ParseTimestamp("Sat, 07 Feb 2026 12:00:00 +0000 (UTC)")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, time.February, ts.Month())
}

func TestParseTimestampWithOtherZoneName(t *testing.T) {
	ts, err := ParseTimestamp("Sat, 07 Feb 2026 04:00:00 -0800 (PST)")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
}

func TestParseTimestampNegativeOffset(t *testing.T) {
	ts, err := ParseTimestamp("Sat, 07 Feb 2026 04:00:00 -0800")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, time.February, ts.Month())
	assert.Equal(t, 12, ts.UTC().Hour())
}

func TestParseTimestampInvalid(t *testing.T) {
	_, err := ParseTimestamp("not a date")
	assert.Error(t, err)

	_, err = ParseTimestamp("2026-02-07T12:00:00Z")
	assert.Error(t, err)
}

func TestParseTimestampRealWorldExamples(t *testing.T) {
	for _, dateStr := range []string{
		"Mon, 2 Feb 2026 08:15:30 +0100",
		"Tue, 17 Jun 2025 23:59:59 -0700 (PDT)",
		"Wed, 01 Jan 2025 00:00:00 +0000 (GMT)",
	} {
		_, err := ParseTimestamp(dateStr)
		assert.NoError(t, err, "failed to parse: %s", dateStr)
	}
}
