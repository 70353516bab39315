package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	require.True(t, ok)
	assert.Equal(t, s, got.UTC().Format(time.RFC3339))
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	require.True(t, ok)
	assert.Equal(t, ts, got.Unix())
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	assert.True(t, ParseTimeDefault("", def).Equal(def))
}

func TestParseISO8601(t *testing.T) {
	for _, s := range []string{
		"2024-12-01T00:00:00Z",
		"2024-12-01T00:00:00.123Z",
		"2024-12-01T08:30:00+02:00",
		"2024-12-01T08:30:00",
		"2024-12-01",
	} {
		_, ok := ParseISO8601(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "yesterday", "12/01/2024", "1733011200"} {
		_, ok := ParseISO8601(s)
		assert.False(t, ok, s)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitList(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitList(""))
}
