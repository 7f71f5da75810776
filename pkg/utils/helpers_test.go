package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPathList(t *testing.T) {
	path := writeTemp(t, "paths.txt", "# dashboards\n/dashboard/\n\n  /reports/2024/  \n#/skipped/\n")

	paths, err := LoadPathList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/dashboard/", "/reports/2024/"}, paths)
}

func TestParseHeaders(t *testing.T) {
	headers, err := ParseHeaders([]string{"Accept: text/html", "X-Token:abc:def"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Accept": "text/html", "X-Token": "abc:def"}, headers)

	_, err = ParseHeaders([]string{"no-colon"})
	require.Error(t, err)

	_, err = ParseHeaders([]string{": value"})
	require.Error(t, err)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "", TruncateString("abcdef", 0))
	assert.Equal(t, "", TruncateString("abcdef", -1))
}
