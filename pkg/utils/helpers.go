package utils

import (
	"fmt"
	"os"
	"strings"
)

// LoadPathList loads request paths from file, one per line. Blank lines and
// lines starting with # are skipped.
func LoadPathList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// ParseHeaders turns "Key: Value" flag values into a header map.
func ParseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, h := range values {
		key, val, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, want \"Key: Value\"", h)
		}
		headers[key] = strings.TrimSpace(val)
	}
	return headers, nil
}

// TruncateString truncates a string to a max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:max(maxLen, 0)]
	}
	return s[:maxLen-3] + "..."
}
