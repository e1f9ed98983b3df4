package boxscore

import (
	"strconv"
	"strings"
)

// snippet returns a shortened version of text for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// normalizeWhitespace collapses newlines/tabs and repeated spaces.
func normalizeWhitespace(t string) string {
	return strings.Join(strings.Fields(t), " ")
}

// parseIntOrDefault converts text to a base-10 integer, returning def when
// the text is not a clean integer. The conversion is lossy: callers cannot
// distinguish a true zero from an OCR misread that failed to parse.
func parseIntOrDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
