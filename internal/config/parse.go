package config

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var sinceRe = regexp.MustCompile(`(?i)^(\d+)([hms])$`)

// ParseSince converts a lookback string like "1h", "15m", or "10s" into a
// duration. Malformed input falls back to one hour.
func ParseSince(s string) time.Duration {
	m := sinceRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DefaultSince
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultSince
	}
	switch strings.ToLower(m[2]) {
	case "h":
		return time.Duration(n) * time.Hour
	case "m":
		return time.Duration(n) * time.Minute
	default:
		return time.Duration(n) * time.Second
	}
}

// SplitList splits a comma-separated flag value into trimmed tokens,
// dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseOptions parses an ampersand-delimited key=value string, e.g.
// "remove_keys=logger&sort=true". Entries without "=" are ignored.
func ParseOptions(s string) map[string]string {
	opts := make(map[string]string)
	for _, part := range strings.Split(strings.TrimSpace(s), "&") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && key != "" {
			opts[key] = value
		}
	}
	return opts
}

// stripFilterPrefixes trims whitespace and a leading "?" from filter tokens;
// the fetcher re-adds the prefix when building the server-side pattern.
func stripFilterPrefixes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimPrefix(strings.TrimSpace(t), "?")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
