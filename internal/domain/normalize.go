package domain

import (
	"regexp"
	"strings"
)

// Regex for valid Instagram usernames
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// NormalizeUsername reduces the many ways operators paste an account
// ("@natgeo", "https://instagram.com/natgeo", " natgeo ") to the bare handle.
func NormalizeUsername(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "instagram.com/"); i >= 0 {
		s = s[i+len("instagram.com/"):]
		if j := strings.IndexAny(s, "/?#"); j >= 0 {
			s = s[:j]
		}
	}
	s = strings.TrimPrefix(s, "@")
	return strings.TrimSpace(s)
}

func ValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// SplitUsernames parses the one-account-per-line textarea input, normalizing
// each line and dropping empties.
func SplitUsernames(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		u := NormalizeUsername(line)
		if u == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}
