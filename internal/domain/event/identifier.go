package event

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidURL = errors.New("no event id found in url")

// Matches the results page (#/event/11986) and the feed endpoint (/sportevents/11986).
var idPattern = regexp.MustCompile(`(?:/event/|/sportevents/)([0-9]+)`)

// ExtractID returns the digit run that directly follows the first
// "/event/" or "/sportevents/" marker in rawURL. The digits are returned
// verbatim, leading zeros included.
func ExtractID(rawURL string) (string, error) {
	match := idPattern.FindStringSubmatch(rawURL)
	if len(match) != 2 || match[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, abbreviate(rawURL))
	}
	return match[1], nil
}

// IsID reports whether v has the shape of an event id.
func IsID(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

func abbreviate(v string) string {
	v = strings.TrimSpace(v)
	if len(v) <= 120 {
		return v
	}
	return v[:120] + "..."
}
