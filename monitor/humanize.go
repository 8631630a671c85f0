package monitor

import (
	"fmt"
	"strings"
)

var durationUnits = []struct {
	name    string
	seconds int64
}{
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// HumanizeSeconds renders a number of seconds as e.g. "1 hour, 1 minute and 1 second".
// Zero components are dropped, so 0 renders as the empty string.
func HumanizeSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	var parts []string

	for _, unit := range durationUnits {
		n := seconds / unit.seconds
		seconds -= n * unit.seconds

		if n == 0 {
			continue
		}

		if n == 1 {
			parts = append(parts, fmt.Sprintf("%d %s", n, unit.name))
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, unit.name))
		}
	}

	if len(parts) < 2 {
		return strings.Join(parts, "")
	}

	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}
