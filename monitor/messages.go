package monitor

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lagren/checkinguard/persistence"
)

// timestampLayout mirrors the en-AU locale, e.g. "14/10/2026, 3:04:05 pm".
const timestampLayout = "02/01/2006, 3:04:05 pm"

type alert struct {
	title   string
	message string
}

func offlineAlert(host persistence.Host, now time.Time, loc *time.Location) alert {
	lastSeen := "never"

	if host.LastCheckin > 0 {
		last := time.Unix(host.LastCheckin, 0)
		lastSeen = fmt.Sprintf("%s (%s)", last.In(loc).Format(timestampLayout), humanize.RelTime(last, now, "ago", "from now"))
	}

	return alert{
		title:   fmt.Sprintf("%s is offline!", host.Hostname),
		message: fmt.Sprintf("%s seems to be offline.\nLast check-in: %s", host.Hostname, lastSeen),
	}
}

func recoveryAlert(host persistence.Host, offlineFor int64) alert {
	duration := HumanizeSeconds(offlineFor)
	if duration == "" {
		duration = "less than a second"
	}

	return alert{
		title:   fmt.Sprintf("%s is back online!", host.Hostname),
		message: fmt.Sprintf("%s is back online. It was offline for %s", host.Hostname, duration),
	}
}
