package countdown

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	secondsPerDay = 24 * 3600
	// MaxMillis is the countdown reported at exactly local midnight.
	MaxMillis int64 = secondsPerDay * 1000
)

// Entry is one country's countdown for a single instant.
type Entry struct {
	Name                string `json:"name"`
	Emblem              string `json:"flag"`
	Timezone            string `json:"timezone"`
	LocalTime           string `json:"localTime"`
	MillisUntilMidnight int64  `json:"timeUntilMidnightMs"`
}

// Remaining is MillisUntilMidnight as a duration.
func (e Entry) Remaining() time.Duration {
	return time.Duration(e.MillisUntilMidnight) * time.Millisecond
}

// City is the zone identifier after its area prefix ("Tokyo" for
// "Asia/Tokyo"). Zones without an area, such as "UTC", return themselves.
func (e Entry) City() string {
	if _, city, ok := strings.Cut(e.Timezone, "/"); ok {
		return strings.ReplaceAll(city, "_", " ")
	}
	return e.Timezone
}

// Compute ranks every roster row by time left until its next local midnight,
// soonest first. Rows with equal countdowns keep roster order.
func Compute(now time.Time, r Roster) []Entry {
	entries := make([]Entry, 0, len(r.members))
	for _, m := range r.members {
		h, mins, sec := now.In(m.loc).Clock()
		sinceMidnight := h*3600 + mins*60 + sec

		entries = append(entries, Entry{
			Name:                m.country.Name,
			Emblem:              m.country.Glyph(),
			Timezone:            m.country.Timezone,
			LocalTime:           fmt.Sprintf("%02d:%02d", h, mins),
			MillisUntilMidnight: int64(secondsPerDay-sinceMidnight) * 1000,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MillisUntilMidnight < entries[j].MillisUntilMidnight
	})
	return entries
}

// FormatRemaining renders a countdown as "Xh Ym Zs".
func FormatRemaining(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}
