package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"midnightfront/pkg/countdown"
	"midnightfront/pkg/holidays"
	"midnightfront/pkg/refresh"
)

// Report is one frame of the dashboard: the midnight front, the countdown
// ranking and, optionally, the holidays panel.
type Report struct {
	At         time.Time
	Longitude  float64
	Countdowns []countdown.Entry

	// ShowHolidays turns the holidays panel on. When it is on, either
	// Holidays or HolidaysErr describes it.
	ShowHolidays bool
	Holidays     []holidays.Holiday
	HolidaysErr  error

	Version string
}

func FromSnapshot(s refresh.Snapshot) Report {
	return Report{At: s.At, Longitude: s.Longitude, Countdowns: s.Countdowns}
}

/* ---------------- text ---------------- */

// Text writes the report in the terminal layout.
func Text(w io.Writer, r Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Midnight front: %s (UTC %s)\n", fmtDegrees(r.Longitude), r.At.UTC().Format("2006-01-02 15:04:05"))
	b.WriteString("Next midnight\n\n")

	for i, e := range r.Countdowns {
		fmt.Fprintf(&b, "%s %s (%s)", e.Emblem, e.Name, e.City())
		if i == 0 {
			b.WriteString("  << imminent change")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Local Time:  %s\n", e.LocalTime)
		fmt.Fprintf(&b, "  T-minus:     %s\n", countdown.FormatRemaining(e.MillisUntilMidnight))
	}

	if r.ShowHolidays {
		b.WriteString("\nUpcoming Global Holidays\n")
		switch {
		case r.HolidaysErr != nil:
			b.WriteString("  ! Failed to load festivities\n")
		case r.Holidays == nil:
			b.WriteString("  loading...\n")
		case len(r.Holidays) == 0:
			b.WriteString("  none announced\n")
		default:
			for _, h := range r.Holidays {
				fmt.Fprintf(&b, "  %s  %s %s  %s", h.Date, h.Flag(), h.CountryCode, h.Name)
				if h.LocalName != "" && h.LocalName != h.Name {
					fmt.Fprintf(&b, " (%s)", h.LocalName)
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("  Data provided by Nager.Date API\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

/* ---------------- json ---------------- */

type jsonReport struct {
	At          time.Time          `json:"at"`
	Longitude   float64            `json:"midnightLongitude"`
	Countdowns  []countdown.Entry  `json:"countries"`
	Holidays    []holidays.Holiday `json:"holidays,omitempty"`
	HolidaysErr string             `json:"holidaysError,omitempty"`
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, r Report) error {
	out := jsonReport{
		At:         r.At.UTC(),
		Longitude:  r.Longitude,
		Countdowns: r.Countdowns,
	}
	if r.ShowHolidays {
		out.Holidays = r.Holidays
		if r.HolidaysErr != nil {
			out.HolidaysErr = r.HolidaysErr.Error()
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

/* ---------------- helpers ---------------- */

func fmtDegrees(lon float64) string {
	return fmt.Sprintf("%.2f°", lon)
}
