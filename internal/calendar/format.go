package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/teambition/rrule-go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sheetcal/internal/model"
)

// Labels are the words used by Format.
type Labels struct {
	// Weekdays, Monday first.
	Weekdays [7]string
	// MonthsGenitive, January first.
	MonthsGenitive [12]string
	Today          string
	NoEvents       string
	Refreshed      string
	// Lang drives capitalisation of weekday names.
	Lang language.Tag
}

// LabelsFrom builds Labels from slices, as found in config. Short slices
// leave the remaining names empty.
func LabelsFrom(weekdays, months []string, today, noEvents, refreshed string) Labels {
	l := Labels{
		Today:     today,
		NoEvents:  noEvents,
		Refreshed: refreshed,
		Lang:      language.Russian,
	}
	copy(l.Weekdays[:], weekdays)
	copy(l.MonthsGenitive[:], months)
	return l
}

// Days lists count consecutive dates starting at anchor.
func Days(anchor civil.Date, count int) []civil.Date {
	if count <= 0 {
		return nil
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Count:   count,
		Dtstart: anchor.In(time.UTC),
	})
	if err != nil {
		// Only reachable with an invalid option set; fall back to plain stepping.
		out := make([]civil.Date, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, anchor.AddDays(i))
		}
		return out
	}

	times := r.All()
	out := make([]civil.Date, 0, len(times))
	for _, t := range times {
		out = append(out, civil.DateOf(t))
	}
	return out
}

// MaxDays bounds how many days a rendered calendar may cover.
const MaxDays = 366

// Format renders days consecutive days of events starting at anchor.
// refreshed, when non-nil, adds a trailing "refreshed at" line.
func Format(events model.EventsByDate, anchor civil.Date, days int, refreshed *time.Time, l Labels) string {
	title := cases.Title(l.Lang)
	var lines []string

	for _, d := range Days(anchor, days) {
		header := fmt.Sprintf("%s, %d %s", title.String(l.Weekdays[mondayIndex(d.Weekday())]), d.Day, l.MonthsGenitive[d.Month-1])
		if d == anchor {
			header += " (" + l.Today + ")"
		}
		lines = append(lines, header+":")

		sorted := events.Sorted(d)
		if len(sorted) == 0 {
			lines = append(lines, "- "+l.NoEvents)
		}
		for _, ev := range sorted {
			lines = append(lines, "- "+ev)
		}
		lines = append(lines, "")
	}

	if refreshed != nil {
		lines = append(lines, fmt.Sprintf("%s: %s\n", l.Refreshed, refreshed.Format("2006-01-02 15:04:05")))
	}
	return strings.Join(lines, "\n")
}

// mondayIndex maps time.Weekday (Sunday = 0) to a Monday-first index.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
