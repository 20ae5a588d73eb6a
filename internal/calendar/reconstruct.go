// Package calendar rebuilds dated events from a calendar sheet and renders
// them as text or iCalendar.
package calendar

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"sheetcal/internal/grid"
	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
)

// Options controls reconstruction.
type Options struct {
	// Year is the year every reconstructed date is placed in. The sheet has
	// no year marker of its own.
	Year int

	Vocabulary grid.Vocabulary

	// ExcludeKeywords mark a cell as a project's own sub-event even when it
	// mentions another project next to a "+".
	ExcludeKeywords []string
}

// Stats counts what a reconstruction pass did, for logging.
type Stats struct {
	Rows         int
	Events       int
	Propagated   int
	SkippedCells int
}

// state is the running context while walking rows top to bottom.
type state struct {
	month    int
	week     model.WeekDates
	projects []string
}

// Reconstruct walks the grid once and returns the events found. It never
// fails: malformed rows and cells are skipped.
func Reconstruct(rows model.RawGrid, opts Options) model.EventsByDate {
	events, stats := ReconstructWithStats(rows, opts)
	appLog.Debug("calendar reconstructed",
		"rows", stats.Rows,
		"events", stats.Events,
		"propagated", stats.Propagated,
		"skipped_cells", stats.SkippedCells,
	)
	return events
}

// ReconstructWithStats is Reconstruct plus pass counters.
func ReconstructWithStats(rows model.RawGrid, opts Options) (model.EventsByDate, Stats) {
	events := make(model.EventsByDate)
	var stats Stats

	st := state{projects: grid.ProjectNames(rows, opts.Vocabulary)}

	for _, raw := range rows {
		stats.Rows++
		row := grid.Classify(raw, opts.Vocabulary)

		switch row.Kind {
		case grid.KindMonthHeader:
			st.month = row.Month
		case grid.KindDateNumbers:
			// A new week replaces the previous one entirely.
			st.week = row.Dates
		case grid.KindData:
			if row.Project == "" || st.month == 0 || st.week.Empty() {
				continue
			}
			processDataRow(events, row, st, opts, &stats)
		}
	}

	return events, stats
}

func processDataRow(events model.EventsByDate, row grid.Row, st state, opts Options, stats *Stats) {
	for day := 0; day < 7; day++ {
		text := row.Cells[day]
		if st.week[day] == 0 || text == "" {
			continue
		}

		date, ok := dateFor(opts.Year, st.month, st.week[day])
		if !ok {
			stats.SkippedCells++
			continue
		}

		combined := isCombination(text, row.Project, st.projects, opts.ExcludeKeywords)
		event := text
		if !combined {
			event = row.Project + ": " + text
		}
		if events.Add(date, event) {
			stats.Events++
		}

		if combined {
			stats.Propagated += propagate(events, row, st, opts.Year, day, event)
		}
	}
}

// propagate copies a combination event into the following days of the
// same week whose cells are empty, mimicking a merged cell. It stops at the
// first day with its own text. Days without a date number are passed over.
func propagate(events model.EventsByDate, row grid.Row, st state, year, from int, event string) int {
	n := 0
	for next := from + 1; next < 7; next++ {
		if st.week[next] == 0 {
			continue
		}
		if row.Cells[next] != "" {
			break
		}
		date, ok := dateFor(year, st.month, st.week[next])
		if !ok {
			continue
		}
		if events.Add(date, event) {
			n++
		}
	}
	return n
}

// isCombination reports whether text describes two projects sharing a slot:
// it contains "+", names another known project, and is not one of the
// excluded internal event kinds.
func isCombination(text, project string, projects, exclude []string) bool {
	if !strings.Contains(text, "+") {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range exclude {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	own := strings.ToLower(project)
	for _, p := range projects {
		other := strings.ToLower(p)
		if other == own {
			continue
		}
		if strings.Contains(lower, other) {
			return true
		}
	}
	return false
}

func dateFor(year, month, day int) (civil.Date, bool) {
	d := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if month < 1 || month > 12 || !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}
