package model

import (
	"sort"

	"cloud.google.com/go/civil"
)

// RawGrid is a sheet as fetched: rows of free-text cells. Rows may be ragged.
type RawGrid [][]string

// CalendarEvent is one reconstructed calendar entry.
type CalendarEvent struct {
	Date civil.Date `json:"date"`
	Text string     `json:"text"`
}

// EventsByDate groups event texts by calendar date. Each date holds unique
// texts in insertion order; use Add to keep that invariant.
type EventsByDate map[civil.Date][]string

// Add appends text to date unless the same text is already present.
// It reports whether the text was added.
func (e EventsByDate) Add(date civil.Date, text string) bool {
	for _, existing := range e[date] {
		if existing == text {
			return false
		}
	}
	e[date] = append(e[date], text)
	return true
}

// Sorted returns the events for date in lexicographic order.
func (e EventsByDate) Sorted(date civil.Date) []string {
	out := append([]string(nil), e[date]...)
	sort.Strings(out)
	return out
}

// Events flattens the map into a list ordered by date, then text.
func (e EventsByDate) Events() []CalendarEvent {
	dates := make([]civil.Date, 0, len(e))
	for d := range e {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]CalendarEvent, 0, len(e))
	for _, d := range dates {
		for _, text := range e.Sorted(d) {
			out = append(out, CalendarEvent{Date: d, Text: text})
		}
	}
	return out
}

// WeekDates holds the day-of-month for each Monday..Sunday column of the
// current week block. Zero means the column carries no date.
type WeekDates [7]int

// Empty reports whether no column carries a date.
func (w WeekDates) Empty() bool {
	for _, d := range w {
		if d != 0 {
			return false
		}
	}
	return true
}

// ScheduleBlock is a contiguous run of one activity in a person's day row.
// End is empty for the last block of the row, which has no closing column.
type ScheduleBlock struct {
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Activity string `json:"activity"`
}

// OpenEnded reports whether the block runs to the end of the day.
func (b ScheduleBlock) OpenEnded() bool {
	return b.End == ""
}

// PersonRecord is one person's weekly schedule assembled from day-sheets.
type PersonRecord struct {
	Name     string                     `json:"name"`
	Phone    string                     `json:"phone"`
	Position string                     `json:"position"`
	Schedule map[string][]ScheduleBlock `json:"schedule"`
}

// Table is a sheet read as records: the first row names the columns and
// every following row maps column label to cell text.
type Table struct {
	Columns []string
	Rows    []map[string]string
}
