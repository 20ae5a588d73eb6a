// Package grid classifies the rows of a human-authored calendar sheet.
//
// A calendar sheet interleaves structural rows (month headers, weekday
// headers, rows of day numbers) with data rows that carry one project per
// row and one cell per weekday. Classification is purely syntactic and
// looks at one row at a time.
package grid

import (
	"strconv"
	"strings"

	"sheetcal/internal/model"
)

// MinRowWidth is the number of cells a row needs to be considered at all:
// one label column plus seven weekday columns.
const MinRowWidth = 8

// Kind tags a classified row.
type Kind int

const (
	KindSkip Kind = iota
	KindMonthHeader
	KindWeekdayHeader
	KindDateNumbers
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindMonthHeader:
		return "month_header"
	case KindWeekdayHeader:
		return "weekday_header"
	case KindDateNumbers:
		return "date_numbers"
	case KindData:
		return "data"
	default:
		return "skip"
	}
}

// Row is the classification of one raw row. Only the fields matching Kind
// are set.
type Row struct {
	Kind Kind

	// KindMonthHeader
	Month int

	// KindDateNumbers
	Dates model.WeekDates

	// KindData
	Project string
	// Cells are the seven weekday cells, trimmed, Monday first.
	Cells [7]string
}

// Vocabulary holds the fixed words that mark structural rows.
type Vocabulary struct {
	months   map[string]int
	weekdays map[string]struct{}
}

// NewVocabulary builds a Vocabulary. Keys are matched after trimming and
// upper-casing, so "Январь " and "ЯНВАРЬ" are the same month.
func NewVocabulary(months map[string]int, weekdays []string) Vocabulary {
	v := Vocabulary{
		months:   make(map[string]int, len(months)),
		weekdays: make(map[string]struct{}, len(weekdays)),
	}
	for name, n := range months {
		v.months[normalize(name)] = n
	}
	for _, name := range weekdays {
		v.weekdays[normalize(name)] = struct{}{}
	}
	return v
}

// Month returns the month number for cell, if cell names a month.
func (v Vocabulary) Month(cell string) (int, bool) {
	n, ok := v.months[normalize(cell)]
	return n, ok
}

// IsWeekday reports whether cell names a weekday.
func (v Vocabulary) IsWeekday(cell string) bool {
	_, ok := v.weekdays[normalize(cell)]
	return ok
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Classify labels one row. Priority: month name in the first cell, weekday
// name in the second cell, a number in the second cell, then data.
func Classify(row []string, v Vocabulary) Row {
	if len(row) < MinRowWidth {
		return Row{Kind: KindSkip}
	}

	if month, ok := v.Month(row[0]); ok {
		return Row{Kind: KindMonthHeader, Month: month}
	}
	if v.IsWeekday(row[1]) {
		return Row{Kind: KindWeekdayHeader}
	}
	if isDigits(strings.TrimSpace(row[1])) {
		out := Row{Kind: KindDateNumbers}
		for i := 0; i < 7; i++ {
			if n, ok := dayNumber(row[i+1]); ok {
				out.Dates[i] = n
			}
		}
		return out
	}

	out := Row{Kind: KindData, Project: strings.TrimSpace(row[0])}
	for i := 0; i < 7; i++ {
		out.Cells[i] = strings.TrimSpace(row[i+1])
	}
	return out
}

// ProjectNames is the pre-pass over the whole grid collecting every label in
// the first column that is not structural. The result is the vocabulary of
// known projects used for combination detection.
func ProjectNames(rows model.RawGrid, v Vocabulary) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		if len(row) < MinRowWidth {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || isDigits(name) {
			continue
		}
		if _, ok := v.Month(name); ok {
			continue
		}
		if v.IsWeekday(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dayNumber(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if !isDigits(cell) {
		return 0, false
	}
	n, err := strconv.Atoi(cell)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
