package schedule

import (
	"context"
	"fmt"
	"strings"

	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
)

// TableSource resolves the day-sheet for a day key.
type TableSource interface {
	Table(ctx context.Context, day string) (model.Table, error)
}

// Columns names the record columns that carry a person's details.
type Columns struct {
	Name     string
	Phone    string
	Position string
}

// Labels are the user-facing texts of a lookup.
type Labels struct {
	// OpenEnd replaces the end time of the last block of a day.
	OpenEnd string
	// EmptyQuery is returned for a blank query.
	EmptyQuery string
	// NotFound is a fmt pattern taking the query.
	NotFound string
}

// Service searches a fixed, ordered set of day-sheets for one person.
type Service struct {
	Tables  TableSource
	Days    []string
	Columns Columns
	Labels  Labels
}

// Search assembles the person's week. A day whose sheet cannot be read is
// logged and skipped. Within a sheet the first matching row wins. The
// second return value is false when no day matched.
func (s *Service) Search(ctx context.Context, query string) (model.PersonRecord, bool) {
	query = strings.TrimSpace(query)
	rec := model.PersonRecord{Schedule: map[string][]model.ScheduleBlock{}}
	found := false

	for _, day := range s.Days {
		if err := ctx.Err(); err != nil {
			appLog.Error("schedule search canceled", err, "query", query)
			break
		}

		table, err := s.Tables.Table(ctx, day)
		if err != nil {
			appLog.Warn("day-sheet unavailable, skipping", "day", day, "err", err)
			continue
		}

		row, ok := s.firstMatch(table, query)
		if !ok {
			continue
		}

		if !found {
			rec.Name = row[s.Columns.Name]
			rec.Phone = row[s.Columns.Phone]
			rec.Position = row[s.Columns.Position]
			found = true
		}
		rec.Schedule[day] = Blocks(row, TimeColumns(table.Columns))
	}

	if !found {
		return model.PersonRecord{}, false
	}
	appLog.Debug("schedule search hit", "query", query, "name", rec.Name, "days", len(rec.Schedule))
	return rec, true
}

func (s *Service) firstMatch(table model.Table, query string) (map[string]string, bool) {
	for _, row := range table.Rows {
		if Match(row[s.Columns.Name], query) {
			return row, true
		}
	}
	return nil, false
}

// Lookup answers a free-text query with the formatted week, or with one of
// the fixed empty-query and not-found messages.
func (s *Service) Lookup(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return s.Labels.EmptyQuery
	}
	rec, ok := s.Search(ctx, query)
	if !ok {
		return fmt.Sprintf(s.Labels.NotFound, query)
	}
	return Format(rec, s.Days, s.Labels.OpenEnd)
}
