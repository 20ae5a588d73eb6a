package sheets

import (
	"context"
	"fmt"
	"strings"

	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
)

// DayTables resolves day keys to sheets whose title contains the key.
type DayTables struct {
	Workbook Workbook
}

// SheetFor returns the first title containing day, case-insensitively.
func (d DayTables) SheetFor(ctx context.Context, day string) (string, error) {
	titles, err := d.Workbook.Titles(ctx)
	if err != nil {
		return "", err
	}
	key := strings.ToLower(day)
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), key) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: no sheet for day %q", ErrSheetNotFound, day)
}

// Table reads the day's sheet as records.
func (d DayTables) Table(ctx context.Context, day string) (model.Table, error) {
	title, err := d.SheetFor(ctx, day)
	if err != nil {
		return model.Table{}, err
	}
	rows, err := d.Workbook.Values(ctx, title)
	if err != nil {
		return model.Table{}, fmt.Errorf("read sheet %q: %w", title, err)
	}
	return Records(rows), nil
}

// DiscoverDays lists the day names that appear in sheet titles, in the
// order of names. It returns fallback when the titles cannot be read or
// none of them names a day.
func DiscoverDays(ctx context.Context, wb Workbook, names, fallback []string) []string {
	titles, err := wb.Titles(ctx)
	if err != nil {
		appLog.Error("day discovery failed, using defaults", err)
		return fallback
	}

	found := make(map[string]bool)
	for _, t := range titles {
		lower := strings.ToLower(t)
		for _, name := range names {
			if strings.Contains(lower, strings.ToLower(name)) {
				found[name] = true
				appLog.Debug("day sheet found", "title", t, "day", name)
				break
			}
		}
	}

	var out []string
	for _, name := range names {
		if found[name] {
			out = append(out, name)
			delete(found, name)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
