package app

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"sheetcal/internal/cache"
	"sheetcal/internal/calendar"
	"sheetcal/internal/config"
	"sheetcal/internal/grid"
	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
	"sheetcal/internal/sheets"
)

const icsProductID = "-//sheetcal//calendar//RU"

// Calendar serves the reconstructed calendar from a time-bounded cache.
type Calendar struct {
	wb        sheets.Workbook
	worksheet string
	cfg       config.CalendarConfig
	opts      calendar.Options
	labels    calendar.Labels
	ttl       time.Duration
	loc       *time.Location

	cache *cache.Cache[model.EventsByDate]
	now   func() time.Time
}

// NewCalendar wires a Calendar from config. The cache is owned by the
// returned value and lives as long as it does.
func NewCalendar(cfg *config.Config, wb sheets.Workbook) *Calendar {
	cc := cfg.Calendar
	return &Calendar{
		wb:        wb,
		worksheet: cc.Worksheet,
		cfg:       cc,
		opts: calendar.Options{
			Vocabulary:      grid.NewVocabulary(cc.Months, cc.WeekdayHeaders),
			ExcludeKeywords: cc.ExcludeKeywords,
		},
		labels: calendar.LabelsFrom(cc.Labels.Weekdays, cc.Labels.MonthsGenitive,
			cc.Labels.Today, cc.Labels.NoEvents, cc.Labels.Refreshed),
		ttl:   cc.CacheTTL,
		loc:   cfg.Location(),
		cache: cache.New[model.EventsByDate](),
		now:   time.Now,
	}
}

// Events returns the reconstructed events and when they were computed.
// A fetch failure is returned as is; the previous entry is not served.
func (c *Calendar) Events(ctx context.Context, force bool) (model.EventsByDate, time.Time, error) {
	return c.cache.GetOrCompute(func() (model.EventsByDate, error) {
		return c.load(ctx)
	}, force, c.ttl)
}

func (c *Calendar) load(ctx context.Context) (model.EventsByDate, error) {
	appLog.Info("loading calendar sheet", "worksheet", c.worksheet)
	rows, err := c.wb.Values(ctx, c.worksheet)
	if err != nil {
		return nil, fmt.Errorf("load calendar sheet %q: %w", c.worksheet, err)
	}
	opts := c.opts
	opts.Year = c.cfg.YearAt(c.now().In(c.loc))
	events, stats := calendar.ReconstructWithStats(rows, opts)
	appLog.Info("calendar reconstructed",
		"year", opts.Year,
		"rows", stats.Rows,
		"events", stats.Events,
		"propagated", stats.Propagated,
		"skipped_cells", stats.SkippedCells,
		"dates", len(events),
	)
	return events, nil
}

// Get renders daysAhead days starting today.
func (c *Calendar) Get(ctx context.Context, daysAhead int, force bool) (string, error) {
	if daysAhead <= 0 || daysAhead > calendar.MaxDays {
		return "", fmt.Errorf("days ahead must be between 1 and %d, got %d", calendar.MaxDays, daysAhead)
	}
	events, at, err := c.Events(ctx, force)
	if err != nil {
		return "", err
	}
	today := civil.DateOf(c.now().In(c.loc))
	refreshed := at.In(c.loc)
	return calendar.Format(events, today, daysAhead, &refreshed, c.labels), nil
}

// ICS renders the cached events as an iCalendar feed.
func (c *Calendar) ICS(ctx context.Context) (string, error) {
	events, at, err := c.Events(ctx, false)
	if err != nil {
		return "", err
	}
	return calendar.EncodeICS(events, icsProductID, at), nil
}

// LastComputed reports when the cached events were computed, whether or
// not they are still fresh.
func (c *Calendar) LastComputed() (time.Time, bool) {
	_, at, ok := c.cache.Peek()
	return at, ok
}

// Invalidate drops the cached events.
func (c *Calendar) Invalidate() {
	c.cache.Invalidate()
}
