// Package app wires configuration, sheet sources and the reconstruction
// services together.
package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"sheetcal/internal/config"
	appLog "sheetcal/internal/log"
	"sheetcal/internal/schedule"
	"sheetcal/internal/sheets"
)

// App is the composition root shared by the CLI and the HTTP server.
type App struct {
	Config   *config.Config
	Calendar *Calendar
	Schedule *schedule.Service

	calendarWB sheets.Workbook
}

// New opens the configured workbooks and builds the services. A source
// that is not configured leaves its service nil. Day discovery, when
// enabled, reads the schedule workbook's titles once here.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if configured(cfg.Calendar.Source) {
		wb, err := sheets.Open(cfg.Calendar.Source)
		if err != nil {
			return nil, fmt.Errorf("calendar source: %w", err)
		}
		a.calendarWB = wb
		a.Calendar = NewCalendar(cfg, wb)
	} else {
		appLog.Warn("calendar source not configured")
	}

	if configured(cfg.Schedule.Source) {
		wb, err := sheets.Open(cfg.Schedule.Source)
		if err != nil {
			return nil, fmt.Errorf("schedule source: %w", err)
		}
		a.Schedule = NewSchedule(ctx, cfg, wb)
	} else {
		appLog.Warn("schedule source not configured")
	}

	return a, nil
}

func configured(src config.SourceConfig) bool {
	return src.Dir != "" || len(src.Sheets) > 0
}

// NewSchedule builds the lookup service over the day-sheets of wb.
func NewSchedule(ctx context.Context, cfg *config.Config, wb sheets.Workbook) *schedule.Service {
	sc := cfg.Schedule
	days := sc.Days
	if sc.DiscoverDays {
		days = sheets.DiscoverDays(ctx, wb, sc.DayNames, sc.Days)
		appLog.Info("schedule days discovered", "days", days)
	}
	return &schedule.Service{
		Tables: sheets.DayTables{Workbook: wb},
		Days:   days,
		Columns: schedule.Columns{
			Name:     sc.NameColumn,
			Phone:    sc.PhoneColumn,
			Position: sc.PositionColumn,
		},
		Labels: schedule.Labels{
			OpenEnd:    sc.OpenEnd,
			EmptyQuery: sc.EmptyQuery,
			NotFound:   sc.NotFound,
		},
	}
}

// StartBackground starts the cron refresher and, for directory sources, a
// watcher that invalidates the calendar cache on file changes. Both stop
// when ctx is done.
func (a *App) StartBackground(ctx context.Context) error {
	if a.Calendar == nil {
		return nil
	}
	if a.Config.RefreshCron != config.RefreshOff {
		c, err := StartRefresher(a.Config.RefreshCron, a.Calendar)
		if err != nil {
			return err
		}
		go func() {
			<-ctx.Done()
			<-c.Stop().Done()
		}()
	}

	if dw, ok := a.calendarWB.(*sheets.DirWorkbook); ok {
		err := sheets.Watch(ctx, dw.Dir(), func(name string) {
			appLog.Info("calendar source changed, invalidating cache", "file", name)
			a.Calendar.Invalidate()
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", dw.Dir(), err)
		}
	}
	return nil
}

// StartRefresher schedules forced calendar refreshes on expr, a standard
// five-field cron expression.
func StartRefresher(expr string, cal *Calendar) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		if _, at, err := cal.Events(context.Background(), true); err != nil {
			kv := []any{}
			if last, ok := cal.LastComputed(); ok {
				kv = append(kv, "last_success", last.Format("2006-01-02 15:04:05"))
			}
			appLog.Error("scheduled calendar refresh failed", err, kv...)
		} else {
			appLog.Info("scheduled calendar refresh done", "computed_at", at.Format("2006-01-02 15:04:05"))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", expr, err)
	}
	c.Start()
	appLog.Info("calendar refresher started", "schedule", expr)
	return c, nil
}
