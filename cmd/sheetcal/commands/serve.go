package commands

import (
	"time"

	"github.com/spf13/cobra"

	appLog "sheetcal/internal/log"
	"sheetcal/internal/printer"
	"sheetcal/internal/web"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar and schedule lookups over HTTP",
		Long: `Start the HTTP API and the background calendar refresher.

Endpoints:
  GET /health
  GET /api/calendar?days=N&refresh=1
  GET /api/calendar.json
  GET /calendar.ics
  GET /api/schedule?q=SURNAME+GIVEN_NAME`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			if listen != "" {
				a.Config.Listen = listen
			}

			appLog.Info("effective config",
				"listen", a.Config.Listen,
				"timezone", a.Config.Timezone,
				"refresh", a.Config.RefreshCron,
				"year", a.Config.Calendar.YearAt(time.Now().In(a.Config.Location())),
				"cache_ttl", a.Config.Calendar.CacheTTL.String(),
				"schedule_days", len(a.Config.Schedule.Days),
			)

			if a.Calendar == nil {
				printer.Warning("calendar source not configured, calendar endpoints will answer 503")
			}
			if a.Schedule == nil {
				printer.Warning("schedule source not configured, /api/schedule will answer 503")
			}

			if err := a.StartBackground(ctx); err != nil {
				return printer.Error("Failed to start background refresh", err, "")
			}
			if err := web.ListenAndServe(ctx, a); err != nil {
				return printer.Error("HTTP server failed", err, "")
			}
			appLog.Info("sheetcal exiting")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}
