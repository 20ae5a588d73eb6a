package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetcal/internal/calendar"
	"sheetcal/internal/printer"
)

func newCalendarCmd() *cobra.Command {
	var (
		days    int
		refresh bool
		asICS   bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print upcoming calendar events",
		Long: `Print the events of the next days, starting today.

Examples:
  # The configured horizon (7 days by default)
  sheetcal calendar

  # Three days, ignoring the cache
  sheetcal calendar --days 3 --refresh

  # Export everything as iCalendar
  sheetcal calendar --ics > theater.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			if a.Calendar == nil {
				return printer.Error("Calendar source not configured", nil,
					"Set calendar.source.dir or calendar.source.sheets in the config, or CALENDAR_URL.")
			}

			if asICS {
				body, err := a.Calendar.ICS(cmd.Context())
				if err != nil {
					return printer.Error("Failed to load calendar", err, "")
				}
				fmt.Fprint(cmd.OutOrStdout(), body)
				return nil
			}

			if days < 0 || days > calendar.MaxDays {
				return printer.Error("Invalid --days", fmt.Errorf("got %d", days),
					fmt.Sprintf("Pass a number of days between 1 and %d.", calendar.MaxDays))
			}
			if days == 0 {
				days = a.Config.Calendar.HorizonDays
			}
			if refresh {
				printer.Step("refreshing calendar from %s", a.Config.Calendar.Worksheet)
			}
			out, err := a.Calendar.Get(cmd.Context(), days, refresh)
			if err != nil {
				return printer.Error("Failed to load calendar", err, "")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Number of days to show (default: calendar.horizon_days)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache")
	cmd.Flags().BoolVar(&asICS, "ics", false, "Print an iCalendar feed instead of text")
	return cmd
}
