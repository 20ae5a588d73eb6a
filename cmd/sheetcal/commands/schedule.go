package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sheetcal/internal/printer"
)

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule SURNAME [GIVEN_NAME]",
		Short: "Print one person's weekly schedule",
		Long: `Look a person up by surname, or surname and given name, across all
day-sheets and print their contact details and time blocks per day.

Matching ignores case and the difference between е and ё.`,
		Example: `  sheetcal schedule Иванов
  sheetcal schedule иванов пётр`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			if a.Schedule == nil {
				return printer.Error("Schedule source not configured", nil,
					"Set schedule.source.dir or schedule.source.sheets in the config, or SPREADSHEET_DIR.")
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Schedule.Lookup(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

func newDaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "List the days searched by schedule lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			if a.Schedule == nil {
				return printer.Error("Schedule source not configured", nil, "")
			}
			for _, d := range a.Schedule.Days {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
