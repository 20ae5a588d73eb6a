package commands

import (
	"context"

	"github.com/spf13/cobra"

	"sheetcal/internal/app"
	"sheetcal/internal/config"
	appLog "sheetcal/internal/log"
	"sheetcal/internal/printer"
)

var configPath string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sheetcal",
		Short: "Rebuild calendars and staff schedules from spreadsheet sheets",
		Long: `sheetcal reads a theater-style planning workbook and answers two questions:
what is on the calendar in the coming days, and where a given person
is scheduled during the week.

The calendar comes from one worksheet laid out as month blocks of weeks.
Schedules come from one sheet per day with a row per person and a column
per time slot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
		SilenceErrors:      true,
		SilenceUsage:       true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "sheetcal.yaml", "Path to config file (created with defaults if missing)")

	root.AddCommand(newCalendarCmd(), newScheduleCmd(), newDaysCmd(), newServeCmd())
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// loadApp reads the config file, applies its log level and builds the app.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, printer.Error("Failed to load config", err,
			"Check that "+configPath+" is readable YAML, or pass --config.")
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, printer.Error("Failed to open sheet sources", err, "")
	}
	return a, nil
}
