package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roman-kulish/sol-telemetry/internal/report"
)

// Config holds the command line options of the report command
type Config struct {
	DBPath    string
	MissionID string // Latest mission when empty
	ChartFile string // No chart when empty
	PlotFile  string // No season plot when empty
	HTMLFile  string // No HTML page when empty
	List      bool
	Verbose   bool
}

// Validate checks the required options
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if c.PlotFile != "" {
		if _, err := report.PlotFormat(c.PlotFile); err != nil {
			errs = append(errs, fmt.Errorf("plot file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// NewCommand creates the report command writing the report to out and logs to errOut
func NewCommand(out, errOut io.Writer) *cobra.Command {
	var config Config

	cmd := &cobra.Command{
		Use:          "report",
		Short:        "Print the final report of a mission",
		Long:         "Reads finalized Sol snapshots from the telemetry database and prints temperature statistics, sample classifications and distances traveled.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if config.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

			return Run(cmd.Context(), &config, out, logger)
		},
	}

	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.StringVarP(&config.DBPath, "db", "d", "", "Path to the database file")
	flags.StringVarP(&config.MissionID, "mission", "m", "", "Mission ID (default: the latest mission)")
	flags.StringVarP(&config.ChartFile, "chart", "o", "", "Write a PNG chart of mean temperature per Sol to this file")
	flags.StringVarP(&config.PlotFile, "plot", "p", "", "Write a season plot to this file, format by extension (png, svg, pdf, eps, jpg, tif)")
	flags.StringVar(&config.HTMLFile, "html", "", "Write an interactive HTML page with temperature and distance per Sol to this file")
	flags.BoolVar(&config.List, "list", false, "List missions instead of printing a report")
	flags.BoolVar(&config.Verbose, "verbose", false, "Enable more verbose output")

	return cmd
}
