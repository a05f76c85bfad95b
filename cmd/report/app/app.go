package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/sol-telemetry/internal/report"
	"github.com/roman-kulish/sol-telemetry/internal/storage"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

// ErrNoMissions is returned when the database holds no missions
var ErrNoMissions = errors.New("no missions found")

// Run prints the report of the configured mission to out
func Run(ctx context.Context, config *Config, out io.Writer, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	if config.List {
		return listMissions(ctx, store, out)
	}

	m, err := selectMission(ctx, store, config.MissionID)
	if err != nil {
		return err
	}

	snapshots, err := store.Snapshots(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("reading snapshots: %w", err)
	}

	logger.Info("generating report",
		slog.String("mission", m.ID),
		slog.String("name", m.Name),
		slog.Int("sols", len(snapshots)))

	summary, err := report.Summarize(snapshots, units.Default())
	if err != nil {
		return fmt.Errorf("summarizing mission: %w", err)
	}
	if err = summary.WriteText(out, m.Name); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if config.ChartFile == "" && config.PlotFile == "" && config.HTMLFile == "" {
		return nil
	}
	if len(snapshots) == 0 {
		logger.Warn("no snapshots, skipping chart")
		return nil
	}

	points := report.Points(snapshots)

	if config.ChartFile != "" {
		logger.Info("rendering chart", slog.String("destination", config.ChartFile))
		err = writeFile(config.ChartFile, func(w io.Writer) error {
			return report.NewChart(report.ChartConfig{}).WritePNG(w, points)
		})
		if err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
	}

	if config.PlotFile != "" {
		format, err := report.PlotFormat(config.PlotFile)
		if err != nil {
			return err
		}

		logger.Info("rendering season plot", slog.String("destination", config.PlotFile), slog.String("format", format))
		err = writeFile(config.PlotFile, func(w io.Writer) error {
			return report.WriteSeasonPlot(w, points, format)
		})
		if err != nil {
			return fmt.Errorf("writing season plot: %w", err)
		}
	}

	if config.HTMLFile != "" {
		logger.Info("rendering html page", slog.String("destination", config.HTMLFile))
		err = writeFile(config.HTMLFile, func(w io.Writer) error {
			return summary.WriteHTML(w, m.Name, points)
		})
		if err != nil {
			return fmt.Errorf("writing html page: %w", err)
		}
	}
	return nil
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return write(f)
}

func selectMission(ctx context.Context, store storage.Store, id string) (*storage.Mission, error) {
	if id != "" {
		return store.Mission(ctx, id)
	}

	missions, err := store.Missions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing missions: %w", err)
	}
	if len(missions) == 0 {
		return nil, ErrNoMissions
	}
	return missions[len(missions)-1], nil
}

func listMissions(ctx context.Context, store storage.Store, out io.Writer) error {
	missions, err := store.Missions(ctx)
	if err != nil {
		return fmt.Errorf("listing missions: %w", err)
	}
	if len(missions) == 0 {
		return ErrNoMissions
	}

	for _, m := range missions {
		snapshots, err := store.Snapshots(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("reading snapshots: %w", err)
		}
		if _, err = fmt.Fprintf(out, "%s  %-20s  %s Sols  started %s (%s)\n",
			m.ID, m.Name, humanize.Comma(int64(len(snapshots))),
			m.StartTime.Local().Format(time.DateTime), humanize.Time(m.StartTime)); err != nil {
			return err
		}
	}
	return nil
}
