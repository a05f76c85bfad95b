package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roman-kulish/sol-telemetry/internal/mission"
	"github.com/roman-kulish/sol-telemetry/internal/observability"
	"github.com/roman-kulish/sol-telemetry/internal/rover"
	"github.com/roman-kulish/sol-telemetry/internal/storage"
	"github.com/roman-kulish/sol-telemetry/internal/telemetry"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

const (
	databaseFile    = "sol_telemetry.sqlite"
	shutdownTimeout = 5 * time.Second
)

// Run ingests telemetry from the configured source until it is exhausted or
// ctx is cancelled, storing a snapshot for every finalized Sol.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	collector, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to create metrics collector: %w", err)
	}
	if config.Metrics.Listen != "" {
		stop := serveMetrics(config.Metrics.Listen, collector, logger)
		defer stop()
	}

	control, err := createControl(ctx, &config.Mission, store, collector, logger)
	if err != nil {
		return fmt.Errorf("failed to start mission: %w", err)
	}

	src, err := openSource(&config.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to open telemetry source: %w", err)
	}
	defer src.Close()

	// unblock a pending read on cancellation
	stopClose := context.AfterFunc(ctx, func() { _ = src.Close() })
	defer stopClose()

	return ingest(ctx, control, src, &config.Telemetry, logger)
}

func ingest(ctx context.Context, control *mission.Control, src io.Reader, config *TelemetryConfig, logger *slog.Logger) error {
	options := []func(*telemetry.Stream){telemetry.WithLogger(logger)}
	if config.ParseErrorsThreshold != nil {
		options = append(options, telemetry.WithParseErrorsThreshold(*config.ParseErrorsThreshold))
	}

	logger.Info("ingesting telemetry",
		slog.String("mission", control.MissionID()),
		slog.Int("sol", control.CurrentSol()),
		slog.String("source", string(config.Source)))

	stream := telemetry.NewStream(control, options...)
	err := stream.Run(ctx, src, func(ctx context.Context, line telemetry.Line) error {
		if _, err := control.HandleRecord(ctx, line.Record); err != nil {
			if isRecordError(err) {
				logger.Warn(fmt.Sprintf("error applying telemetry: %s", err.Error()),
					slog.Int("lineNumber", line.Number), slog.String("line", line.Text))
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("ingesting telemetry: %w", err)
	}

	logger.Info("telemetry ingestion finished",
		slog.String("mission", control.MissionID()),
		slog.Int("finalizedSols", control.CurrentSol()-1))

	return nil
}

// isRecordError reports whether err affects only the offending record
func isRecordError(err error) bool {
	return errors.Is(err, units.ErrUnknownUnit) || errors.Is(err, rover.ErrUnsupportedRecord)
}

func createControl(ctx context.Context, config *MissionConfig, store storage.Store, collector *observability.Collector, logger *slog.Logger) (*mission.Control, error) {
	options := []func(*mission.Control){mission.WithLogger(logger), mission.WithMetrics(collector)}

	if config.Resume == "" {
		m, err := store.CreateMission(ctx, config.Name)
		if err != nil {
			return nil, fmt.Errorf("creating mission: %w", err)
		}
		logger.Info("mission created", slog.String("mission", m.ID), slog.String("name", m.Name))
		return mission.NewControl(m.ID, store, options...), nil
	}

	m, err := store.Mission(ctx, config.Resume)
	if err != nil {
		return nil, fmt.Errorf("resuming mission: %w", err)
	}
	snapshots, err := store.Snapshots(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("resuming mission: %w", err)
	}

	logger.Info("mission resumed", slog.String("mission", m.ID), slog.Int("finalizedSols", len(snapshots)))
	options = append(options, mission.WithFinalizedSols(len(snapshots)))
	return mission.NewControl(m.ID, store, options...), nil
}

func createStorage(config *StorageConfig) (storage.Store, error) {
	if config.InMemory {
		return storage.NewMemoryStore(), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	dir := config.DataDirectory
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(wd, dir)
	}

	stat, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("storage directory '%s': %w", dir, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dir)
	}

	return storage.NewSqliteStore(filepath.Join(dir, databaseFile)), nil
}

func openSource(config *TelemetryConfig) (io.ReadCloser, error) {
	switch config.Source {
	case SourceFile:
		f, err := os.Open(config.File)
		if err != nil {
			return nil, fmt.Errorf("opening telemetry file: %w", err)
		}
		return f, nil

	case SourceSerial:
		return telemetry.OpenSerial(config.SerialPort, config.PortOptions)

	case SourceStdin:
		return io.NopCloser(os.Stdin), nil

	default:
		return nil, fmt.Errorf("unknown telemetry source '%s'", config.Source)
	}
}

// serveMetrics exposes the collector on addr and returns a function stopping the server
func serveMetrics(addr string, collector *observability.Collector, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		logger.Info("serving metrics", slog.String("listen", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(fmt.Sprintf("metrics server: %s", err.Error()))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
