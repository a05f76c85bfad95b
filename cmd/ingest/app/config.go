package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/sol-telemetry/internal/telemetry"
)

const (
	SourceFile   Source = "file"
	SourceStdin  Source = "stdin"
	SourceSerial Source = "serial"
)

const (
	defaultStorageDir  = "data"
	defaultMissionName = "mission"
)

// Source is where telemetry lines are read from
type Source string

// Config represents the main application configuration
type Config struct {
	Settings  Settings        `yaml:"settings"`
	Mission   MissionConfig   `yaml:"mission"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`

	level slog.Level
}

// Level returns the parsed log level. Validate must be called first.
func (s *Settings) Level() slog.Level {
	return s.level
}

// MissionConfig selects the mission the telemetry belongs to
type MissionConfig struct {
	Name   string `yaml:"name"`
	Resume string `yaml:"resume"` // ID of a stored mission to continue
}

// TelemetryConfig represents the telemetry source settings
type TelemetryConfig struct {
	Source     Source `yaml:"source"`
	File       string `yaml:"file"`
	SerialPort string `yaml:"serialPort"`

	telemetry.PortOptions `yaml:",inline"`

	// Nil means the default threshold, zero disables it
	ParseErrorsThreshold *uint8 `yaml:"parseErrorsThreshold"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	InMemory      bool   `yaml:"inMemory"`
}

// MetricsConfig represents the Prometheus endpoint settings. An empty Listen
// address disables the endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// NewConfig returns a configuration reading telemetry from stdin
func NewConfig() *Config {
	return &Config{
		Settings:  Settings{LogLevel: "info"},
		Mission:   MissionConfig{Name: defaultMissionName},
		Telemetry: TelemetryConfig{Source: SourceStdin},
		Storage:   StorageConfig{DataDirectory: defaultStorageDir},
	}
}

// LoadConfig reads and validates a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration
func ParseConfig(data []byte) (*Config, error) {
	config := NewConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration and fills in derived values
func (c *Config) Validate() error {
	var errs []error

	if err := c.Settings.level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("settings: %w", err))
	}

	if c.Mission.Name == "" {
		c.Mission.Name = defaultMissionName
	}

	switch c.Telemetry.Source {
	case SourceStdin:
	case SourceFile:
		if c.Telemetry.File == "" {
			errs = append(errs, errors.New("telemetry: file is required for file source"))
		}
	case SourceSerial:
		if c.Telemetry.SerialPort == "" {
			errs = append(errs, errors.New("telemetry: serialPort is required for serial source"))
		}
		opts, err := c.Telemetry.PortOptions.Normalize()
		if err != nil {
			errs = append(errs, fmt.Errorf("telemetry: %w", err))
		}
		c.Telemetry.PortOptions = opts
	default:
		errs = append(errs, fmt.Errorf("telemetry: unknown source '%s'", c.Telemetry.Source))
	}

	if c.Storage.InMemory && c.Mission.Resume != "" {
		errs = append(errs, errors.New("mission: resume requires persistent storage"))
	}
	if !c.Storage.InMemory && c.Storage.DataDirectory == "" {
		c.Storage.DataDirectory = defaultStorageDir
	}

	return errors.Join(errs...)
}
