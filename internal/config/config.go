package config

import (
	"os"

	"codeberg.org/mutker/machinesim/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval    = 1
	DefaultListen      = ":8080"
	DefaultHistorySize = 100
	DefaultLogLevel    = "info"

	defaultDBPath = "/var/lib/machinesim/telemetry.db"
	configEnvVar  = "MACHINESIM_CONFIG"
)

// Config holds the daemon configuration, merged from defaults, the
// TOML config file, environment and command line flags (highest
// precedence last).
type Config struct {
	Interval    int    `mapstructure:"interval"`
	Listen      string `mapstructure:"listen"`
	HistorySize int    `mapstructure:"history"`
	Seed        int64  `mapstructure:"seed"`
	Autostart   bool   `mapstructure:"autostart"`
	LogLevel    string `mapstructure:"log_level"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

func (l LogLevel) String() string {
	return string(l)
}

func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("machinesim", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Int("interval", DefaultInterval, "Seconds between simulation ticks")
	fs.String("listen", DefaultListen, "Control API listen address")
	fs.Int("history", DefaultHistorySize, "Snapshot history capacity")
	fs.Int64("seed", 0, "Sensor RNG seed (0 seeds from the clock)")
	fs.Bool("autostart", false, "Request machine start at boot")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("telemetry", false, "Record every tick to the telemetry database")
	fs.String("database", defaultDBPath, "Telemetry database path")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("history", DefaultHistorySize)
	v.SetDefault("seed", 0)
	v.SetDefault("autostart", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultDBPath)

	bindings := map[string]string{
		"interval":  "interval",
		"listen":    "listen",
		"history":   "history",
		"seed":      "seed",
		"autostart": "autostart",
		"log_level": "log-level",
		"telemetry": "telemetry",
		"database":  "database",
	}
	for key, flagName := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetConfigType("toml")
	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("machinesim")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.HistorySize <= 0 {
		return errFactory.WithData(errors.ErrInvalidHistory, c.HistorySize)
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry enabled without a database path")
	}

	return nil
}
