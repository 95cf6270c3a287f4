// Package config loads the timesheet settings from a TOML file, the
// environment and an optional .env file.
//
// Precedence, highest first: TIMESHEET_* environment variables (including
// those set by .env files), the config file, the defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/TsubasaBE/go-timesheet/internal/logging"
	"github.com/TsubasaBE/go-timesheet/numfmt"
	"github.com/TsubasaBE/go-timesheet/spent"
	"github.com/TsubasaBE/go-timesheet/youtrack"
)

const (
	// AppName names the directory below the user config directory.
	AppName = "timesheet"
	// FileName is the name of the config file.
	FileName = "config.toml"
	// EnvPrefix prefixes environment overrides, e.g. TIMESHEET_YOUTRACK_TOKEN.
	EnvPrefix = "TIMESHEET"
)

// Output formats.
var Outputs = []string{"table", "json", "yaml"}

var logFormats = []string{"auto", "console", "json"}

// YouTrack holds the server connection settings.
type YouTrack struct {
	BaseURL           string  `mapstructure:"base_url" toml:"base_url"`
	Token             string  `mapstructure:"token" toml:"token"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second"`
	Concurrency       int     `mapstructure:"concurrency" toml:"concurrency"`
}

// Log holds the logger settings.
type Log struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

// Config is the effective configuration.
type Config struct {
	YouTrack        YouTrack `mapstructure:"youtrack" toml:"youtrack"`
	RoundingMinutes int      `mapstructure:"rounding_minutes" toml:"rounding_minutes"`
	// Window leaves work items dated before the first sheet day alone.
	Window         bool   `mapstructure:"window" toml:"window"`
	Output         string `mapstructure:"output" toml:"output"`
	DateFormat     string `mapstructure:"date_format" toml:"date_format"`
	DurationFormat string `mapstructure:"duration_format" toml:"duration_format"`
	Log            Log    `mapstructure:"log" toml:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" toml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		YouTrack: YouTrack{
			RequestsPerSecond: youtrack.DefaultRequestsPerSecond,
			Concurrency:       youtrack.DefaultConcurrency,
		},
		RoundingMinutes: int(spent.Rounding15),
		Window:          true,
		Output:          "table",
		DateFormat:      numfmt.DefaultDate,
		DurationFormat:  numfmt.DefaultDuration,
		Log:             Log{Level: "info", Format: "auto"},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/timesheet/config.toml on Linux.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, FileName), nil
}

// Options controls Load.
type Options struct {
	// File is an explicit config file. It must exist. When empty the
	// default location is read if present.
	File string
	// EnvFiles are loaded into the environment first. Missing files are
	// ignored; variables already set are kept.
	EnvFiles []string
}

// Load builds the effective configuration.
func Load(opts Options) (Config, error) {
	for _, f := range opts.EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := opts.File
	if file == "" {
		if p, err := Path(); err == nil {
			if _, err := os.Stat(p); err == nil {
				file = p
			}
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("youtrack.base_url", d.YouTrack.BaseURL)
	v.SetDefault("youtrack.token", d.YouTrack.Token)
	v.SetDefault("youtrack.requests_per_second", d.YouTrack.RequestsPerSecond)
	v.SetDefault("youtrack.concurrency", d.YouTrack.Concurrency)
	v.SetDefault("rounding_minutes", d.RoundingMinutes)
	v.SetDefault("window", d.Window)
	v.SetDefault("output", d.Output)
	v.SetDefault("date_format", d.DateFormat)
	v.SetDefault("duration_format", d.DurationFormat)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if _, err := spent.ParseRounding(c.RoundingMinutes); err != nil {
		errs = append(errs, fmt.Errorf("rounding_minutes: %w", err))
	}
	if !slices.Contains(Outputs, c.Output) {
		errs = append(errs, fmt.Errorf("output: %q is not one of %s", c.Output, strings.Join(Outputs, ", ")))
	}
	if c.YouTrack.BaseURL != "" {
		if u, err := url.Parse(c.YouTrack.BaseURL); err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Errorf("youtrack.base_url: %q is not an absolute URL", c.YouTrack.BaseURL))
		}
	}
	if c.YouTrack.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("youtrack.requests_per_second: must not be negative"))
	}
	if c.YouTrack.Concurrency < 1 {
		errs = append(errs, errors.New("youtrack.concurrency: must be at least 1"))
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format: %q is not one of %s", c.Log.Format, strings.Join(logFormats, ", ")))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy of c safe to print.
func (c Config) Redacted() Config {
	if c.YouTrack.Token != "" {
		c.YouTrack.Token = "********"
	}
	return c
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// ErrExists is returned by Init when the file is already there.
var ErrExists = errors.New("config: file already exists")

// Init writes the default configuration to path, creating its directory.
// An existing file is only replaced when force is set.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := Encode(f, Default()); err != nil {
		_ = f.Close()
		return fmt.Errorf("config: %w", err)
	}
	return f.Close()
}
