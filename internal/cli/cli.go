// Package cli implements the timesheet command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	timesheet "github.com/TsubasaBE/go-timesheet"
	"github.com/TsubasaBE/go-timesheet/internal/config"
	"github.com/TsubasaBE/go-timesheet/internal/logging"
	"github.com/TsubasaBE/go-timesheet/internal/service"
	"github.com/TsubasaBE/go-timesheet/youtrack"
)

// Deps holds external dependencies of the commands so tests can replace them.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	// Open opens a workbook by file name.
	Open func(name string) (timesheet.Book, error)
	// NewTracker connects to the issue tracker described by cfg.
	NewTracker func(cfg config.Config) (service.Tracker, error)
	// ConfigPath returns the default config file location.
	ConfigPath func() (string, error)
	// EnvFiles are loaded before the configuration.
	EnvFiles []string
	// Version is reported by the version command.
	Version string
}

// DefaultDeps returns the production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Open:       timesheet.Open,
		NewTracker: newYouTrack,
		ConfigPath: config.Path,
		EnvFiles:   []string{".env"},
		Version:    timesheet.Version,
	}
}

func newYouTrack(cfg config.Config) (service.Tracker, error) {
	if cfg.YouTrack.BaseURL == "" {
		return nil, errNoBaseURL
	}
	if cfg.YouTrack.Token == "" {
		return nil, errNoToken
	}
	burst := max(1, int(cfg.YouTrack.RequestsPerSecond))
	c, err := youtrack.New(cfg.YouTrack.BaseURL, cfg.YouTrack.Token,
		youtrack.WithRateLimit(cfg.YouTrack.RequestsPerSecond, burst),
		youtrack.WithConcurrency(cfg.YouTrack.Concurrency))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// app is the state shared by the commands of one invocation.
type app struct {
	deps *Deps
	cfg  config.Config
	log  zerolog.Logger

	configFile string
	logLevel   string
	verbose    bool
}

// Execute runs the command line with args and returns the exit code.
func Execute(ctx context.Context, deps *Deps, args []string) int {
	a := &app{deps: deps, log: logging.Nop}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "timesheet",
		Short: "Reconcile weekly time sheets with YouTrack",
		Long: `timesheet reads the Week sheets of a time sheet workbook and compares the
recorded time with the work items already booked on a YouTrack server.

Usage:
  timesheet diff Hours.xlsm         Show time that is not booked yet
  timesheet summary Hours.xlsm      Show all recorded time, absences included
  timesheet validate Hours.xlsm     Check the workbook for mistakes
  timesheet config init             Write a default configuration file

Supported workbooks: .xlsx, .xlsm, .xltx, .xltm and .xlsb.`,
		Version:       a.deps.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/timesheet/config.toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error or off")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(
		a.diffCommand(),
		a.summaryCommand(),
		a.validateCommand(),
		a.configCommand(),
		a.versionCommand(),
	)
	return root
}

// setup loads the configuration and the logger.
func (a *app) setup(cmd *cobra.Command) error {
	file := a.configFile
	if file == "" {
		if p, err := a.deps.ConfigPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				file = p
			}
		}
	}
	cfg, err := config.Load(config.Options{File: file, EnvFiles: a.deps.EnvFiles})
	if err != nil {
		return &cliError{msg: "Failed to load configuration", err: err,
			hint: "Check that the config file is valid TOML; see 'timesheet config show'"}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	} else if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	a.log = logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, a.deps.Stderr)
	cmd.SetContext(logging.WithLogger(cmd.Context(), &a.log))
	if cfg.File != "" {
		a.log.Debug().Str("file", cfg.File).Msg("loaded configuration")
	}
	return nil
}
