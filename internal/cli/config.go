package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TsubasaBE/go-timesheet/internal/config"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration",
		Long: `Show or create the configuration.

Settings are read from the config file and can be overridden with environment
variables prefixed with TIMESHEET_, for example:

  TIMESHEET_YOUTRACK_BASE_URL=https://example.myjetbrains.com/
  TIMESHEET_YOUTRACK_TOKEN=perm:...
  TIMESHEET_ROUNDING_MINUTES=15

A .env file in the working directory is loaded first.`,
	}
	cmd.AddCommand(a.configShowCommand(), a.configInitCommand())
	return cmd
}

func (a *app) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			out := a.deps.Stdout
			if a.cfg.File != "" {
				_, _ = fmt.Fprintf(out, "# Config file: %s\n", a.cfg.File)
			} else {
				_, _ = fmt.Fprintln(out, "# No config file (using defaults and environment)")
			}
			if err := a.cfg.Validate(); err != nil {
				for line := range strings.SplitSeq(err.Error(), "\n") {
					_, _ = fmt.Fprintf(out, "# Invalid: %s\n", line)
				}
			}
			return config.Encode(out, a.cfg.Redacted())
		},
	}
}

func (a *app) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path := a.configFile
			if path == "" {
				p, err := a.deps.ConfigPath()
				if err != nil {
					return &cliError{msg: "Failed to determine config file location", err: err,
						hint: "Pass --config with the file to create"}
				}
				path = p
			}
			if err := config.Init(path, force); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.deps.Stdout, "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
