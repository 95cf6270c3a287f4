package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TsubasaBE/go-timesheet/internal/config"
	"github.com/TsubasaBE/go-timesheet/internal/logging"
	"github.com/TsubasaBE/go-timesheet/internal/service"
	"github.com/TsubasaBE/go-timesheet/sheet"
	"github.com/TsubasaBE/go-timesheet/spent"
)

// reportFlags are shared by diff and summary.
type reportFlags struct {
	rounding       int
	noWindow       bool
	output         string
	dateFormat     string
	durationFormat string
	prefix         string
	baseURL        string
}

func (f *reportFlags) register(cmd *cobra.Command, tracker bool) {
	fs := cmd.Flags()
	fs.IntVar(&f.rounding, "rounding", 0, "round durations to 1, 5, 10, 15 or 30 minutes")
	fs.StringVarP(&f.output, "output", "o", "", "output format: table, json or yaml")
	fs.StringVar(&f.dateFormat, "date-format", "", "Excel number format for dates")
	fs.StringVar(&f.durationFormat, "duration-format", "", "Excel number format for durations")
	fs.StringVar(&f.prefix, "sheet-prefix", sheet.DefaultPrefix, "read sheets whose names start with this prefix")
	if tracker {
		fs.BoolVar(&f.noWindow, "no-window", false, "also match work items dated before the first sheet day")
		fs.StringVar(&f.baseURL, "base-url", "", "YouTrack base URL")
	}
}

// apply copies the flags that were set over the configuration.
func (f *reportFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("rounding") {
		cfg.RoundingMinutes = f.rounding
	}
	if fs.Changed("no-window") {
		cfg.Window = !f.noWindow
	}
	if fs.Changed("output") {
		cfg.Output = f.output
	}
	if fs.Changed("date-format") {
		cfg.DateFormat = f.dateFormat
	}
	if fs.Changed("duration-format") {
		cfg.DurationFormat = f.durationFormat
	}
	if fs.Changed("base-url") {
		cfg.YouTrack.BaseURL = f.baseURL
	}
}

func (a *app) diffCommand() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "diff <workbook>",
		Short: "Show recorded time that is not booked on YouTrack yet",
		Long: `Show recorded time that is not booked on YouTrack yet.

Rows whose title is an issue id (it contains a dash) are merged per day, issue
and type and rounded. The work items you booked on those issues are then
subtracted. Work items without a counterpart in the workbook are an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, &a.cfg)
			return a.run(cmd.Context(), args[0], f.prefix, true)
		},
	}
	f.register(cmd, true)
	return cmd
}

func (a *app) summaryCommand() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "summary <workbook>",
		Short: "Show all recorded time, absences included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, &a.cfg)
			return a.run(cmd.Context(), args[0], f.prefix, false)
		},
	}
	f.register(cmd, false)
	return cmd
}

func (a *app) validateCommand() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "validate <workbook>",
		Short: "Check the week sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.deps.Open(args[0])
			if err != nil {
				return err
			}
			defer book.Close()

			svc := service.New(nil, service.WithSheetPrefix(prefix))
			n, err := svc.Validate(cmd.Context(), book)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.deps.Stdout, "%s is valid: %d %s in %s.\n",
				args[0], n, pluralize("entry", "entries", n), joinSheets(sheet.WeekSheets(book, sheet.WithPrefix(prefix))))
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "sheet-prefix", sheet.DefaultPrefix, "read sheets whose names start with this prefix")
	return cmd
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			_, _ = fmt.Fprintf(a.deps.Stdout, "timesheet %s\n", a.deps.Version)
		},
	}
}

// run implements diff (withTracker) and summary.
func (a *app) run(ctx context.Context, file, prefix string, withTracker bool) error {
	if err := a.cfg.Validate(); err != nil {
		return &cliError{msg: "Invalid configuration", err: err,
			hint: "Fix the settings above in the config file, the environment or the flags"}
	}
	rounding, _ := spent.ParseRounding(a.cfg.RoundingMinutes)
	opts := []service.Option{
		service.WithRounding(rounding),
		service.WithWindow(a.cfg.Window),
		service.WithSheetPrefix(prefix),
	}

	var tracker service.Tracker
	if withTracker {
		t, err := a.deps.NewTracker(a.cfg)
		if err != nil {
			return err
		}
		tracker = t
	}

	book, err := a.deps.Open(file)
	if err != nil {
		return err
	}
	defer book.Close()

	fileLog := logging.FromContext(ctx).With().Str("file", file).Logger()
	ctx = logging.WithLogger(ctx, &fileLog)
	svc := service.New(tracker, opts...)
	var r *service.Report
	if withTracker {
		r, err = svc.Diff(ctx, book)
	} else {
		r, err = svc.Summary(ctx, book)
	}
	if err != nil {
		return err
	}
	return render(a.deps.Stdout, a.cfg, r, withTracker)
}
