// Package service runs a time sheet through the parser and the
// reconciliation engine and, for diffs, against the issue tracker.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TsubasaBE/go-timesheet/internal/logging"
	"github.com/TsubasaBE/go-timesheet/sheet"
	"github.com/TsubasaBE/go-timesheet/spent"
	"github.com/TsubasaBE/go-timesheet/youtrack"
)

// ErrNoWeekSheets is returned for workbooks without any week sheet.
var ErrNoWeekSheets = errors.New("the workbook does not contain any week sheets")

// ErrNoTracker is returned by Diff when the service has no tracker.
var ErrNoTracker = errors.New("service: no issue tracker configured")

// Tracker is the part of the YouTrack client the service needs.
type Tracker interface {
	CurrentUser(ctx context.Context) (youtrack.User, error)
	WorkItemsForUser(ctx context.Context, user youtrack.User, issueIDs []string) ([]youtrack.WorkItem, error)
	Issues(ctx context.Context, issueIDs []string) ([]youtrack.Issue, error)
}

// Row is a pending entry together with the summary of its issue.
type Row struct {
	spent.Entry `yaml:",inline"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Report is the outcome of Diff or Summary.
type Report struct {
	Sheets       []string            `json:"sheets" yaml:"sheets"`
	Rounding     spent.Rounding      `json:"roundingMinutes" yaml:"roundingMinutes"`
	Rows         []Row               `json:"rows" yaml:"rows"`
	TotalMinutes int                 `json:"totalMinutes" yaml:"totalMinutes"`
	Stats        spent.SubtractStats `json:"stats" yaml:"stats"`
}

// Service reconciles time sheets. The zero value is not usable; call New.
type Service struct {
	tracker  Tracker
	rounding spent.Rounding
	window   bool
	prefix   string
}

// Option configures a Service.
type Option func(*Service)

// WithRounding sets the rounding unit. The default is 15 minutes.
func WithRounding(r spent.Rounding) Option {
	return func(s *Service) { s.rounding = r }
}

// WithWindow enables or disables the reporting window of the engine.
func WithWindow(on bool) Option {
	return func(s *Service) { s.window = on }
}

// WithSheetPrefix overrides the prefix of week sheet names.
func WithSheetPrefix(p string) Option {
	return func(s *Service) { s.prefix = p }
}

// New returns a Service. tracker may be nil when only Summary and Validate
// are used.
func New(tracker Tracker, opts ...Option) *Service {
	s := &Service{
		tracker:  tracker,
		rounding: spent.Rounding15,
		window:   true,
		prefix:   sheet.DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Diff returns the entries of book that are not booked on the tracker yet,
// with the summaries of their issues.
func (s *Service) Diff(ctx context.Context, book sheet.Book) (*Report, error) {
	if s.tracker == nil {
		return nil, ErrNoTracker
	}
	log := logging.FromContext(ctx)

	times, weeks, err := s.load(ctx, book)
	if err != nil {
		return nil, err
	}

	user, err := s.tracker.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	titles := times.UniqueTitles()
	items, err := s.tracker.WorkItemsForUser(ctx, user, titles)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("user", user.ID).Int("issues", len(titles)).Int("workItems", len(items)).Msg("fetched booked time")

	stats, err := times.Subtract(youtrack.Entries(items))
	if err != nil {
		return nil, err
	}
	if stats.OutsideWindow > 0 {
		earliest, _ := times.EarliestDate()
		log.Info().Int("count", stats.OutsideWindow).Time("before", earliest).
			Msg("ignored work items dated before the time sheet")
	}

	issues, err := s.tracker.Issues(ctx, times.UniqueTitles())
	if err != nil {
		return nil, err
	}
	summaries := make(map[string]string, len(issues))
	for _, is := range issues {
		summaries[is.ID] = is.Summary
	}

	r := s.report(times, weeks)
	r.Stats = stats
	for i := range r.Rows {
		r.Rows[i].Summary = summaries[r.Rows[i].Title]
	}
	return r, nil
}

// Summary totals every row of book, including absences and rows without an
// issue key, without contacting the tracker.
func (s *Service) Summary(ctx context.Context, book sheet.Book) (*Report, error) {
	times, weeks, err := s.load(ctx, book, sheet.WithUntracked())
	if err != nil {
		return nil, err
	}
	return s.report(times, weeks), nil
}

// Validate parses every week sheet of book and returns the number of rows
// that produce an entry.
func (s *Service) Validate(ctx context.Context, book sheet.Book) (int, error) {
	opts := []sheet.Option{sheet.WithPrefix(s.prefix), sheet.WithUntracked()}
	if len(sheet.WeekSheets(book, opts...)) == 0 {
		return 0, ErrNoWeekSheets
	}
	n := 0
	for _, err := range sheet.Parse(book, opts...) {
		if err != nil {
			return n, err
		}
		n++
	}
	logging.FromContext(ctx).Debug().Int("entries", n).Msg("workbook is valid")
	return n, nil
}

func (s *Service) load(ctx context.Context, book sheet.Book, extra ...sheet.Option) (*spent.Times, []string, error) {
	log := logging.FromContext(ctx)
	opts := append([]sheet.Option{sheet.WithPrefix(s.prefix)}, extra...)

	weeks := sheet.WeekSheets(book, opts...)
	if len(weeks) == 0 {
		return nil, nil, ErrNoWeekSheets
	}
	if d, ok := book.(interface{ Date1904() bool }); ok && d.Date1904() {
		log.Warn().Msg("workbook uses the 1904 date system; dates are read as 1900 serials")
	}

	var parseErr error
	parsed := 0
	local := func(yield func(spent.Entry) bool) {
		for e, err := range sheet.Parse(book, opts...) {
			if err != nil {
				parseErr = err
				return
			}
			parsed++
			if !yield(e) {
				return
			}
		}
	}

	var engineOpts []spent.Option
	if !s.window {
		engineOpts = append(engineOpts, spent.WithoutWindow())
	}
	times := spent.New(local, s.rounding, engineOpts...)
	if parseErr != nil {
		return nil, nil, parseErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("service: %w", err)
	}

	log.Debug().Strs("sheets", weeks).Int("rows", parsed).Int("entries", times.Len()).
		Dur("rounding", time.Duration(s.rounding)*time.Minute).Msg("parsed workbook")
	return times, weeks, nil
}

func (s *Service) report(times *spent.Times, weeks []string) *Report {
	entries := times.Entries()
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Entry: e}
	}
	return &Report{
		Sheets:       weeks,
		Rounding:     times.Rounding(),
		Rows:         rows,
		TotalMinutes: times.TotalMinutes(),
	}
}
