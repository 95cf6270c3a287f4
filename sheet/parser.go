package sheet

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/TsubasaBE/go-timesheet/spent"
)

// DefaultPrefix is the name prefix of the sheets Parse considers.
const DefaultPrefix = "Week"

// FirstDataRow is the first row below the header block.
const FirstDataRow = 5

// Titles synthesized for paid-absence rows.
const (
	HolidayTitle          = "Holiday"
	OtherPaidAbsenceTitle = "Other Paid Absence"
)

// snapDays is one second expressed in days. Period lengths below it are
// treated as zero.
const snapDays = 1.0 / secondsPerDay

type config struct {
	prefix    string
	untracked bool
}

// Option configures Parse.
type Option func(*config)

// WithUntracked makes Parse emit entries whose title is not an issue key,
// paid absences included. By default only issue entries are emitted.
func WithUntracked() Option {
	return func(c *config) { c.untracked = true }
}

// WithPrefix replaces DefaultPrefix as the sheet name prefix.
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

func newConfig(opts []Option) config {
	c := config{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WeekSheets returns the names of the sheets Parse would read, in book order.
func WeekSheets(book Book, opts ...Option) []string {
	c := newConfig(opts)
	var names []string
	for _, name := range book.SheetNames() {
		if strings.HasPrefix(name, c.prefix) {
			names = append(names, name)
		}
	}
	return names
}

// Parse returns the entries recorded in the week sheets of book.
//
// The sequence is produced lazily, one row at a time, and may be stopped
// early. Sheets are opened only once iteration reaches them. On the first
// validation failure the sequence yields a zero Entry together with the error
// and ends; errors from the parser itself are of type *Error. Each call to
// Parse, and each range over its result, starts from the first sheet again.
func Parse(book Book, opts ...Option) iter.Seq2[spent.Entry, error] {
	c := newConfig(opts)
	return func(yield func(spent.Entry, error) bool) {
		for _, name := range book.SheetNames() {
			if !strings.HasPrefix(name, c.prefix) {
				continue
			}
			sh, err := book.Sheet(name)
			if err != nil {
				yield(spent.Entry{}, fmt.Errorf("sheet: opening %q: %w", name, err))
				return
			}
			if !c.parseSheet(sh, yield) {
				return
			}
		}
	}
}

// parseSheet reports false when iteration must stop, either because the
// consumer asked for it or because an error was yielded.
func (c config) parseSheet(sh Sheet, yield func(spent.Entry, error) bool) bool {
	name := sh.Name()
	bottom, err := checkRange(name, sh.Range())
	if err != nil {
		yield(spent.Entry{}, err)
		return false
	}

	for r := FirstDataRow; r <= bottom; r++ {
		e, ok, err := c.parseRow(readRow(sh, r))
		if err != nil {
			yield(spent.Entry{}, err)
			return false
		}
		if ok && !yield(e, nil) {
			return false
		}
	}
	return true
}

// checkRange validates the declared range and returns its bottom row.
func checkRange(name, rng string) (int, error) {
	if rng == "" {
		return 0, &Error{Kind: EmptySheet, Sheet: name}
	}
	topLeft, bottomRight, ok := splitRange(rng)
	if !ok {
		return 0, &Error{Kind: MalformedRange, Sheet: name, Range: rng}
	}
	if topLeft.col != "A" || bottomRight.col != "G" || topLeft.row != 1 || bottomRight.row < FirstDataRow {
		return 0, &Error{Kind: UnexpectedRange, Sheet: name, Range: rng}
	}
	return bottomRight.row, nil
}

// slot is an optional cell.
type slot struct {
	Cell
	ok bool
}

// present reports whether the cell holds a non-empty value.
func (s slot) present() bool {
	return s.ok && s.Text() != ""
}

type row struct {
	sheet string
	num   int

	holiday, otherAbsence slot
	start, end            slot
	title, typ, comment   slot
}

func readRow(sh Sheet, r int) row {
	get := func(col string) slot {
		c, ok := sh.Cell(col + strconv.Itoa(r))
		return slot{Cell: c, ok: ok}
	}
	return row{
		sheet:        sh.Name(),
		num:          r,
		holiday:      get("A"),
		otherAbsence: get("B"),
		start:        get("C"),
		end:          get("D"),
		title:        get("E"),
		typ:          get("F"),
		comment:      get("G"),
	}
}

// parseRow validates one data row. It reports false for rows that are valid
// but contribute no entry.
func (c config) parseRow(r row) (spent.Entry, bool, error) {
	fail := func(k Kind) (spent.Entry, bool, error) {
		return spent.Entry{}, false, rowError(k, r.sheet, r.num)
	}

	hasStart, hasEnd := r.start.present(), r.end.present()
	if hasStart != hasEnd {
		return fail(UnmatchedPeriod)
	}
	if !hasStart {
		return spent.Entry{}, false, nil
	}

	start, ok1 := r.start.Number()
	end, ok2 := r.end.Number()
	if !ok1 || !ok2 {
		return fail(NonNumericPeriod)
	}

	days := end - start
	if math.Abs(days) < snapDays {
		days = 0
	}
	if days < 0 {
		return fail(InvertedPeriod)
	}
	minutes := int(math.Round(days * spent.MinutesPerDay))
	if days >= 1 || minutes >= spent.MinutesPerDay {
		return fail(PeriodTooLong)
	}

	holiday, other := r.holiday.present(), r.otherAbsence.present()
	var title string
	switch {
	case holiday && other:
		return fail(AmbiguousAbsence)
	case holiday || other:
		if !r.end.Derived {
			return fail(MissingAbsenceFormula)
		}
		if r.start.Derived {
			return fail(BadAbsenceShape)
		}
		title = OtherPaidAbsenceTitle
		if holiday {
			title = HolidayTitle
		}
	default:
		if r.start.Derived != r.end.Derived {
			return fail(InconsistentPeriodKind)
		}
	}

	// Rows with a computed start mirror another row.
	if r.start.Derived {
		return spent.Entry{}, false, nil
	}

	paidAbsence := title != ""
	if !paidAbsence {
		title = strings.TrimSpace(r.title.Text())
		if title == "" {
			return fail(MissingTitle)
		}
	}

	if !c.untracked && !spent.IsIssueKey(title) {
		return spent.Entry{}, false, nil
	}

	return spent.Entry{
		Date:            SerialDate(start),
		Title:           title,
		Type:            strings.TrimSpace(r.typ.Text()),
		IsPaidAbsence:   paidAbsence,
		Comments:        spent.SplitComments(r.comment.Text()),
		DurationMinutes: minutes,
	}, true, nil
}
