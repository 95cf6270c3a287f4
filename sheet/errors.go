package sheet

import (
	"errors"
	"fmt"
)

// Kind classifies a validation failure.
type Kind int

// Structural kinds describe the shape of a sheet, row kinds the content of
// one data row.
const (
	EmptySheet Kind = iota + 1
	MalformedRange
	UnexpectedRange

	UnmatchedPeriod
	NonNumericPeriod
	InvertedPeriod
	PeriodTooLong
	AmbiguousAbsence
	BadAbsenceShape
	MissingAbsenceFormula
	InconsistentPeriodKind
	MissingTitle
)

var kindNames = map[Kind]string{
	EmptySheet:             "empty sheet",
	MalformedRange:         "malformed range",
	UnexpectedRange:        "unexpected range",
	UnmatchedPeriod:        "unmatched period",
	NonNumericPeriod:       "non-numeric period",
	InvertedPeriod:         "inverted period",
	PeriodTooLong:          "period too long",
	AmbiguousAbsence:       "ambiguous absence",
	BadAbsenceShape:        "bad absence shape",
	MissingAbsenceFormula:  "missing absence formula",
	InconsistentPeriodKind: "inconsistent period kind",
	MissingTitle:           "missing title",
}

// String returns a short lower-case name of k.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrEmptySheet             = errors.New("sheet: empty sheet")
	ErrMalformedRange         = errors.New("sheet: malformed range")
	ErrUnexpectedRange        = errors.New("sheet: unexpected range")
	ErrUnmatchedPeriod        = errors.New("sheet: unmatched period")
	ErrNonNumericPeriod       = errors.New("sheet: non-numeric period")
	ErrInvertedPeriod         = errors.New("sheet: inverted period")
	ErrPeriodTooLong          = errors.New("sheet: period too long")
	ErrAmbiguousAbsence       = errors.New("sheet: ambiguous absence")
	ErrBadAbsenceShape        = errors.New("sheet: bad absence shape")
	ErrMissingAbsenceFormula  = errors.New("sheet: missing absence formula")
	ErrInconsistentPeriodKind = errors.New("sheet: inconsistent period kind")
	ErrMissingTitle           = errors.New("sheet: missing title")
)

var sentinels = map[Kind]error{
	EmptySheet:             ErrEmptySheet,
	MalformedRange:         ErrMalformedRange,
	UnexpectedRange:        ErrUnexpectedRange,
	UnmatchedPeriod:        ErrUnmatchedPeriod,
	NonNumericPeriod:       ErrNonNumericPeriod,
	InvertedPeriod:         ErrInvertedPeriod,
	PeriodTooLong:          ErrPeriodTooLong,
	AmbiguousAbsence:       ErrAmbiguousAbsence,
	BadAbsenceShape:        ErrBadAbsenceShape,
	MissingAbsenceFormula:  ErrMissingAbsenceFormula,
	InconsistentPeriodKind: ErrInconsistentPeriodKind,
	MissingTitle:           ErrMissingTitle,
}

// Error is a validation failure located in a sheet and, for row kinds, a row.
type Error struct {
	Kind  Kind
	Sheet string
	// Row is the 1-based row number, 0 for structural kinds.
	Row int
	// Range is the declared range for the range kinds.
	Range string
}

// Error implements the error interface. The messages are meant for the
// person maintaining the sheet.
func (e *Error) Error() string {
	s, r := e.Sheet, e.Row
	switch e.Kind {
	case EmptySheet:
		return fmt.Sprintf("The sheet %s seems to be empty.", s)
	case MalformedRange, UnexpectedRange:
		return fmt.Sprintf("The sheet %s has an unexpected range: %s.", s, e.Range)
	case UnmatchedPeriod:
		return fmt.Sprintf("In sheet %s, C%d and D%d must either be both empty or non-empty.", s, r, r)
	case NonNumericPeriod:
		return fmt.Sprintf("In sheet %s, C%d and D%d must both be dates.", s, r, r)
	case InvertedPeriod:
		return fmt.Sprintf("In sheet %s, C%d must be smaller than D%d.", s, r, r)
	case PeriodTooLong:
		return fmt.Sprintf("In sheet %s, on row %d the spent time must be smaller than 1 day.", s, r)
	case AmbiguousAbsence:
		return fmt.Sprintf("In sheet %s, A%d and B%d cannot both be non-empty.", s, r, r)
	case BadAbsenceShape:
		return fmt.Sprintf("In sheet %s, C%d must be fixed and D%d must be floating.", s, r, r)
	case MissingAbsenceFormula:
		return fmt.Sprintf("In sheet %s, D%d must be a formula.", s, r)
	case InconsistentPeriodKind:
		return fmt.Sprintf("In sheet %s, C%d and D%d must either be both values or both formulas.", s, r, r)
	case MissingTitle:
		return fmt.Sprintf("In sheet %s, E%d must not be empty.", s, r)
	default:
		return fmt.Sprintf("In sheet %s, row %d: %s.", s, r, e.Kind)
	}
}

// Is implements errors.Is support for the Err* sentinels.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func rowError(kind Kind, sheet string, row int) *Error {
	return &Error{Kind: kind, Sheet: sheet, Row: row}
}
