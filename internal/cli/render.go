package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"

	"github.com/TsubasaBE/go-timesheet/internal/config"
	"github.com/TsubasaBE/go-timesheet/internal/service"
	"github.com/TsubasaBE/go-timesheet/numfmt"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// Column positions of the table output.
const (
	colDate = iota
	colIssue
	colType
	colDuration
	colSummary
)

func render(w io.Writer, cfg config.Config, r *service.Report, diff bool) error {
	switch cfg.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return renderTable(w, cfg, r, diff)
	}
}

func renderTable(w io.Writer, cfg config.Config, r *service.Report, diff bool) error {
	if len(r.Rows) == 0 {
		msg := "No time recorded."
		if diff {
			msg = "Everything is booked."
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		typ := row.Type
		if row.IsPaidAbsence {
			typ = "paid absence"
		}
		rows = append(rows, []string{
			numfmt.Date(row.Date, cfg.DateFormat),
			row.Title,
			typ,
			numfmt.Minutes(row.DurationMinutes, cfg.DurationFormat),
			row.Summary,
			strings.Join(row.Comments, "; "),
		})
	}

	headers := []string{"Date", "Issue", "Type", "Duration", "Summary", "Comments"}
	if !diff {
		// Summaries come from the tracker.
		headers = slices.Delete(headers, colSummary, colSummary+1)
		for i := range rows {
			rows[i] = slices.Delete(rows[i], colSummary, colSummary+1)
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == colDuration:
				return numberStyle
			default:
				return cellStyle
			}
		})

	total := numfmt.Minutes(r.TotalMinutes, cfg.DurationFormat)
	footer := fmt.Sprintf("%s in %d %s from %s, rounded to %d minutes.",
		total, len(r.Rows), pluralize("entry", "entries", len(r.Rows)), joinSheets(r.Sheets), r.Rounding)
	if diff {
		footer += fmt.Sprintf(" %d booked %s subtracted",
			r.Stats.Matched, pluralize("work item", "work items", r.Stats.Matched))
		if r.Stats.OutsideWindow > 0 {
			footer += fmt.Sprintf(", %d before the first day ignored", r.Stats.OutsideWindow)
		}
		footer += "."
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), mutedStyle.Render(footer))
	return err
}

func pluralize(one, many string, n int) string {
	if n == 1 {
		return one
	}
	return many
}

func joinSheets(sheets []string) string {
	switch len(sheets) {
	case 0:
		return "no sheets"
	case 1:
		return sheets[0]
	}
	return strings.Join(sheets[:len(sheets)-1], ", ") + " and " + sheets[len(sheets)-1]
}
