package ui

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/muurk/todos/internal/todo"
)

// fixedColumnsWidth is what the ID, status and date columns plus borders take
const fixedColumnsWidth = 48

// Column indexes of the todo table
const (
	colID = iota
	colStatus
	colCreated
	colTitle
)

func tableRow(t todo.Todo, layout string) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.StatusLabel(),
		t.CreatedAt.Local().Format(layout),
		t.Title,
	}
}

// RenderTable renders todos as a bordered table fitted to width.
// Titles that do not fit are truncated with an ellipsis.
func RenderTable(todos []todo.Todo, layout string, width int) string {
	width = clampWidth(width)
	titleWidth := width - fixedColumnsWidth
	if titleWidth < 10 {
		titleWidth = 10
	}

	rows := make([][]string, 0, len(todos))
	for _, t := range todos {
		row := tableRow(t, layout)
		row[colTitle] = xansi.Truncate(row[colTitle], titleWidth, "…")
		rows = append(rows, row)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("ID", "STATUS", "CREATED", "TITLE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			switch col {
			case colStatus:
				if todos[row].IsCompleted {
					return CompletedStyle
				}
				return IncompleteStyle
			case colID, colCreated:
				return MutedCellStyle
			}
			return TableCellStyle
		})

	return tbl.Render()
}

// WritePlainTable writes todos as tab-aligned text with a header line
func WritePlainTable(w io.Writer, todos []todo.Todo, layout string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tTITLE")
	for _, t := range todos {
		row := tableRow(t, layout)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row[colID], row[colStatus], row[colCreated], row[colTitle])
	}
	return tw.Flush()
}
