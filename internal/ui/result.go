package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "Found 2 backends"
	Details         []Field    // Key-value details, in order
	Error           error      // Error (for failure results)
	Troubleshooting []string   // Troubleshooting tips
	Width           int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Field) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: MaxContentWidth}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           MaxContentWidth,
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, troubleshooting []string) *Result {
	return &Result{Type: ResultWarning, Title: title, Troubleshooting: troubleshooting, Width: MaxContentWidth}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Field{Key: key, Value: value})
	return r
}

func (r *Result) heading() (string, lipgloss.Style, lipgloss.Color) {
	switch r.Type {
	case ResultFailure:
		return fmt.Sprintf("%s  FAILED  ─  %s", FailureMarker, r.Title), ErrorTitleStyle, ErrorColor
	case ResultWarning:
		return fmt.Sprintf("%s  WARNING  ─  %s", WarningMarker, r.Title), WarningTitleStyle, WarningColor
	default:
		return fmt.Sprintf("%s  SUCCESS  ─  %s", SuccessMarker, r.Title), SuccessTitleStyle, SuccessColor
	}
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := clampWidth(r.Width)
	title, titleStyle, color := r.heading()

	lines := []string{"", titleStyle.Render(title), ""}

	for _, d := range r.Details {
		lines = append(lines, FieldKeyStyle.Render(d.Key+":")+" "+FieldValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Error != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(ErrorColor).Render("Error: "+r.Error.Error()), "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, InfoStyle.Bold(true).Render("Troubleshooting:"))
		for _, tip := range r.Troubleshooting {
			lines = append(lines, InfoStyle.Render("  • "+tip))
		}
		lines = append(lines, "")
	}

	return ResultBoxStyle(color, width).Render(strings.Join(lines, "\n"))
}

// Plain renders the result without styling
func (r *Result) Plain() string {
	title, _, _ := r.heading()
	var b strings.Builder
	b.WriteString(title + "\n")
	for _, d := range r.Details {
		b.WriteString("  " + d.Key + ": " + d.Value + "\n")
	}
	if r.Error != nil {
		b.WriteString("  Error: " + r.Error.Error() + "\n")
	}
	for _, tip := range r.Troubleshooting {
		b.WriteString("  - " + tip + "\n")
	}
	return b.String()
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
