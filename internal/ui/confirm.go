package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm shows a warning with bullet points and asks for a yes/no answer
// on in. Only "y" or "yes" (any case) confirms; EOF declines.
func Confirm(in io.Reader, out io.Writer, styled bool, title string, items []string) bool {
	if styled {
		lines := []string{"", WarningTitleStyle.Render(WarningMarker + "  " + title), ""}
		for _, item := range items {
			lines = append(lines, lipgloss.NewStyle().Foreground(TextColor).Render("   • "+item))
		}
		lines = append(lines, "")
		box := lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(WarningColor).
			Padding(0, 2).
			Render(strings.Join(lines, "\n"))
		fmt.Fprintln(out, box)
		fmt.Fprint(out, WarningTitleStyle.Render("Proceed? [y/N]: "))
	} else {
		fmt.Fprintln(out, title)
		for _, item := range items {
			fmt.Fprintln(out, "  - "+item)
		}
		fmt.Fprint(out, "Proceed? [y/N]: ")
	}

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}

	if styled {
		fmt.Fprintln(out, InfoStyle.Render("  Operation cancelled."))
	} else {
		fmt.Fprintln(out, "Operation cancelled.")
	}
	return false
}
