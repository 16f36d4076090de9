package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/todos/internal/version"
)

// Application branding constants
const (
	AppName   = "TODOS"
	GitHubURL = "github.com/muurk/todos"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Header controls
	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(SubtleColor)

	// Row styles
	CursorRowStyle = lipgloss.NewStyle().
			PaddingLeft(0).
			Foreground(HighlightColor).
			Bold(true)

	CompletedTitleStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Strikethrough(true)

	DateStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	CompletedBadgeStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	IncompleteBadgeStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	DescriptionStyle = lipgloss.NewStyle().
				PaddingLeft(6).
				Foreground(TextColor)

	// Form
	FormBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredLabelStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// Toasts
	SuccessToastStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	ErrorToastStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	InfoToastStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true).
			PaddingLeft(2)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderButton renders a header control, greyed out when disabled
func RenderButton(label string, enabled bool) string {
	if enabled {
		return ButtonStyle.Render(label)
	}
	return DisabledButtonStyle.Render(label)
}

// BuildHeaderContent creates header content with app name and backend URL
func BuildHeaderContent(backend string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(backend)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen with the application header and
// a footer holding the help text, filling the terminal.
func RenderApplicationContainer(backend, content, footerText string, terminalWidth, terminalHeight int) string {
	terminalWidth = ClampWidth(terminalWidth)
	if terminalHeight < 10 {
		terminalHeight = 10
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent(backend)),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// RenderModal centers modal content over a dimmed background
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// ClampWidth keeps a width between MinTerminalWidth and MaxContentWidth
func ClampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
