package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled line in a card or result box
type Field struct {
	Key   string
	Value string
}

// Card is a bordered detail view: a title, a muted subtitle, labelled
// fields and an optional free-form body.
type Card struct {
	Title    string  // e.g., the todo title
	Subtitle string  // e.g., "#12 · Completed"
	Fields   []Field // Rendered in order
	Body     string  // Pre-rendered body, e.g. a markdown description
	Width    int     // Terminal width for responsive rendering
}

// NewCard creates a card sized to the maximum content width
func NewCard(title, subtitle string, fields ...Field) *Card {
	return &Card{
		Title:    title,
		Subtitle: subtitle,
		Fields:   fields,
		Width:    MaxContentWidth,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (c *Card) SetWidth(width int) *Card {
	c.Width = width
	return c
}

// SetBody sets the body rendered under the fields
func (c *Card) SetBody(body string) *Card {
	c.Body = body
	return c
}

// Render returns the styled card as a string
func (c *Card) Render() string {
	width := clampWidth(c.Width)

	sections := []string{TitleStyle.Render(c.Title)}
	if c.Subtitle != "" {
		sections = append(sections, SubtitleStyle.Render(c.Subtitle))
	}

	dividerWidth := width - 6 // Account for border and padding
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		PaddingLeft(2).
		Render(strings.Repeat("─", dividerWidth))

	if len(c.Fields) > 0 {
		sections = append(sections, divider)
		for _, f := range c.Fields {
			sections = append(sections, FieldKeyStyle.Render(f.Key+":")+" "+FieldValueStyle.Render(f.Value))
		}
	}

	if body := strings.TrimRight(c.Body, "\n"); body != "" {
		sections = append(sections, divider, body)
	}

	return CardBorderStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Plain renders the card without styling, one "Key: value" per line
func (c *Card) Plain() string {
	var b strings.Builder
	b.WriteString(c.Title + "\n")
	if c.Subtitle != "" {
		b.WriteString(c.Subtitle + "\n")
	}
	for _, f := range c.Fields {
		b.WriteString(f.Key + ": " + f.Value + "\n")
	}
	if body := strings.TrimRight(c.Body, "\n"); body != "" {
		b.WriteString("\n" + body + "\n")
	}
	return b.String()
}

// String implements fmt.Stringer
func (c *Card) String() string {
	return c.Render()
}
