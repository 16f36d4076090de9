package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/muurk/todos/internal/todo"
)

// DefaultDateLayout renders creation dates as 2024-Mar-05
const DefaultDateLayout = "2006-Jan-02"

// Intents emitted by an ItemView. The list screen turns them into
// container operations.
type (
	SelectIntent struct {
		ID       int64
		Selected bool
	}
	EditIntent struct {
		Todo todo.Todo
	}
	DeleteIntent struct {
		ID int64
	}
	ToggleIntent struct {
		ID int64
	}
)

// itemKeyMap defines the keys an ItemView reacts to
type itemKeyMap struct {
	Select  key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Toggle  key.Binding
	Details key.Binding
}

var itemKeys = itemKeyMap{
	Select: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "select"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "complete"),
	),
	Details: key.NewBinding(
		key.WithKeys("v", "tab"),
		key.WithHelp("v", "details"),
	),
}

// ItemView renders a single todo row. The only state it owns is whether
// the description is expanded; everything else is handed in by the list.
type ItemView struct {
	Todo       todo.Todo
	Selected   bool
	Focused    bool
	Expanded   bool
	Width      int
	DateLayout string

	// Markdown renders the expanded description. A nil renderer builds a
	// throwaway one on every call.
	Markdown *MarkdownRenderer
}

// NewItemView creates a collapsed view of t
func NewItemView(t todo.Todo) ItemView {
	return ItemView{Todo: t, DateLayout: DefaultDateLayout}
}

// Update handles row-level keys. Details toggles locally; every other key
// is reported to the parent as an intent.
func (v ItemView) Update(msg tea.Msg) (ItemView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch {
	case key.Matches(keyMsg, itemKeys.Details):
		v.Expanded = !v.Expanded
		return v, nil
	case key.Matches(keyMsg, itemKeys.Select):
		return v, emit(SelectIntent{ID: v.Todo.ID, Selected: !v.Selected})
	case key.Matches(keyMsg, itemKeys.Edit):
		return v, emit(EditIntent{Todo: v.Todo})
	case key.Matches(keyMsg, itemKeys.Delete):
		return v, emit(DeleteIntent{ID: v.Todo.ID})
	case key.Matches(keyMsg, itemKeys.Toggle):
		return v, emit(ToggleIntent{ID: v.Todo.ID})
	}
	return v, nil
}

// View renders the row and, when expanded, the description below it
func (v ItemView) View() string {
	width := v.Width
	if width <= 0 {
		width = MinTerminalWidth
	}

	marker := "  "
	if v.Focused {
		marker = "→ "
	}
	checkbox := "[ ] "
	if v.Selected {
		checkbox = "[x] "
	}

	layout := v.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	date := ""
	if !v.Todo.CreatedAt.IsZero() {
		date = DateStyle.Render(v.Todo.CreatedAt.Local().Format(layout))
	}

	badge := IncompleteBadgeStyle.Render(v.Todo.StatusLabel())
	if v.Todo.IsCompleted {
		badge = CompletedBadgeStyle.Render(v.Todo.StatusLabel())
	}

	right := badge
	if date != "" {
		right = date + "  " + badge
	}

	details := ""
	if v.Todo.Description != "" {
		if v.Expanded {
			details = "  ▾ Hide Details"
		} else {
			details = "  ▸ Show Details"
		}
		details = DateStyle.Render(details)
	}

	prefix := marker + checkbox
	avail := width - xansi.StringWidth(prefix) - xansi.StringWidth(right) - xansi.StringWidth(details) - 2
	if avail < 8 {
		avail = 8
	}
	title := truncate(v.Todo.Title, avail)
	if v.Todo.IsCompleted {
		title = CompletedTitleStyle.Render(title)
	}

	left := prefix + title + details
	gap := width - xansi.StringWidth(left) - xansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	row := left + strings.Repeat(" ", gap) + right
	if v.Focused {
		row = CursorRowStyle.Render(row)
	}

	if !v.Expanded {
		return row
	}

	desc := v.Todo.Description
	if strings.TrimSpace(desc) == "" {
		return row + "\n" + DescriptionStyle.Render(EmptyStyle.Render("No description"))
	}
	return row + "\n" + DescriptionStyle.Render(v.Markdown.Render(desc, width-8))
}

// truncate shortens s to width terminal cells, ending with an ellipsis
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

// MarkdownRenderer renders descriptions as terminal markdown. It keeps one
// glamour renderer for the current wrap width and the output for each
// description rendered at that width. Safe for concurrent use.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
	rendered map[string]string
}

// NewMarkdownRenderer creates an empty renderer cache
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render renders body wrapped at width, falling back to wrapped plain text
// if glamour cannot render it
func (m *MarkdownRenderer) Render(body string, width int) string {
	if width < 20 {
		width = 20
	}
	if m == nil {
		r, err := newTermRenderer(width)
		if err != nil {
			return plainWrap(body, width)
		}
		return renderWith(r, body, width)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderer == nil || m.width != width {
		r, err := newTermRenderer(width)
		if err != nil {
			return plainWrap(body, width)
		}
		m.renderer = r
		m.width = width
		m.rendered = make(map[string]string)
	}
	if out, ok := m.rendered[body]; ok {
		return out
	}
	out := renderWith(m.renderer, body, width)
	m.rendered[body] = out
	return out
}

func newTermRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
}

func renderWith(r *glamour.TermRenderer, body string, width int) string {
	out, err := r.Render(body)
	if err != nil {
		return plainWrap(body, width)
	}
	return strings.Trim(out, "\n")
}

func plainWrap(body string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(body)
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
