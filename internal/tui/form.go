package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/todos/internal/todo"
)

// SaveIntent asks the list to create (EditingID nil) or update a todo
type SaveIntent struct {
	EditingID *int64
	Draft     todo.Draft
}

// CancelIntent closes the form without saving
type CancelIntent struct{}

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
)

// formKeyMap defines key bindings for the form
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Submit, k.Cancel}}
}

var formKeys = formKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// FormModel edits a title and description. It is blank for a new todo and
// prefilled when editing; either way it only reports intents.
type FormModel struct {
	Title       textinput.Model
	Description textarea.Model

	editing *todo.Todo
	focus   formField
	err     string
	width   int
}

// NewFormModel creates a blank form focused on the title
func NewFormModel() FormModel {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = todo.MaxTitleLength
	ti.Width = 50
	ti.Prompt = ""
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Description (markdown)"
	ta.CharLimit = 5000
	ta.ShowLineNumbers = false
	ta.SetWidth(52)
	ta.SetHeight(5)
	ta.Blur()

	return FormModel{Title: ti, Description: ta, focus: fieldTitle, width: 56}
}

// SetTodo points the form at t (nil for a new todo). The fields are reset
// only when the target differs from the current one.
func (m FormModel) SetTodo(t *todo.Todo) FormModel {
	if sameTarget(m.editing, t) {
		return m
	}
	if t != nil {
		c := *t
		m.editing = &c
	} else {
		m.editing = nil
	}
	return m.reset()
}

// Editing returns the todo being edited, or nil when creating
func (m FormModel) Editing() *todo.Todo {
	return m.editing
}

// Heading returns the form's title line
func (m FormModel) Heading() string {
	if m.editing != nil {
		return "Edit Todo"
	}
	return "Add Todo"
}

// Err returns the validation message currently shown, if any
func (m FormModel) Err() string {
	return m.err
}

// SetWidth sizes the inputs to fit a modal of the given width
func (m FormModel) SetWidth(width int) FormModel {
	if width < 30 {
		width = 30
	}
	m.width = width
	m.Title.Width = width - 6
	m.Description.SetWidth(width - 4)
	return m
}

func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, formKeys.Cancel):
			m.editing = nil
			m = m.reset()
			return m, emit(CancelIntent{})

		case key.Matches(keyMsg, formKeys.Submit):
			return m.submit()

		case key.Matches(keyMsg, formKeys.Next), key.Matches(keyMsg, formKeys.Prev):
			return m.switchFocus()

		case keyMsg.Type == tea.KeyEnter && m.focus == fieldTitle:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldTitle {
		m.Title, cmd = m.Title.Update(msg)
		if m.err != "" && strings.TrimSpace(m.Title.Value()) != "" {
			m.err = ""
		}
	} else {
		m.Description, cmd = m.Description.Update(msg)
	}
	return m, cmd
}

// submit validates the title and emits a SaveIntent with the fields as
// typed. An invalid title keeps the form open with the message shown.
func (m FormModel) submit() (FormModel, tea.Cmd) {
	title := m.Title.Value()
	if err := todo.ValidateTitle(title); err != nil {
		m.err = todo.ShortMessage(err)
		return m, nil
	}

	intent := SaveIntent{Draft: todo.NewDraft(title, m.Description.Value())}
	if m.editing != nil {
		id := m.editing.ID
		intent.EditingID = &id
	}

	m.editing = nil
	m = m.reset()
	return m, emit(intent)
}

func (m FormModel) switchFocus() (FormModel, tea.Cmd) {
	if m.focus == fieldTitle {
		m.focus = fieldDescription
		m.Title.Blur()
		return m, m.Description.Focus()
	}
	m.focus = fieldTitle
	m.Description.Blur()
	return m, m.Title.Focus()
}

// reset loads the fields from the edited todo, or clears them
func (m FormModel) reset() FormModel {
	m.err = ""
	m.Title.Reset()
	m.Description.Reset()
	if m.editing != nil {
		m.Title.SetValue(m.editing.Title)
		m.Description.SetValue(m.editing.Description)
	}
	m.focus = fieldTitle
	m.Description.Blur()
	m.Title.Focus()
	return m
}

func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle(m.Heading()))
	b.WriteString("\n")

	titleLabel, descLabel := BlurredLabelStyle, BlurredLabelStyle
	if m.focus == fieldTitle {
		titleLabel = FocusedLabelStyle
	} else {
		descLabel = FocusedLabelStyle
	}

	b.WriteString(titleLabel.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.Title.View())
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(FieldErrorStyle.Render("✗ " + m.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(descLabel.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.Description.View())
	b.WriteString("\n\n")

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderButton("esc Cancel", true), " ", RenderButton("ctrl+s Save", true))
	b.WriteString(buttons)

	return FormBoxStyle.Width(m.width).Render(b.String())
}

func sameTarget(a, b *todo.Todo) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}
