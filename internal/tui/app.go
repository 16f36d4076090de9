package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/state"
	"github.com/muurk/todos/internal/todo"
)

// DefaultToastDuration is how long a notification stays on screen
const DefaultToastDuration = 4 * time.Second

// Messages for async operations
type (
	opDoneMsg struct {
		op  string
		err error
	}
	notificationMsg struct {
		note state.Notification
	}
	toastExpiredMsg struct {
		seq int
	}
)

// appKeyMap defines key bindings for the list screen
type appKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Add            key.Binding
	SelectAll      key.Binding
	DeleteSelected key.Binding
	Refresh        key.Binding
	Reload         key.Binding
	Help           key.Binding
	Quit           key.Binding
	item           itemKeyMap
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k appKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.item.Select, k.Add, k.item.Edit, k.item.Toggle, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k appKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.item.Details},
		{k.item.Select, k.SelectAll, k.DeleteSelected},
		{k.Add, k.item.Edit, k.item.Toggle, k.item.Delete},
		{k.Refresh, k.Reload, k.Help, k.Quit},
	}
}

func newAppKeyMap() appKeyMap {
	return appKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Add: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "add new"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "select all"),
		),
		DeleteSelected: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete selected"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh item"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload all"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		item: itemKeys,
	}
}

// Options tunes the list screen
type Options struct {
	Backend       string        // shown in the header
	DateLayout    string        // creation date layout, DefaultDateLayout when empty
	ToastDuration time.Duration // DefaultToastDuration when zero
}

// AppModel is the list screen. It owns the view state only; the todo list
// and selection live in the state.Container.
type AppModel struct {
	ctx    context.Context
	cancel context.CancelFunc

	store *state.Container
	feed  NotificationFeed
	opts  Options

	Views  []ItemView
	Cursor int
	offset int

	Form     FormModel
	FormOpen bool

	Toast    *state.Notification
	toastSeq int

	InFlight int
	Spinner  spinner.Model

	Help help.Model
	Keys appKeyMap

	Width  int
	Height int

	markdown *MarkdownRenderer
}

// NewAppModel creates the list screen over store. Notifications sent to feed
// are shown as toasts; feed must be the notifier the store was built with.
func NewAppModel(ctx context.Context, store *state.Container, feed NotificationFeed, opts Options) AppModel {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = DefaultToastDuration
	}

	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := AppModel{
		ctx:     ctx,
		cancel:  cancel,
		store:   store,
		feed:    feed,
		opts:    opts,
		Form:    NewFormModel(),
		Spinner: s,
		Help:    help.New(),
		Keys:    newAppKeyMap(),

		markdown: NewMarkdownRenderer(),
	}
	m.InFlight = 1 // initial load started by Init
	m.syncViews()
	return m
}

// Init loads the list and starts listening for notifications
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		opCmd(m.ctx, "load", m.store.LoadAll),
		waitForNotification(m.feed),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Form = m.Form.SetWidth(SafeModalWidth(64, msg.Width))
		m.syncViews()
		return m, nil

	case opDoneMsg:
		if m.InFlight > 0 {
			m.InFlight--
		}
		if msg.err != nil && !todo.IsCanceled(msg.err) {
			logging.Debug("Operation finished with error", zap.String("op", msg.op), zap.Error(msg.err))
		}
		m.syncViews()
		return m, nil

	case notificationMsg:
		m.toastSeq++
		note := msg.note
		m.Toast = &note
		seq := m.toastSeq
		return m, tea.Batch(
			waitForNotification(m.feed),
			tea.Tick(m.opts.ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} }),
		)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.Toast = nil
		}
		return m, nil

	case spinner.TickMsg:
		if m.InFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case SelectIntent:
		if msg.Selected {
			m.store.Select(msg.ID)
		} else {
			m.store.Deselect(msg.ID)
		}
		m.syncViews()
		return m, nil

	case EditIntent:
		t := msg.Todo
		m.Form = m.Form.SetTodo(&t)
		m.FormOpen = true
		return m, m.Form.Init()

	case DeleteIntent:
		id := msg.ID
		cmd := m.run("delete", func(ctx context.Context) error { return m.store.Remove(ctx, id) })
		return m, cmd

	case ToggleIntent:
		id := msg.ID
		cmd := m.run("toggle", func(ctx context.Context) error { return m.store.Toggle(ctx, id) })
		return m, cmd

	case SaveIntent:
		m.FormOpen = false
		intent := msg
		cmd := m.run("save", func(ctx context.Context) error {
			return m.store.Save(ctx, intent.EditingID, intent.Draft)
		})
		return m, cmd

	case CancelIntent:
		m.FormOpen = false
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.FormOpen {
			var cmd tea.Cmd
			m.Form, cmd = m.Form.Update(msg)
			return m, cmd
		}
		return m.updateList(msg)
	}

	if m.FormOpen {
		var cmd tea.Cmd
		m.Form, cmd = m.Form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateList handles keys while the list has focus
func (m AppModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m.quit()

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return m, nil

	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.syncViews()
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Views)-1 {
			m.Cursor++
		}
		m.syncViews()
		return m, nil

	case key.Matches(msg, m.Keys.Add):
		m.Form = m.Form.SetTodo(nil)
		m.FormOpen = true
		return m, m.Form.Init()

	case key.Matches(msg, m.Keys.SelectAll):
		if m.store.Len() == 0 {
			return m, nil
		}
		if m.store.AllSelected() {
			m.store.DeselectAll()
		} else {
			m.store.SelectAll()
		}
		m.syncViews()
		return m, nil

	case key.Matches(msg, m.Keys.DeleteSelected):
		if len(m.store.Selected()) == 0 {
			return m, nil
		}
		cmd := m.run("delete-selected", m.store.RemoveSelected)
		return m, cmd

	case key.Matches(msg, m.Keys.Reload):
		cmd := m.run("load", m.store.LoadAll)
		return m, cmd

	case key.Matches(msg, m.Keys.Refresh):
		v, ok := m.current()
		if !ok {
			return m, nil
		}
		id := v.Todo.ID
		cmd := m.run("refresh", func(ctx context.Context) error { return m.store.Refresh(ctx, id) })
		return m, cmd
	}

	if _, ok := m.current(); !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.Views[m.Cursor], cmd = m.Views[m.Cursor].Update(msg)
	return m, cmd
}

// run counts fn as in flight and returns the command executing it
func (m *AppModel) run(op string, fn func(context.Context) error) tea.Cmd {
	m.InFlight++
	do := opCmd(m.ctx, op, fn)
	if m.InFlight == 1 {
		return tea.Batch(do, m.Spinner.Tick)
	}
	return do
}

// opCmd runs fn under ctx and reports completion with an opDoneMsg
func opCmd(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// quit cancels in-flight requests and exits
func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m AppModel) current() (ItemView, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Views) {
		return ItemView{}, false
	}
	return m.Views[m.Cursor], true
}

// syncViews rebuilds the rows from the container, keeping each row's
// expanded state and the cursor on the same todo where possible
func (m *AppModel) syncViews() {
	expanded := make(map[int64]bool, len(m.Views))
	var cursorID int64
	for i, v := range m.Views {
		expanded[v.Todo.ID] = v.Expanded
		if i == m.Cursor {
			cursorID = v.Todo.ID
		}
	}

	items := m.store.Items()
	width := ClampWidth(m.Width) - 6

	views := make([]ItemView, len(items))
	cursor := m.Cursor
	for i, t := range items {
		views[i] = ItemView{
			Todo:       t,
			Selected:   m.store.IsSelected(t.ID),
			Expanded:   expanded[t.ID],
			Width:      width,
			DateLayout: m.opts.DateLayout,
			Markdown:   m.markdown,
		}
		if cursorID != 0 && t.ID == cursorID {
			cursor = i
		}
	}

	if cursor >= len(views) {
		cursor = len(views) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	if len(views) > 0 {
		views[cursor].Focused = true
	}

	m.Views = views
	m.Cursor = cursor
}

func waitForNotification(feed NotificationFeed) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-feed
		if !ok {
			return nil
		}
		return notificationMsg{note: n}
	}
}

// View renders the list screen
func (m AppModel) View() string {
	width, height := m.Width, m.Height
	if width == 0 {
		width, height = MinTerminalWidth, 24
	}

	helpText := m.Help.View(m.Keys)

	if m.FormOpen {
		modal := lipgloss.JoinVertical(lipgloss.Left, m.Form.View(), m.Help.View(formKeys))
		return RenderModal(modal, width, height)
	}
	return RenderApplicationContainer(m.opts.Backend, m.buildContent(height), helpText, width, height)
}

// buildContent builds the header controls, rows and status line
func (m AppModel) buildContent(height int) string {
	var b strings.Builder

	selected := len(m.store.Selected())
	selectLabel := "A Select all"
	if m.store.AllSelected() {
		selectLabel = "A Deselect all"
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderButton(selectLabel, m.store.Len() > 0), " ",
		RenderButton("n Add new", true), " ",
		RenderButton(fmt.Sprintf("D Delete selected (%d)", selected), selected > 0),
	)
	b.WriteString(controls)
	b.WriteString("\n")

	summary := fmt.Sprintf("%d todos · %d completed", m.store.Len(), m.store.Completed())
	if selected > 0 {
		summary += fmt.Sprintf(" · %d selected", selected)
	}
	b.WriteString(SubtitleStyle.Render(summary))
	b.WriteString("\n\n")

	b.WriteString(m.renderRows(height - 12))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

// renderRows renders the rows that fit in the given number of lines,
// scrolled so the cursor row is visible
func (m AppModel) renderRows(lines int) string {
	if len(m.Views) == 0 {
		switch {
		case m.store.Loaded():
			return EmptyStyle.Render("No todos yet. Press n to add one.")
		case m.InFlight > 0:
			return EmptyStyle.Render("Loading todos…")
		default:
			return EmptyStyle.Render("Could not load todos. Press R to retry.")
		}
	}

	if lines < 3 {
		lines = 3
	}

	start := 0
	if m.Cursor >= lines {
		start = m.Cursor - lines + 1
	}

	var rows []string
	used := 0
	for i := start; i < len(m.Views) && used < lines; i++ {
		row := m.Views[i].View()
		rows = append(rows, row)
		used += strings.Count(row, "\n") + 1
	}
	return strings.Join(rows, "\n")
}

// renderStatus renders the spinner and the current toast
func (m AppModel) renderStatus() string {
	var parts []string
	if m.InFlight > 0 {
		parts = append(parts, m.Spinner.View()+" Working…")
	}
	if m.Toast != nil {
		switch m.Toast.Level {
		case state.LevelSuccess:
			parts = append(parts, SuccessToastStyle.Render("✓ "+m.Toast.Message))
		case state.LevelError:
			parts = append(parts, ErrorToastStyle.Render("✗ "+m.Toast.Message))
		default:
			parts = append(parts, InfoToastStyle.Render("• "+m.Toast.Message))
		}
	}
	return strings.Join(parts, "  ")
}

// SafeModalWidth returns requested capped to fit the terminal
func SafeModalWidth(requested, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requested < maxWidth {
		return requested
	}
	return maxWidth
}
