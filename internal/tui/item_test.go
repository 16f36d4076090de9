package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/todos/internal/todo"
)

func sampleTodo() todo.Todo {
	return todo.Todo{
		ID:          7,
		Title:       "Water the plants",
		Description: "Use the **blue** can",
		CreatedAt:   time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local),
	}
}

func TestItemView_Intents(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want tea.Msg
	}{
		{"select", keySpace, SelectIntent{ID: 7, Selected: true}},
		{"edit", keyRunes("e"), EditIntent{Todo: sampleTodo()}},
		{"delete", keyRunes("d"), DeleteIntent{ID: 7}},
		{"toggle", keyRunes("c"), ToggleIntent{ID: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewItemView(sampleTodo())
			_, cmd := v.Update(tt.key)
			if cmd == nil {
				t.Fatal("Update() returned no command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("intent = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestItemView_SelectReportsDeselect(t *testing.T) {
	v := NewItemView(sampleTodo())
	v.Selected = true

	_, cmd := v.Update(keySpace)
	if got := cmd(); got != (SelectIntent{ID: 7, Selected: false}) {
		t.Errorf("intent = %#v, want deselect", got)
	}
}

func TestItemView_DetailsToggleIsLocal(t *testing.T) {
	v := NewItemView(sampleTodo())

	v, cmd := v.Update(keyRunes("v"))
	if cmd != nil {
		t.Error("expanding details should not emit an intent")
	}
	if !v.Expanded {
		t.Fatal("Expanded = false after details key")
	}
	if !strings.Contains(v.View(), "Hide Details") {
		t.Error("expanded row should offer Hide Details")
	}

	v, _ = v.Update(keyRunes("v"))
	if v.Expanded {
		t.Error("second details key should collapse")
	}
	if !strings.Contains(v.View(), "Show Details") {
		t.Error("collapsed row should offer Show Details")
	}
}

func TestItemView_View(t *testing.T) {
	v := NewItemView(sampleTodo())
	v.Width = 90
	out := v.View()

	for _, want := range []string{"[ ]", "Water the plants", "2024-Mar-05", "Incomplete"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "blue") {
		t.Error("collapsed row should not render the description")
	}

	v.Todo.IsCompleted = true
	v.Selected = true
	out = v.View()
	if !strings.Contains(out, "Completed") || !strings.Contains(out, "[x]") {
		t.Errorf("View() = %q, want completed and checked", out)
	}
}

func TestItemView_CustomDateLayout(t *testing.T) {
	v := NewItemView(sampleTodo())
	v.DateLayout = "02/01/2006"
	if out := v.View(); !strings.Contains(out, "05/03/2024") {
		t.Errorf("View() = %q, want custom date", out)
	}
}

func TestItemView_TruncatesLongTitle(t *testing.T) {
	td := sampleTodo()
	td.Title = strings.Repeat("very long title ", 20)
	v := NewItemView(td)
	v.Width = 60

	out := v.View()
	if !strings.Contains(out, "…") {
		t.Errorf("View() = %q, want an ellipsis", out)
	}
	if strings.Contains(out, td.Title) {
		t.Error("title was not truncated")
	}
}

func TestItemView_ExpandedDescription(t *testing.T) {
	v := NewItemView(sampleTodo())
	v.Expanded = true
	if out := v.View(); !strings.Contains(out, "blue") {
		t.Errorf("expanded View() missing description:\n%s", out)
	}

	v.Todo.Description = ""
	if out := v.View(); !strings.Contains(out, "No description") {
		t.Errorf("expanded View() = %q, want placeholder", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("line one\nline two", 40); strings.Contains(got, "\n") {
		t.Errorf("truncate kept a newline: %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate(abcdefghij, 5) = %q, want abcd…", got)
	}
}

func TestMarkdownRenderer_ReusedPerWidth(t *testing.T) {
	m := NewMarkdownRenderer()

	first := m.Render("Use the **blue** can", 40)
	r := m.renderer
	if r == nil {
		t.Fatal("no renderer kept after Render")
	}
	if again := m.Render("Use the **blue** can", 40); again != first {
		t.Errorf("second Render() = %q, want %q", again, first)
	}
	m.Render("another description", 40)
	if m.renderer != r {
		t.Error("renderer rebuilt for the same width")
	}

	m.Render("Use the **blue** can", 60)
	if m.renderer == r || m.width != 60 {
		t.Error("renderer not rebuilt after a width change")
	}
	if len(m.rendered) != 1 {
		t.Errorf("cached outputs = %d, want only the new width's (1)", len(m.rendered))
	}
}

func TestMarkdownRenderer_NilFallsBack(t *testing.T) {
	var m *MarkdownRenderer
	if out := m.Render("Use the **blue** can", 40); !strings.Contains(out, "blue") {
		t.Errorf("Render() = %q, want the description", out)
	}
}
