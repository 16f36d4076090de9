package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"

	"github.com/muurk/todos/internal/state"
	"github.com/muurk/todos/internal/todo"
)

// DefaultDateLayout is used when no layout is configured
const DefaultDateLayout = "2006-Jan-02"

// Printer writes CLI output, styled when the destination is a terminal.
type Printer struct {
	out        io.Writer
	width      int
	styled     bool
	dateLayout string
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	p := &Printer{out: w, width: MaxContentWidth, dateLayout: DefaultDateLayout}
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		p.styled = true
		p.width = TerminalWidth(f)
	}
	return p
}

// SetStyled forces styled or plain output
func (p *Printer) SetStyled(styled bool) *Printer {
	p.styled = styled
	return p
}

// SetDateLayout sets the time layout used for creation dates
func (p *Printer) SetDateLayout(layout string) *Printer {
	if layout != "" {
		p.dateLayout = layout
	}
	return p
}

// Styled reports whether output is styled
func (p *Printer) Styled() bool {
	return p.styled
}

// Width returns the content width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintJSON writes v as indented JSON
func (p *Printer) PrintJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	p.Println(string(data))
	return nil
}

// PrintTodos prints the list as a table
func (p *Printer) PrintTodos(todos []todo.Todo) error {
	if len(todos) == 0 {
		if p.styled {
			p.Println(InfoStyle.Render("No todos yet."))
		} else {
			p.Println("No todos yet.")
		}
		return nil
	}
	if !p.styled {
		return WritePlainTable(p.out, todos, p.dateLayout)
	}
	p.Println(RenderTable(todos, p.dateLayout, p.width))
	return nil
}

// PrintTodo prints one todo as a detail card
func (p *Printer) PrintTodo(t todo.Todo) {
	card := TodoCard(t, p.dateLayout).SetWidth(p.width)
	if !p.styled {
		p.Print(card.Plain())
		return
	}
	if t.Description != "" {
		card.SetBody(renderMarkdown(t.Description, p.width-4))
	}
	p.Println(card.Render())
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	if !p.styled {
		p.Print(r.Plain())
		return
	}
	p.Println(r.SetWidth(p.width).Render())
}

// Notify prints a list-state notification as a single marked line.
// It satisfies state.Notifier.
func (p *Printer) Notify(n state.Notification) {
	marker, style := InfoMarker, InfoStyle
	switch n.Level {
	case state.LevelSuccess:
		marker, style = SuccessMarker, SuccessTitleStyle
	case state.LevelError:
		marker, style = FailureMarker, ErrorTitleStyle
	}
	if p.styled {
		p.Println(style.Render(marker) + " " + n.Message)
		return
	}
	p.Println(marker + " " + n.Message)
}

var _ state.Notifier = (*Printer)(nil)

// TodoCard builds the detail card for a todo
func TodoCard(t todo.Todo, layout string) *Card {
	fields := []Field{
		{Key: "ID", Value: strconv.FormatInt(t.ID, 10)},
		{Key: "Status", Value: t.StatusLabel()},
		{Key: "Created", Value: t.CreatedAt.Local().Format(layout)},
	}
	card := NewCard(t.Title, "", fields...)
	if t.Description == "" {
		card.Fields = append(card.Fields, Field{Key: "Description", Value: "No description"})
	} else {
		card.Body = t.Description
	}
	return card
}

func renderMarkdown(source string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}
	out, err := r.Render(source)
	if err != nil {
		return source
	}
	return out
}
