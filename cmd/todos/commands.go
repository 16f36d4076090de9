package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/todos/internal/discovery"
	"github.com/muurk/todos/internal/state"
	"github.com/muurk/todos/internal/todo"
	"github.com/muurk/todos/internal/tui"
	"github.com/muurk/todos/internal/ui"
)

// Command flags
var (
	listFormat      string
	showFormat      string
	description     string
	editTitle       string
	editDescription string
	assumeYes       bool
	scanTimeout     int
	scanSave        bool
)

func init() {
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(scanCmd)
}

// uiCmd launches the interactive list
var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive todo list",
	Long: `Launch the interactive todo list.

The list loads every todo from the backend. Items can be selected, edited,
completed and deleted individually or in bulk. Press ? for the key map.

With logging enabled the log goes to todos.log next to the config file,
unless --log-file says otherwise.`,
	Example: `  # Launch against the configured backend (ui is the default)
  todos

  # Launch against a specific backend
  todos ui --url http://192.168.1.20:3000`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	s := current
	prefs := s.registry.Prefs()
	ctx := commandContext(cmd)
	client := s.client()

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("cannot reach backend at %s (%s): %s",
			s.backend.URL, s.backend.Source, todo.ShortMessage(err))
	}

	feed := tui.NewNotificationFeed()
	store := state.New(client, state.WithNotifier(feed))

	model := tui.NewAppModel(ctx, store, feed, tui.Options{
		Backend:       s.backend.URL,
		DateLayout:    prefs.DateLayout(),
		ToastDuration: prefs.ToastDuration(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}

	s.touch()
	return nil
}

// listCmd prints every todo
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos",
	Long: `Print every todo, newest first as ordered by the backend.

Output is a table on a terminal and tab-separated text otherwise.
Use --format json for scripting.`,
	Example: `  todos list
  todos list --format json | jq '.[] | select(.isCompleted == false)'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format (table, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	if listFormat != "table" && listFormat != "json" {
		return fmt.Errorf("unknown format %q (use table or json)", listFormat)
	}

	s := current
	c := s.container()
	if err := c.LoadAll(commandContext(cmd)); err != nil {
		return failure(err)
	}
	s.touch()

	if listFormat == "json" {
		return s.stdout.PrintJSON(c.Items())
	}
	return s.stdout.PrintTodos(c.Items())
}

// showCmd prints one todo
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one todo",
	Long: `Fetch a single todo and print it, including its description.

Descriptions are Markdown and are rendered when printing to a terminal.`,
	Example: `  todos show 12
  todos show 12 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "detailed", "Output format (detailed, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	if showFormat != "detailed" && showFormat != "json" {
		return fmt.Errorf("unknown format %q (use detailed or json)", showFormat)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	t, err := fetch(cmd, id)
	if err != nil {
		return err
	}

	if showFormat == "json" {
		return current.stdout.PrintJSON(t)
	}
	current.stdout.PrintTodo(t)
	return nil
}

// fetch reads one todo through the list state. The placeholder entry is
// replaced in place when the backend answers.
func fetch(cmd *cobra.Command, id int64) (todo.Todo, error) {
	c := current.container(
		state.WithItems([]todo.Todo{{ID: id}}),
		state.WithNotifier(current.notifier(false)),
	)
	if err := c.Refresh(commandContext(cmd), id); err != nil {
		return todo.Todo{}, failure(err)
	}
	t, _ := c.Item(id)
	return t, nil
}

// addCmd creates a todo
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a todo",
	Long: `Create a new todo. Extra arguments are joined into the title.

The title must not be blank. The description may use Markdown.`,
	Example: `  todos add Buy milk
  todos add "Write report" -d "Due **Friday**"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&description, "description", "d", "", "Todo description (Markdown)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	c := current.container()
	if err := c.Save(commandContext(cmd), nil, todo.NewDraft(title, description)); err != nil {
		return failure(err)
	}

	items := c.Items()
	if len(items) > 0 {
		current.stdout.Println(strconv.FormatInt(items[0].ID, 10))
	}
	return nil
}

// editCmd changes the title or description of a todo
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a todo",
	Long: `Change the title and/or description of a todo.

Only the fields given are sent; the others are left untouched.
Pass --description "" to clear the description.`,
	Example: `  todos edit 12 --title "Write annual report"
  todos edit 12 --description ""`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description (Markdown)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var draft todo.Draft
	if cmd.Flags().Changed("title") {
		draft.Title = &editTitle
	}
	if cmd.Flags().Changed("description") {
		draft.Description = &editDescription
	}
	if draft.IsEmpty() {
		return errors.New("nothing to change: pass --title and/or --description")
	}

	c := current.container(state.WithItems([]todo.Todo{{ID: id}}))
	if err := c.Save(commandContext(cmd), &id, draft); err != nil {
		return failure(err)
	}

	if t, ok := c.Item(id); ok && t.Title != "" {
		current.stdout.PrintTodo(t)
	}
	return nil
}

// toggleCmd flips the completion flag
var toggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Aliases: []string{"done"},
	Short:   "Toggle a todo between completed and incomplete",
	Args:    cobra.ExactArgs(1),
	RunE:    runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c := current.container(state.WithItems([]todo.Todo{{ID: id}}))
	if err := c.Toggle(commandContext(cmd), id); err != nil {
		return failure(err)
	}

	t, _ := c.Item(id)
	current.stdout.Println(t.StatusLabel())
	return nil
}

// rmCmd deletes one or more todos
var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete todos",
	Long: `Delete one or more todos.

A single id is deleted on its own. Several ids are deleted in one bulk
request; the backend reports one status for the whole batch. Bulk deletes
ask for confirmation on a terminal unless --yes is given.`,
	Example: `  todos rm 12
  todos rm 3 4 7 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runRm(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	seen := make(map[int64]bool, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	placeholders := make([]todo.Todo, len(ids))
	for i, id := range ids {
		placeholders[i] = todo.Todo{ID: id}
	}
	c := current.container(state.WithItems(placeholders))
	ctx := commandContext(cmd)

	if len(ids) == 1 {
		if err := c.Remove(ctx, ids[0]); err != nil {
			return failure(err)
		}
		return nil
	}

	if !assumeYes && ui.IsTerminal(os.Stdin) {
		items := make([]string, len(ids))
		for i, id := range ids {
			items[i] = "#" + strconv.FormatInt(id, 10)
		}
		title := fmt.Sprintf("Delete %d todos?", len(ids))
		if !ui.Confirm(os.Stdin, os.Stderr, current.stderr.Styled(), title, items) {
			return nil
		}
	}

	for _, id := range ids {
		c.Select(id)
	}
	if err := c.RemoveSelected(ctx); err != nil {
		return failure(err)
	}
	return nil
}

// scanCmd discovers backends on the local network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for todo backends on the network",
	Long: `Scan for todo backends using mDNS/DNS-SD discovery.

Backends started with 'todos-server --advertise' announce themselves as
_todos._tcp. Found backends are saved as profiles unless --save=false;
profiles you created by hand are never overwritten.`,
	Example: `  # Scan with the configured timeout (default 5 seconds)
  todos scan

  # Longer scan for slow networks, without saving
  todos scan --timeout 15 --save=false`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config, 5)")
	scanCmd.Flags().BoolVar(&scanSave, "save", true, "Save found backends as profiles")
}

func runScan(cmd *cobra.Command, args []string) error {
	s := current
	scanner := discovery.NewScanner()
	scanner.Timeout = s.registry.Prefs().DiscoverTimeout()
	if scanTimeout > 0 {
		scanner.Timeout = time.Duration(scanTimeout) * time.Second
	}

	s.stderr.Println(fmt.Sprintf("Scanning for todo backends (timeout: %s)...", scanner.Timeout))

	backends, err := scanner.Scan(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(backends) == 0 {
		s.stdout.PrintResult(ui.NewWarningResult("No backends found", []string{
			"Ensure the backend is running with --advertise",
			"Check that this machine is on the same network",
			"Try increasing --timeout for slower networks",
			"Use --url to specify the backend manually",
		}))
		return nil
	}

	result := ui.NewSuccessResult(fmt.Sprintf("Found %d backend(s)", len(backends)))
	saved := 0
	for _, b := range backends {
		label := b.URL()
		if v := b.GetMetadata("version"); v != "" {
			label += " (version " + v + ")"
		}
		if scanSave {
			ok, err := s.registry.RecordDiscovered(b.ProfileName(), b.URL())
			if err != nil {
				return fmt.Errorf("failed to record %s: %w", b, err)
			}
			if ok {
				saved++
				label += " → profile " + b.ProfileName()
			}
		}
		result.AddDetail(b.Instance, label)
	}

	if saved > 0 {
		if err := s.registry.SaveTo(s.path); err != nil {
			return err
		}
	}
	s.stdout.PrintResult(result)
	if saved > 0 {
		s.stdout.Println("Use 'todos config use <profile>' to switch backends")
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid todo id %q", arg)
	}
	if err := todo.ValidateID(id); err != nil {
		return 0, errors.New(todo.ShortMessage(err))
	}
	return id, nil
}

// failure turns an operation error into the message printed by main.
// The notification already explained it, so keep this short.
func failure(err error) error {
	return errors.New(todo.ShortMessage(err))
}
