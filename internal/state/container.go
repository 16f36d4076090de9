package state

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
	"github.com/muurk/todos/internal/todo"
)

// ErrNothingSelected is returned by RemoveSelected when the selection is empty.
var ErrNothingSelected = errors.New("no todos selected")

// Container owns the list of todos and the selection set
type Container struct {
	svc      todo.Service
	notifier Notifier
	now      func() time.Time

	mu       sync.Mutex
	items    []todo.Todo
	selected map[int64]struct{}
	loaded   bool

	// seq orders requests and confirmations. A write response is applied
	// only when issued after the last one applied for the same id; a fetch
	// keeps whatever was written or deleted after it was issued.
	seq         uint64
	writes      map[int64]write
	removed     map[int64]uint64
	loadApplied uint64
}

// write records the last response applied for a todo: the token issued
// with its request and the stamp taken when it was applied.
type write struct {
	token uint64
	stamp uint64
}

// Option configures a Container
type Option func(*Container)

// WithNotifier sets where notifications are delivered.
// The default only logs them.
func WithNotifier(n Notifier) Option {
	return func(c *Container) {
		c.notifier = n
	}
}

// WithClock overrides the notification timestamp source
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// WithItems seeds the list, as if a LoadAll had already returned them
func WithItems(items []todo.Todo) Option {
	return func(c *Container) {
		c.items = append([]todo.Todo(nil), items...)
		c.loaded = true
	}
}

// New creates a Container backed by svc
func New(svc todo.Service, opts ...Option) *Container {
	c := &Container{
		svc:      svc,
		notifier: LogNotifier{},
		now:      time.Now,
		items:    []todo.Todo{},
		selected: make(map[int64]struct{}),
		writes:   make(map[int64]write),
		removed:  make(map[int64]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadAll replaces the list with the backend's full list.
// On failure the list is left as it was. Writes confirmed while the fetch
// was in flight are kept over the fetched snapshot.
func (c *Container) LoadAll(ctx context.Context) error {
	token := c.begin()

	todos, err := c.svc.List(ctx)
	if err != nil {
		c.fail("load", 0, msgLoadFail, err)
		return err
	}

	c.mu.Lock()
	if token < c.loadApplied {
		c.mu.Unlock()
		logging.Debug("Dropped superseded list response",
			zap.Int("count", len(todos)),
			zap.Uint64("token", token),
			zap.Uint64("latest", c.loadApplied),
		)
		return nil
	}
	c.loadApplied = token
	c.items = c.mergeLocked(todos, token)
	c.loaded = true
	c.pruneSelectionLocked()
	c.mu.Unlock()

	c.succeed(msgLoadOK)
	return nil
}

// Save creates a todo when editingID is nil and updates it otherwise.
// A created todo is inserted at the head of the list; an updated one
// replaces the entry with the same id in place.
func (c *Container) Save(ctx context.Context, editingID *int64, draft todo.Draft) error {
	if editingID == nil {
		token := c.begin()
		created, err := c.svc.Create(ctx, draft)
		if err != nil {
			c.fail("create", 0, saveFailMessage(err), err)
			return err
		}

		c.mu.Lock()
		switch {
		case c.removed[created.ID] > token:
			logging.Debug("Dropped create response for a deleted todo", zap.Int64("todo_id", created.ID))
		case c.indexLocked(created.ID) >= 0:
			// A reload that landed first already listed it
			c.applyLocked(*created, token)
		default:
			c.items = append([]todo.Todo{*created}, c.items...)
			c.seq++
			c.writes[created.ID] = write{token: token, stamp: c.seq}
		}
		c.mu.Unlock()

		c.succeed(msgAddOK)
		return nil
	}

	id := *editingID
	token := c.begin()
	updated, err := c.svc.Update(ctx, id, draft)
	if err != nil {
		c.fail("update", id, saveFailMessage(err), err)
		return err
	}

	c.mu.Lock()
	c.applyLocked(*updated, token)
	c.mu.Unlock()

	c.succeed(msgUpdateOK)
	return nil
}

// Remove deletes a todo and drops it from both the list and the selection.
func (c *Container) Remove(ctx context.Context, id int64) error {
	if err := c.svc.Delete(ctx, id); err != nil {
		c.fail("delete", id, msgDeleteFail, err)
		return err
	}

	c.mu.Lock()
	c.removeLocked(map[int64]struct{}{id: {}})
	c.mu.Unlock()

	c.succeed(msgDeleteOK)
	return nil
}

// Toggle flips the completion flag on the backend and stores the record the
// backend reports, flag included.
func (c *Container) Toggle(ctx context.Context, id int64) error {
	token := c.begin()
	toggled, err := c.svc.ToggleStatus(ctx, id)
	if err != nil {
		c.fail("toggle-status", id, msgToggleFail, err)
		return err
	}

	c.mu.Lock()
	c.applyLocked(*toggled, token)
	c.mu.Unlock()

	c.succeed(msgToggleOK)
	return nil
}

// RemoveSelected bulk-deletes the current selection. On success exactly the
// ids selected at call time are removed and the selection is cleared.
//
// The backend reports a single status for the whole batch; a partial
// failure cannot be told apart from a full one.
func (c *Container) RemoveSelected(ctx context.Context) error {
	ids := c.Selected()
	if len(ids) == 0 {
		return ErrNothingSelected
	}

	if err := c.svc.DeleteMany(ctx, ids); err != nil {
		c.fail("delete-many", 0, msgBulkDeleteErr, err)
		return err
	}

	gone := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	c.mu.Lock()
	c.removeLocked(gone)
	c.selected = make(map[int64]struct{})
	c.mu.Unlock()

	c.succeed(msgBulkDeleteOK)
	return nil
}

// Refresh re-fetches one todo and replaces it in place. A todo the backend
// no longer knows is dropped from the list.
func (c *Container) Refresh(ctx context.Context, id int64) error {
	token := c.begin()
	fresh, err := c.svc.Get(ctx, id)
	if err != nil {
		if todo.IsNotFoundError(err) {
			c.mu.Lock()
			c.removeLocked(map[int64]struct{}{id: {}})
			c.mu.Unlock()
			c.notify(Notification{Level: LevelInfo, Message: msgRefreshGone})
			return err
		}
		c.fail("get", id, msgRefreshFail, err)
		return err
	}

	c.mu.Lock()
	c.applyLocked(*fresh, token)
	c.mu.Unlock()

	c.succeed(msgRefreshOK)
	return nil
}

// Select adds id to the selection. Ids not in the list are ignored.
func (c *Container) Select(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) >= 0 {
		c.selected[id] = struct{}{}
	}
}

// Deselect removes id from the selection
func (c *Container) Deselect(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selected, id)
}

// ToggleSelected flips the selection state of id and returns the new state
func (c *Container) ToggleSelected(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return false
	}
	if c.indexLocked(id) < 0 {
		return false
	}
	c.selected[id] = struct{}{}
	return true
}

// SelectAll selects every todo in the list
func (c *Container) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int64]struct{}, len(c.items))
	for _, t := range c.items {
		c.selected[t.ID] = struct{}{}
	}
}

// DeselectAll empties the selection
func (c *Container) DeselectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int64]struct{})
}

// Items returns a copy of the list in display order
func (c *Container) Items() []todo.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]todo.Todo, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the todo with the given id
func (c *Container) Item(id int64) (todo.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	return todo.Todo{}, false
}

// Len returns the number of todos in the list
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Completed returns how many todos are completed
func (c *Container) Completed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.items {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

// Loaded reports whether the list has been populated at least once
func (c *Container) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Selected returns the selected ids in ascending order
func (c *Container) Selected() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsSelected reports whether id is in the selection
func (c *Container) IsSelected(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// AllSelected reports whether every todo is selected (false for an empty list)
func (c *Container) AllSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) > 0 && len(c.selected) == len(c.items)
}

// begin issues a new request token
func (c *Container) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// applyLocked stores t unless a response issued after token was already
// applied for the same id. It reports whether t was stored.
func (c *Container) applyLocked(t todo.Todo, token uint64) bool {
	if last := c.writes[t.ID]; token < last.token {
		logging.Debug("Dropped stale response",
			zap.Int64("todo_id", t.ID),
			zap.Uint64("token", token),
			zap.Uint64("latest", last.token),
		)
		return false
	}
	i := c.indexLocked(t.ID)
	if i < 0 {
		return false
	}
	c.seq++
	c.writes[t.ID] = write{token: token, stamp: c.seq}
	c.items[i] = t
	return true
}

// mergeLocked builds the list from a snapshot fetched with token. Todos
// written after the fetch was issued keep their current value, todos
// deleted after it stay deleted, and todos created after it stay at the head.
func (c *Container) mergeLocked(snapshot []todo.Todo, token uint64) []todo.Todo {
	fetched := make(map[int64]struct{}, len(snapshot))
	merged := make([]todo.Todo, 0, len(snapshot))
	for _, t := range snapshot {
		if c.removed[t.ID] > token {
			continue
		}
		if _, dup := fetched[t.ID]; dup {
			continue
		}
		fetched[t.ID] = struct{}{}
		if c.writes[t.ID].stamp > token {
			if i := c.indexLocked(t.ID); i >= 0 {
				t = c.items[i]
			}
		}
		merged = append(merged, t)
	}

	var newer []todo.Todo
	for _, t := range c.items {
		if _, ok := fetched[t.ID]; !ok && c.writes[t.ID].stamp > token {
			newer = append(newer, t)
		}
	}
	items := append(newer, merged...)

	// Older fetches are dropped from now on
	for id, stamp := range c.removed {
		if stamp <= token {
			delete(c.removed, id)
		}
	}
	kept := make(map[int64]struct{}, len(items))
	for _, t := range items {
		kept[t.ID] = struct{}{}
	}
	for id := range c.writes {
		if _, ok := kept[id]; !ok {
			delete(c.writes, id)
		}
	}
	return items
}

func (c *Container) indexLocked(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// removeLocked drops ids from the list and the selection in one step and
// stamps them so a fetch issued earlier cannot bring them back.
func (c *Container) removeLocked(ids map[int64]struct{}) {
	c.seq++
	for id := range ids {
		c.removed[id] = c.seq
		delete(c.writes, id)
	}
	kept := c.items[:0]
	for _, t := range c.items {
		if _, gone := ids[t.ID]; !gone {
			kept = append(kept, t)
		}
	}
	// Clear the tail so removed todos are not retained by the backing array
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = todo.Todo{}
	}
	c.items = kept
	for id := range ids {
		delete(c.selected, id)
	}
}

func (c *Container) pruneSelectionLocked() {
	for id := range c.selected {
		if c.indexLocked(id) < 0 {
			delete(c.selected, id)
		}
	}
}

func (c *Container) succeed(message string) {
	c.notify(Notification{Level: LevelSuccess, Message: message})
}

func (c *Container) fail(op string, id int64, message string, err error) {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if id != 0 {
		fields = append(fields, zap.Int64("todo_id", id))
	}
	logging.Warn("Todo operation failed", fields...)
	c.notify(Notification{Level: LevelError, Message: message, Err: err})
}

func (c *Container) notify(n Notification) {
	if n.At.IsZero() {
		n.At = c.now()
	}
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

// saveFailMessage keeps validation messages visible and hides transport detail.
func saveFailMessage(err error) string {
	if todo.IsValidationError(err) {
		return todo.ShortMessage(err)
	}
	return msgSaveFail
}
