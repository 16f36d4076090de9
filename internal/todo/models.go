package todo

import (
	"strconv"
	"strings"
	"time"
)

// Todo is a task record as returned by the backend.
type Todo struct {
	ID          int64     `json:"id"`          // Assigned by the backend, never client-side
	Title       string    `json:"title"`       // Non-empty
	Description string    `json:"description"` // May be empty
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"` // ISO-8601 on the wire
}

// StatusLabel returns the badge text for the completion flag.
func (t Todo) StatusLabel() string {
	if t.IsCompleted {
		return "Completed"
	}
	return "Incomplete"
}

// Draft is a partial todo sent on create and update.
// Nil fields are omitted from the request body so PATCH leaves them untouched.
type Draft struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// NewDraft builds a draft carrying both fields.
func NewDraft(title, description string) Draft {
	return Draft{Title: &title, Description: &description}
}

// TitleDraft builds a draft that only changes the title.
func TitleDraft(title string) Draft {
	return Draft{Title: &title}
}

// DescriptionDraft builds a draft that only changes the description.
func DescriptionDraft(description string) Draft {
	return Draft{Description: &description}
}

// IsEmpty reports whether the draft carries no fields at all.
func (d Draft) IsEmpty() bool {
	return d.Title == nil && d.Description == nil
}

// Apply returns a copy of t with the draft's fields overlaid.
func (d Draft) Apply(t Todo) Todo {
	if d.Title != nil {
		t.Title = *d.Title
	}
	if d.Description != nil {
		t.Description = *d.Description
	}
	return t
}

// JoinIDs renders ids as the comma-separated list used by bulk delete.
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ParseIDs parses a comma-separated id list. Empty elements are skipped.
func ParseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, NewValidationError("invalid id: " + part)
		}
		if id <= 0 {
			return nil, NewValidationError("id must be positive: " + part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
