package todo

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title accepted client-side.
const MaxTitleLength = 255

// ValidateTitle checks that a title is usable for create and update.
// Whitespace-only titles count as empty.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("Title is required")
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return NewValidationError(fmt.Sprintf("title too long (max %d chars): %d chars", MaxTitleLength, n))
	}
	return nil
}

// ValidateID checks that an id could have been assigned by the backend.
func ValidateID(id int64) error {
	if id <= 0 {
		return NewValidationError(fmt.Sprintf("invalid todo id: %d", id))
	}
	return nil
}

// ValidateCreate validates a draft used to create a todo.
// A create always needs a title.
func (d Draft) ValidateCreate() error {
	if d.Title == nil {
		return NewValidationError("Title is required")
	}
	return ValidateTitle(*d.Title)
}

// ValidateUpdate validates a draft used to update a todo.
// The title is optional, but when present it must be valid.
func (d Draft) ValidateUpdate() error {
	if d.IsEmpty() {
		return NewValidationError("nothing to update")
	}
	if d.Title != nil {
		return ValidateTitle(*d.Title)
	}
	return nil
}
