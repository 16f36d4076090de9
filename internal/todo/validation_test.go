package todo

import (
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"normal", "Buy milk", false},
		{"empty", "", true},
		{"whitespace", " \t\n", true},
		{"max length", strings.Repeat("a", MaxTitleLength), false},
		{"too long", strings.Repeat("a", MaxTitleLength+1), true},
		{"multibyte counts runes", strings.Repeat("é", MaxTitleLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("ValidateTitle() error type = %T, want validation error", err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID(1); err != nil {
		t.Errorf("ValidateID(1) error = %v", err)
	}
	if err := ValidateID(0); !IsValidationError(err) {
		t.Errorf("ValidateID(0) error = %v, want validation error", err)
	}
}

func TestDraft_ValidateCreate(t *testing.T) {
	if err := (Draft{}).ValidateCreate(); !IsValidationError(err) {
		t.Errorf("empty draft: error = %v, want validation error", err)
	}
	if err := DescriptionDraft("x").ValidateCreate(); !IsValidationError(err) {
		t.Errorf("draft without title: error = %v, want validation error", err)
	}
	if err := NewDraft("ok", "").ValidateCreate(); err != nil {
		t.Errorf("valid draft: error = %v", err)
	}
}

func TestDraft_ValidateUpdate(t *testing.T) {
	if err := (Draft{}).ValidateUpdate(); !IsValidationError(err) {
		t.Errorf("empty draft: error = %v, want validation error", err)
	}
	if err := DescriptionDraft("").ValidateUpdate(); err != nil {
		t.Errorf("description-only draft: error = %v", err)
	}
	if err := TitleDraft("").ValidateUpdate(); !IsValidationError(err) {
		t.Errorf("empty title: error = %v, want validation error", err)
	}
}
