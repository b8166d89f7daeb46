package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorIs(t *testing.T) {
	err := NewValidationError("ai/projects/web.yml", "ai_tools", "whitelist and blacklist are mutually exclusive")

	if !errors.Is(err, ErrSchemaViolation) {
		t.Error("ValidationError should match ErrSchemaViolation")
	}
	if errors.Is(err, ErrMissingReference) {
		t.Error("ValidationError should not match ErrMissingReference")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "with path",
			err:  NewValidationError("ai/projects/web.yml", "ai_tools", "bad"),
			want: "ai/projects/web.yml: validation failed for ai_tools: bad",
		},
		{
			name: "without path",
			err:  NewValidationError("", "steps", "recipe has no steps"),
			want: "validation failed for steps: recipe has no steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReferenceErrorIs(t *testing.T) {
	err := NewReferenceError("agent", "bug-fixer", "recipe fix-bugs step s1")

	if !errors.Is(err, ErrMissingReference) {
		t.Error("ReferenceError should match ErrMissingReference")
	}

	wrapped := fmt.Errorf("compiling step: %w", err)
	if !errors.Is(wrapped, ErrMissingReference) {
		t.Error("wrapped ReferenceError should still match ErrMissingReference")
	}

	var refErr *ReferenceError
	if !errors.As(wrapped, &refErr) {
		t.Fatal("errors.As should extract ReferenceError")
	}
	if refErr.ID != "bug-fixer" {
		t.Errorf("expected ID bug-fixer, got %s", refErr.ID)
	}
}

func TestMultiError(t *testing.T) {
	var me MultiError

	if me.ErrorOrNil() != nil {
		t.Error("empty MultiError should return nil")
	}

	me.Append(nil)
	if me.ErrorOrNil() != nil {
		t.Error("appending nil should not add an error")
	}

	me.Append(errors.New("first"))
	if me.ErrorOrNil() == nil {
		t.Error("MultiError with one error should be non-nil")
	}
	if me.Error() != "first" {
		t.Errorf("single error should render directly, got %q", me.Error())
	}

	me.Append(errors.New("second"))
	if len(me.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(me.Errors))
	}
}

func TestNewMultiErrorFiltersNil(t *testing.T) {
	me := NewMultiError([]error{nil, errors.New("a"), nil, errors.New("b")})
	if len(me.Errors) != 2 {
		t.Errorf("expected 2 errors after filtering, got %d", len(me.Errors))
	}
}
