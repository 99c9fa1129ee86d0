package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "single field",
			err:  NewValidationError("text", "required"),
			want: "validation: text: required",
		},
		{
			name: "several fields",
			err: NewValidationErrors([]FieldError{
				{Field: "method", Message: "unknown"},
				{Field: "value", Message: "must be an integer"},
				{Field: "limit", Message: "must be >= 0"},
			}),
			want: "validation: 3 errors (method, value, limit)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}

			// Handlers see the error wrapped by the service layer.
			wrapped := fmt.Errorf("save word: %w", tt.err)
			if !errors.Is(wrapped, ErrValidation) {
				t.Error("wrapped error does not match ErrValidation")
			}
			var ve *ValidationError
			if !errors.As(wrapped, &ve) || len(ve.Errors) != len(tt.err.Errors) {
				t.Errorf("errors.As lost field errors: %v", ve)
			}
		})
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{ErrNotFound, ErrAlreadyExists, ErrValidation, ErrConflict}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}
