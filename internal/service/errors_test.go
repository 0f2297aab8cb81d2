package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "title",
				Message: "cannot be empty",
			},
			want: "validation error on field title: cannot be empty",
		},
		{
			name: "nested field",
			err: &ValidationError{
				Field:   "duration.type",
				Message: "must be forever, specificTimes or until",
			},
			want: "validation error on field duration.type: must be forever, specificTimes or until",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := WrapError(&ValidationError{Field: "alarm_type", Message: "must be between 0 and 5"}, "failed to store record")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("errors.Is(%v, ErrInvalidInput) = false", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "alarm_type" {
		t.Errorf("errors.As() did not recover the field, got %v", vErr)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("database is locked"),
			msg:     "failed to list records",
			wantMsg: "failed to list records: database is locked",
		},
		{
			name:    "sentinel chain",
			err:     fmt.Errorf("%w: %w", ErrExternalService, errors.New("gateway down")),
			msg:     "failed to reconcile alarms",
			wantMsg: "failed to reconcile alarms: external service error: gateway down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Errorf("WrapError() = nil, want error")
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got.Error(), tt.wantMsg)
			}
			// Verify error wrapping
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() should wrap original error")
			}
		})
	}
}

func TestErrorConstants(t *testing.T) {
	for _, err := range []error{ErrInvalidInput, ErrNotFound, ErrExternalService} {
		if err == nil {
			t.Fatal("sentinel error should not be nil")
		}
	}
	if errors.Is(ErrNotFound, ErrInvalidInput) {
		t.Error("ErrNotFound should not match ErrInvalidInput")
	}
}
