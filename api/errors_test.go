package api

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorUnwrapsToSentinel(t *testing.T) {
	err := NewError(ErrCodeInvalidArgument, "bag capacity must be positive").
		WithContext("field", "BagCapacity")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected errors.Is to match ErrInvalidArgument")
	}
	if !strings.Contains(err.Error(), "BagCapacity") {
		t.Errorf("expected context in message, got %q", err.Error())
	}
}

func TestErrorWithoutContext(t *testing.T) {
	err := &Error{Code: ErrCodeInvalidArgument, Message: "boom"}
	if err.Error() != "boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
	err.WithContext("k", 1)
	if err.Context["k"] != 1 {
		t.Errorf("context not recorded")
	}
}

func TestUnknownCodeHasNoSentinel(t *testing.T) {
	err := &Error{Message: "boom"}
	if err.Unwrap() != nil || errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero code must not match any sentinel")
	}
}
