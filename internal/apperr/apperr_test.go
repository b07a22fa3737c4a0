package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("reserve slot: %w", NotAvailable("slot %s is taken", "abc"))
	if KindOf(err) != KindNotAvailable {
		t.Fatalf("expected not_available, got %s", KindOf(err))
	}
	if !Is(err, KindNotAvailable) || Is(err, KindNotFound) {
		t.Fatalf("unexpected Is result for %v", err)
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected unknown for plain error")
	}
	if KindOf(nil) != KindUnknown {
		t.Fatalf("expected unknown for nil")
	}
}

func TestErrorsIs_Template(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("user"))
	if !errors.Is(err, &Error{Kind: KindNotFound}) {
		t.Fatalf("expected match against kind template")
	}
	if errors.Is(err, &Error{Kind: KindNotFound, Message: "other"}) {
		t.Fatalf("template with message must not match")
	}
}

func TestConnectivity(t *testing.T) {
	cause := errors.New("connection refused")
	err := Connectivity(cause, "slots.list")
	if !Retryable(err) {
		t.Fatalf("expected connectivity error to be retryable")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
	if got := err.Error(); got != "slots.list: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
	if Retryable(NotFound("x")) {
		t.Fatalf("not found must not be retryable")
	}
}

func TestValidationError(t *testing.T) {
	v := NewValidation()
	if v.Err() != nil {
		t.Fatalf("expected nil without fields")
	}
	v.Add("interval", "must be at least 1")
	v.Add("deadline", "is required")
	v.Add("interval", "second message is ignored")

	err := v.Err()
	if !Is(err, KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	fields := FieldsOf(err)
	if len(fields) != 2 || fields["interval"] != "must be at least 1" {
		t.Fatalf("unexpected fields %v", fields)
	}
	want := "validation failed (deadline: is required; interval: must be at least 1)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
