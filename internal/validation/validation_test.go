package validation

import (
	"testing"

	"github.com/Leganyst/appointment-booking/internal/apperr"
)

type rangeInput struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
}

type payload struct {
	Email  string       `json:"email" validate:"required,email"`
	Count  int          `json:"count" validate:"min=1"`
	Ranges []rangeInput `json:"timeSlots" validate:"max=2,dive"`
}

func TestStruct_OK(t *testing.T) {
	p := payload{Email: "ana@example.com", Count: 1, Ranges: []rangeInput{{Start: "09:00"}}}
	if err := Struct(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_FieldErrors(t *testing.T) {
	p := payload{
		Email:  "nope",
		Count:  0,
		Ranges: []rangeInput{{Start: "9h"}},
	}
	err := Struct(p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	fields := apperr.FieldsOf(err)
	for _, f := range []string{"email", "count", "timeSlots[0].start"} {
		if _, ok := fields[f]; !ok {
			t.Fatalf("expected error for field %q, got %v", f, fields)
		}
	}
	if fields["count"] != "must be at least 1" {
		t.Fatalf("unexpected message for count: %q", fields["count"])
	}
}
