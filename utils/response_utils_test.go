package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Count int    `validate:"min=2"`
	}
	err := validator.New().Struct(payload{Count: 1})
	got := FormatValidationErrors(err)
	if len(got) != 2 {
		t.Fatalf("FormatValidationErrors() = %v", got)
	}
	if !strings.Contains(got[0], "payload.Name") || !strings.Contains(got[0], "'required'") {
		t.Errorf("first error = %q", got[0])
	}
	if !strings.HasSuffix(got[1], "(value: 2)") {
		t.Errorf("second error = %q", got[1])
	}

	if got := FormatValidationErrors(errors.New("plain")); len(got) != 1 || got[0] != "plain" {
		t.Errorf("plain error = %v", got)
	}
	if got := FormatValidationErrors(nil); got != nil {
		t.Errorf("nil error = %v", got)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  s1 \n"); got != "s1" {
		t.Fatalf("SanitizeInput() = %q", got)
	}
}
