package verification

import (
	"VerifID/internal/entity"
	"testing"
)

func TestFieldValidatorExactMode(t *testing.T) {
	v := NewFieldValidator(ModeExact, nil)

	tests := []struct {
		name  string
		field string
		value string
		want  entity.Validity
	}{
		{"empty is untouched", entity.FieldFirstName, "", entity.ValidityUnknown},
		{"exact first name", entity.FieldFirstName, "John", entity.ValidityValid},
		{"wrong first name", entity.FieldFirstName, "Jane", entity.ValidityInvalid},
		{"exact middle initial", entity.FieldMiddleInitial, "D", entity.ValidityValid},
		{"wrong middle initial", entity.FieldMiddleInitial, "X", entity.ValidityInvalid},
		{"exact last name", entity.FieldLastName, "Doe", entity.ValidityValid},
		{"exact card digits", entity.FieldLastFourDigits, "1234", entity.ValidityValid},
		{"wrong card digits", entity.FieldLastFourDigits, "9999", entity.ValidityInvalid},
		{"exact zip", entity.FieldZipCode, "12345", entity.ValidityValid},
		{"wrong zip", entity.FieldZipCode, "54321", entity.ValidityInvalid},
		{"unknown field", "favorite_color", "blue", entity.ValidityInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Validate(tt.field, tt.value); got != tt.want {
				t.Errorf("Validate(%q, %q) = %v, want %v", tt.field, tt.value, got, tt.want)
			}
		})
	}
}

func TestFieldValidatorNonEmptyMode(t *testing.T) {
	v := NewFieldValidator(ModeNonEmpty, nil)

	if got := v.Validate(entity.FieldFirstName, "Jane"); got != entity.ValidityValid {
		t.Errorf("non-empty mode rejected %q", "Jane")
	}
	if got := v.Validate(entity.FieldFirstName, ""); got != entity.ValidityUnknown {
		t.Errorf("empty value should stay untouched, got %v", got)
	}
}

func TestFieldValidatorOverrides(t *testing.T) {
	v := NewFieldValidator(ModeExact, map[string]string{
		entity.FieldFirstName: "Alice",
	})

	if got := v.Validate(entity.FieldFirstName, "Alice"); got != entity.ValidityValid {
		t.Error("override expected value not honored")
	}
	if got := v.Validate(entity.FieldFirstName, "John"); got != entity.ValidityInvalid {
		t.Error("default expected value should be replaced by override")
	}
	// Non-overridden fields keep their defaults.
	if got := v.Validate(entity.FieldLastName, "Doe"); got != entity.ValidityValid {
		t.Error("non-overridden field lost its default")
	}
}

func TestFieldValidatorIsPure(t *testing.T) {
	v := NewFieldValidator(ModeExact, nil)

	first := v.Validate(entity.FieldZipCode, "12345")
	for i := 0; i < 100; i++ {
		if got := v.Validate(entity.FieldZipCode, "12345"); got != first {
			t.Fatalf("verdict changed across invocations: %v then %v", first, got)
		}
	}
}

func TestCheckConstraint(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  bool
	}{
		{entity.FieldMiddleInitial, "D", true},
		{entity.FieldMiddleInitial, "DD", false},
		{entity.FieldLastFourDigits, "1234", true},
		{entity.FieldLastFourDigits, "12345", false},
		{entity.FieldLastFourDigits, "12a4", false},
		{entity.FieldZipCode, "12345", true},
		{entity.FieldZipCode, "123456", false},
		{entity.FieldZipCode, "1234x", false},
		{entity.FieldFirstName, "Jonathan", true},
		{"favorite_color", "blue", false},
	}

	for _, tt := range tests {
		if got := CheckConstraint(tt.field, tt.value); got != tt.want {
			t.Errorf("CheckConstraint(%q, %q) = %v, want %v", tt.field, tt.value, got, tt.want)
		}
	}
}

func TestStepFields(t *testing.T) {
	if got := StepFields(entity.StepPersonal); len(got) != 3 {
		t.Errorf("personal step should carry 3 fields, got %d", len(got))
	}
	if got := StepFields(entity.StepCard); len(got) != 1 || got[0] != entity.FieldLastFourDigits {
		t.Errorf("card step fields = %v", got)
	}
	if got := StepFields(entity.StepVoice); got != nil {
		t.Errorf("voice step should carry no text fields, got %v", got)
	}
}
