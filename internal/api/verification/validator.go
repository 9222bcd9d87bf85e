package verification

import (
	"VerifID/internal/entity"
	"os"
)

// ValidationMode selects how field values are judged. Non-empty deployments
// accept anything typed; exact deployments compare against expected values.
type ValidationMode string

const (
	ModeNonEmpty ValidationMode = "non_empty"
	ModeExact    ValidationMode = "exact"
)

var defaultExpected = map[string]string{
	entity.FieldFirstName:      "John",
	entity.FieldMiddleInitial:  "D",
	entity.FieldLastName:       "Doe",
	entity.FieldLastFourDigits: "1234",
	entity.FieldZipCode:        "12345",
}

var expectedEnvKeys = map[string]string{
	entity.FieldFirstName:      "VERIFY_EXPECTED_FIRST_NAME",
	entity.FieldMiddleInitial:  "VERIFY_EXPECTED_MIDDLE_INITIAL",
	entity.FieldLastName:       "VERIFY_EXPECTED_LAST_NAME",
	entity.FieldLastFourDigits: "VERIFY_EXPECTED_LAST_FOUR_DIGITS",
	entity.FieldZipCode:        "VERIFY_EXPECTED_ZIP_CODE",
}

// FieldValidator is the single configurable validator for wizard text fields.
type FieldValidator struct {
	mode     ValidationMode
	expected map[string]string
}

func NewFieldValidator(mode ValidationMode, expected map[string]string) *FieldValidator {
	merged := make(map[string]string, len(defaultExpected))
	for name, value := range defaultExpected {
		merged[name] = value
	}
	for name, value := range expected {
		merged[name] = value
	}

	return &FieldValidator{
		mode:     mode,
		expected: merged,
	}
}

func NewFieldValidatorFromEnv() *FieldValidator {
	mode := ModeExact
	if os.Getenv("VERIFY_VALIDATION_MODE") == string(ModeNonEmpty) {
		mode = ModeNonEmpty
	}

	expected := make(map[string]string)
	for name, envKey := range expectedEnvKeys {
		if value := os.Getenv(envKey); value != "" {
			expected[name] = value
		}
	}

	return NewFieldValidator(mode, expected)
}

// Validate is pure: the same (name, value) always yields the same verdict for
// a fixed mode and expected set. An empty value is untouched, not invalid.
func (v *FieldValidator) Validate(name, value string) entity.Validity {
	if _, known := v.expected[name]; !known {
		return entity.ValidityInvalid
	}

	if value == "" {
		return entity.ValidityUnknown
	}

	if v.mode == ModeNonEmpty {
		return entity.ValidityValid
	}

	if value == v.expected[name] {
		return entity.ValidityValid
	}
	return entity.ValidityInvalid
}

// CheckConstraint enforces the per-field input constraints the capture form
// promises: a single middle initial character, digit-only card and zip codes.
func CheckConstraint(name, value string) bool {
	switch name {
	case entity.FieldMiddleInitial:
		return len(value) <= 1
	case entity.FieldLastFourDigits:
		return len(value) <= 4 && isDigits(value)
	case entity.FieldZipCode:
		return len(value) <= 5 && isDigits(value)
	case entity.FieldFirstName, entity.FieldLastName:
		return true
	default:
		return false
	}
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StepFields lists the text fields a step must validate before advancing.
// The voice and result steps carry no text fields.
func StepFields(step entity.WizardStep) []string {
	switch step {
	case entity.StepPersonal:
		return []string{entity.FieldFirstName, entity.FieldMiddleInitial, entity.FieldLastName}
	case entity.StepCard:
		return []string{entity.FieldLastFourDigits}
	case entity.StepZip:
		return []string{entity.FieldZipCode}
	default:
		return nil
	}
}
