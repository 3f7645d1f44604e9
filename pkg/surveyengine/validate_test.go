package surveyengine

import (
	"strings"
	"testing"
)

func TestValidateField(t *testing.T) {
	t.Run("required", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXT, IsRequired: true}

		if got := ValidateField(question, ""); got != "Required" {
			t.Errorf("unexpected error for empty value: %q", got)
		}
		if got := ValidateField(question, nil); got != "Required" {
			t.Errorf("unexpected error for nil value: %q", got)
		}
		if got := ValidateField(question, "x"); got != "" {
			t.Errorf("unexpected error for filled value: %q", got)
		}

		question.IsRequired = false
		if got := ValidateField(question, ""); got != "" {
			t.Errorf("unexpected error for optional empty value: %q", got)
		}
	})

	t.Run("non answerable types skip validation", func(t *testing.T) {
		for _, questionType := range []string{QUESTION_TYPE_HEADING, QUESTION_TYPE_DESCRIPTIVE, QUESTION_TYPE_CALC} {
			question := Question{ID: "q1", Type: questionType, IsRequired: true}
			if got := ValidateField(question, nil); got != "" {
				t.Errorf("unexpected error for %s: %q", questionType, got)
			}
		}
	})

	t.Run("email format", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXT, Format: FORMAT_EMAIL}

		if got := ValidateField(question, "john@example.com"); got != "" {
			t.Errorf("unexpected error for valid email: %q", got)
		}
		if got := ValidateField(question, "not-an-email"); !strings.Contains(got, "Invalid Email") {
			t.Errorf("expected email error, got: %q", got)
		}
	})

	t.Run("phone format", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXT, Format: FORMAT_PHONE}

		for _, valid := range []string{"415 555 1212", "(415)555-1212", "4155551212"} {
			if got := ValidateField(question, valid); got != "" {
				t.Errorf("unexpected error for %q: %q", valid, got)
			}
		}
		for _, invalid := range []string{"123", "011 555 1212", "555-12345"} {
			if got := ValidateField(question, invalid); !strings.Contains(got, "Invalid Phone Number") {
				t.Errorf("expected phone error for %q, got: %q", invalid, got)
			}
		}
	})

	t.Run("number format only applies to present values", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXT, Format: FORMAT_NUMBER}

		if got := ValidateField(question, ""); got != "" {
			t.Errorf("unexpected error for empty value: %q", got)
		}
		if got := ValidateField(question, "1234"); got != "" {
			t.Errorf("unexpected error for digits: %q", got)
		}
		if got := ValidateField(question, "12a"); got != "Only numbers are allowed here" {
			t.Errorf("expected number error, got: %q", got)
		}
	})

	t.Run("char limit", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXTAREA, CharLimit: 5}

		if got := ValidateField(question, "12345"); got != "" {
			t.Errorf("unexpected error at the limit: %q", got)
		}
		if got := ValidateField(question, "123456"); got != "The maximum allowed letters are 5" {
			t.Errorf("expected length error, got: %q", got)
		}
	})

	t.Run("char limit counts characters not bytes", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXTAREA, CharLimit: 4}

		if got := ValidateField(question, "déjà"); got != "" {
			t.Errorf("unexpected error for accented value at the limit: %q", got)
		}
		if got := ValidateField(question, "déjàs"); got != "The maximum allowed letters are 4" {
			t.Errorf("expected length error, got: %q", got)
		}
	})

	t.Run("required wins over format and length", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXT, IsRequired: true, Format: FORMAT_EMAIL, CharLimit: 3}
		if got := ValidateField(question, nil); got != "Required" {
			t.Errorf("expected required error first, got: %q", got)
		}
	})

	t.Run("format wins over length", func(t *testing.T) {
		question := Question{ID: "q1", Type: QUESTION_TYPE_TEXT, Format: FORMAT_NUMBER, CharLimit: 2}
		if got := ValidateField(question, "12a"); got != "Only numbers are allowed here" {
			t.Errorf("expected format error first, got: %q", got)
		}
	})
}
