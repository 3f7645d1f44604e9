package surveyengine

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	// North-American 10 digit numbers, optional separators.
	phoneRegex      = regexp.MustCompile(`^\(?[2-9]\d{2}\)?[-.\s]?[2-9]\d{2}[-.\s]?\d{4}$`)
	digitsOnlyRegex = regexp.MustCompile(`^[0-9]*$`)
)

// ValidateField checks one collected value against its question and returns a
// human readable error message, or the empty string when the value passes.
// Rules apply in fixed order - required, then format, then length - and only
// the first failure is reported.
func ValidateField(question Question, value any) string {
	switch question.Type {
	case QUESTION_TYPE_HEADING, QUESTION_TYPE_DESCRIPTIVE, QUESTION_TYPE_CALC:
		return ""
	}

	if question.IsRequired && IsEmptyValue(value) {
		return "Required"
	}

	strValue := ValueToString(value)

	switch strings.ToLower(question.Format) {
	case FORMAT_EMAIL:
		if !emailRegex.MatchString(strValue) {
			return "Invalid Email. This field must be a valid email address (like john@example.com)"
		}
	case FORMAT_PHONE:
		if !phoneRegex.MatchString(strValue) {
			return "Invalid Phone Number. This field must be a 10 digit U.S. phone number (like 415 555 1212)"
		}
	case FORMAT_NUMBER:
		if strValue != "" && !digitsOnlyRegex.MatchString(strValue) {
			return "Only numbers are allowed here"
		}
	}

	if question.CharLimit > 0 && utf8.RuneCountInString(strValue) > question.CharLimit {
		return fmt.Sprintf("The maximum allowed letters are %d", question.CharLimit)
	}

	return ""
}
