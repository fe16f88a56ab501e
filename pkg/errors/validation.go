package errors

import (
	"strings"
	"unicode"
)

// maxLabelLength bounds label and identifier text read from files.
const maxLabelLength = 256

// ValidateLabelText checks text used as a graph label or rule identifier.
//
// The rules are conservative:
//   - No empty text
//   - No control characters or whitespace
//   - Maximum length of 256 characters
//   - A kind prefix ("type:", "flag:") must be followed by a name
func ValidateLabelText(text string) error {
	if text == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}
	if len(text) > maxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label %q contains control characters", text)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidLabel, "label %q contains whitespace", text)
		}
	}
	for _, prefix := range []string{"type:", "flag:"} {
		if text == prefix {
			return New(ErrCodeInvalidLabel, "label %q has an empty name", text)
		}
	}
	return nil
}

// ValidateIdentifier checks names used for rules and rule nodes in rule files.
// Identifiers consist of letters, digits, '_' and '-', and start with a letter or '_'.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRule, "identifier cannot be empty")
	}
	if len(name) > maxLabelLength {
		return New(ErrCodeInvalidRule, "identifier too long (max %d characters)", maxLabelLength)
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return New(ErrCodeInvalidRule, "identifier %q contains invalid character %q", name, r)
		}
	}
	if strings.HasSuffix(name, "-") {
		return New(ErrCodeInvalidRule, "identifier %q must not end with '-'", name)
	}
	return nil
}
