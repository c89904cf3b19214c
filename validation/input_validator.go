// Package validation provides boundary validation for caller input to the
// clinical rules API. The rule engines themselves never fail on content;
// shape and size violations are rejected here with typed errors instead of
// proceeding with nonsensical defaults.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/auramed/clinical-rules-api/interfaces"
)

// Input size ceilings. Transcripts are spoken-note sized; medication
// lists stay small (interaction checking is O(n²) over the list).
const (
	MaxTranscriptBytes   = 32 * 1024
	MaxMedications       = 50
	MaxMedicationNameLen = 100
)

// Pre-compiled patterns, compiled once at package initialization.
var (
	// Medication names: letters, digits, spaces and common name punctuation.
	medicationNameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'/\(\)]+$`)

	// Dangerous substrings screened out of all free text. Plain substring
	// checks are faster than regex for these.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:",
		"onload=", "onerror=", "<iframe", "<object", "<embed",
	}
)

// InvalidInputError reports a caller input-shape violation. Handlers map
// it to HTTP 400.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Compile-time check to ensure InputValidatorImpl implements InputValidator
var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

// InputValidatorImpl implements the interfaces.InputValidator interface.
type InputValidatorImpl struct{}

// NewInputValidator creates a new input validator.
func NewInputValidator() *InputValidatorImpl {
	return &InputValidatorImpl{}
}

// ValidateTranscript checks transcript size, encoding and content. An
// empty transcript is valid: the extractor returns an empty note for it.
func (v *InputValidatorImpl) ValidateTranscript(transcript string) error {
	if len(transcript) > MaxTranscriptBytes {
		return &InvalidInputError{
			Field:  "transcript",
			Reason: fmt.Sprintf("exceeds maximum size of %d bytes", MaxTranscriptBytes),
		}
	}
	if !utf8.ValidString(transcript) {
		return &InvalidInputError{Field: "transcript", Reason: "not valid UTF-8"}
	}
	if pattern := firstDangerousPattern(transcript); pattern != "" {
		return &InvalidInputError{
			Field:  "transcript",
			Reason: fmt.Sprintf("contains disallowed pattern %q", pattern),
		}
	}
	return nil
}

// ValidateMedications checks list size and each name. An empty list is
// valid and yields a zero-match report downstream. Unknown drugs are not
// an error; only malformed names are.
func (v *InputValidatorImpl) ValidateMedications(medications []string) error {
	if len(medications) > MaxMedications {
		return &InvalidInputError{
			Field:  "medications",
			Reason: fmt.Sprintf("exceeds maximum of %d entries", MaxMedications),
		}
	}
	for i, name := range medications {
		if err := validateMedicationName(name); err != nil {
			return &InvalidInputError{
				Field:  fmt.Sprintf("medications[%d]", i),
				Reason: err.Error(),
			}
		}
	}
	return nil
}

func validateMedicationName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name is empty")
	}
	if len(trimmed) > MaxMedicationNameLen {
		return fmt.Errorf("name exceeds %d characters", MaxMedicationNameLen)
	}
	if !medicationNameRegex.MatchString(trimmed) {
		return fmt.Errorf("name contains unsupported characters")
	}
	return nil
}

func firstDangerousPattern(text string) string {
	lower := strings.ToLower(text)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return pattern
		}
	}
	return ""
}
