package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTranscript(t *testing.T) {
	v := NewInputValidator()

	tests := []struct {
		name       string
		transcript string
		wantErr    bool
	}{
		{
			name:       "normal transcript",
			transcript: "Patient reports chest pain. Plan: admit for monitoring.",
			wantErr:    false,
		},
		{
			name:       "empty transcript is valid",
			transcript: "",
			wantErr:    false,
		},
		{
			name:       "at the size limit",
			transcript: strings.Repeat("a", MaxTranscriptBytes),
			wantErr:    false,
		},
		{
			name:       "over the size limit",
			transcript: strings.Repeat("a", MaxTranscriptBytes+1),
			wantErr:    true,
		},
		{
			name:       "invalid utf-8",
			transcript: "patient\xff\xfereports",
			wantErr:    true,
		},
		{
			name:       "script tag",
			transcript: "Patient reports <script>alert(1)</script>",
			wantErr:    true,
		},
		{
			name:       "script tag is caught case insensitively",
			transcript: "<SCRIPT>alert(1)</SCRIPT>",
			wantErr:    true,
		},
		{
			name:       "javascript url",
			transcript: "see javascript:void(0)",
			wantErr:    true,
		},
		{
			name:       "event handler attribute",
			transcript: "img onerror=alert(1)",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTranscript(tt.transcript)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTranscript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *InvalidInputError
				if !errors.As(err, &invalid) {
					t.Errorf("error type = %T, want *InvalidInputError", err)
				} else if invalid.Field != "transcript" {
					t.Errorf("Field = %q, want %q", invalid.Field, "transcript")
				}
			}
		})
	}
}

func TestValidateMedications(t *testing.T) {
	v := NewInputValidator()

	tooMany := make([]string, MaxMedications+1)
	for i := range tooMany {
		tooMany[i] = "aspirin"
	}

	tests := []struct {
		name        string
		medications []string
		wantErr     bool
		wantField   string
	}{
		{
			name:        "normal list",
			medications: []string{"Warfarin", "Aspirin"},
			wantErr:     false,
		},
		{
			name:        "empty list is valid",
			medications: []string{},
			wantErr:     false,
		},
		{
			name:        "names with common punctuation",
			medications: []string{"Co-trimoxazole", "Vitamin B-12 (injection)", "St. John's wort"},
			wantErr:     false,
		},
		{
			name:        "too many entries",
			medications: tooMany,
			wantErr:     true,
			wantField:   "medications",
		},
		{
			name:        "empty name",
			medications: []string{"Warfarin", "   "},
			wantErr:     true,
			wantField:   "medications[1]",
		},
		{
			name:        "name too long",
			medications: []string{strings.Repeat("a", MaxMedicationNameLen+1)},
			wantErr:     true,
			wantField:   "medications[0]",
		},
		{
			name:        "unsupported characters",
			medications: []string{"aspirin<script>"},
			wantErr:     true,
			wantField:   "medications[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMedications(tt.medications)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateMedications() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *InvalidInputError
				if !errors.As(err, &invalid) {
					t.Fatalf("error type = %T, want *InvalidInputError", err)
				}
				if invalid.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", invalid.Field, tt.wantField)
				}
			}
		})
	}
}

func TestInvalidInputErrorMessage(t *testing.T) {
	err := &InvalidInputError{Field: "transcript", Reason: "not valid UTF-8"}
	want := "invalid transcript: not valid UTF-8"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
