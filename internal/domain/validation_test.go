package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFirstName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"simple", "Anna", "Anna", false},
		{"trimmed", "  Anna  ", "Anna", false},
		{"diacritics", "Jürgen", "Jürgen", false},
		{"hyphen and apostrophe", "Anne-Marie O'Neil", "Anne-Marie O'Neil", false},
		{"max length", strings.Repeat("a", MaxFirstNameLength), strings.Repeat("a", MaxFirstNameLength), false},
		{"too long", strings.Repeat("a", MaxFirstNameLength+1), "", true},
		{"empty", "   ", "", true},
		{"digits", "Anna2", "", true},
		{"newline", "An\nna", "", true},
		{"emoji", "Anna 🙂", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFirstName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name    string
		input   *string
		wantErr bool
	}{
		{"absent", nil, false},
		{"plain", strPtr("Family visit"), false},
		{"max length", strPtr(strings.Repeat("ä", MaxDescriptionLength)), false},
		{"too long", strPtr(strings.Repeat("a", MaxDescriptionLength+1)), true},
		{"http", strPtr("Visit http://example.com"), true},
		{"https upper", strPtr("Visit HTTPS://example.com"), true},
		{"www", strPtr("see Www.example.com"), true},
		{"mailto", strPtr("MailTo:someone"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescription(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(NormalizeEmail("  Anna@Example.COM ")))
	assert.ErrorIs(t, ValidateEmail(""), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("anna"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("@example.com"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("anna@"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("a@b@c"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail(strings.Repeat("a", MaxEmailLength)+"@x.de"), ErrValidation)
}

func TestValidatePartySize(t *testing.T) {
	assert.NoError(t, ValidatePartySize(1, 10))
	assert.NoError(t, ValidatePartySize(10, 10))
	assert.ErrorIs(t, ValidatePartySize(0, 10), ErrValidation)
	assert.ErrorIs(t, ValidatePartySize(11, 10), ErrValidation)
}

func strPtr(s string) *string {
	return &s
}
