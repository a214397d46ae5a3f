package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Letters (ASCII and Latin-1 diacritics), space, hyphen and apostrophe
var firstNamePattern = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ '\-]+$`)

// Hyperlink markers rejected in free text
var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://`),
	regexp.MustCompile(`(?i)www\.`),
	regexp.MustCompile(`(?i)mailto:`),
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the shape of an already normalized email
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("requester_email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return NewValidationError("requester_email", fmt.Sprintf("email must be at most %d characters", MaxEmailLength))
	}
	local, domainPart, found := strings.Cut(email, "@")
	if !found || local == "" || domainPart == "" || strings.Contains(domainPart, "@") {
		return NewValidationError("requester_email", "email is malformed")
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return NewValidationError("requester_email", "email must not contain whitespace")
	}
	return nil
}

// ValidateFirstName trims the name and checks it; returns the trimmed value
func ValidateFirstName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewValidationError("requester_first_name", "first name is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxFirstNameLength {
		return "", NewValidationError("requester_first_name", fmt.Sprintf("first name must be at most %d characters", MaxFirstNameLength))
	}
	if !firstNamePattern.MatchString(trimmed) {
		return "", NewValidationError("requester_first_name", "first name may contain only letters, spaces, hyphens and apostrophes")
	}
	return trimmed, nil
}

// ValidateFreeText checks length and forbids hyperlinks
func ValidateFreeText(field, text string, maxLen int) error {
	if utf8.RuneCountInString(text) > maxLen {
		return NewValidationError(field, fmt.Sprintf("text must be at most %d characters", maxLen))
	}
	if ContainsLink(text) {
		return NewValidationError(field, "links are not allowed")
	}
	return nil
}

// ValidateDescription checks an optional description
func ValidateDescription(description *string) error {
	if description == nil {
		return nil
	}
	return ValidateFreeText("description", *description, MaxDescriptionLength)
}

// ValidateComment checks a decision or cancellation comment
func ValidateComment(comment string) error {
	return ValidateFreeText("comment", comment, MaxCommentLength)
}

// ValidatePartySize checks 1 <= size <= maxSize
func ValidatePartySize(size, maxSize int) error {
	if size < 1 || size > maxSize {
		return NewValidationError("party_size", fmt.Sprintf("party size must be between 1 and %d", maxSize))
	}
	return nil
}

// ContainsLink reports whether text contains a recognizable hyperlink
func ContainsLink(text string) bool {
	for _, p := range linkPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
