package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Field length limits
const (
	MaxNameLength          = 255
	MaxCompanyNameLength   = 255
	MaxAddressLength       = 255
	MaxContactPersonLength = 100
	MaxDescriptionLength   = 1000
	MaxReferencesLength    = 1000
	MaxIssuedByLength      = 255
	MaxWebsiteLength       = 255

	MinEstablishedYear = 1900
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateRequired checks that a value is non-empty after trimming.
func ValidateRequired(field, value string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return missing(field)
	}
	return nil
}

// ValidateMaxLength checks the rune length of a value against its limit.
// Empty values pass; presence is a separate rule.
func ValidateMaxLength(field, value string, max int) *FieldError {
	if utf8.RuneCountInString(value) > max {
		return &FieldError{
			Field:   field,
			Code:    CodeTooLong,
			Message: fmt.Sprintf("must be at most %d characters", max),
		}
	}
	return nil
}

// ValidateEmail checks the user@domain format. Empty values pass.
func ValidateEmail(field, value string) *FieldError {
	if value == "" {
		return nil
	}
	if !emailRegex.MatchString(strings.TrimSpace(value)) {
		return &FieldError{Field: field, Code: CodeInvalidFormat, Message: "enter a valid email address"}
	}
	return nil
}

// ValidateWebsite checks that the value is an absolute http(s) URL with a
// host. Empty values pass; the website is optional everywhere.
func ValidateWebsite(field, value string) *FieldError {
	if value == "" {
		return nil
	}
	if err := ValidateMaxLength(field, value, MaxWebsiteLength); err != nil {
		return err
	}
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return &FieldError{Field: field, Code: CodeInvalidFormat, Message: "enter a valid http(s) URL"}
	}
	return nil
}

// ValidateEstablishedYear checks the year against [1900, current year].
// A nil value passes.
func ValidateEstablishedYear(field string, year *int) *FieldError {
	if year == nil {
		return nil
	}
	current := time.Now().Year()
	if *year < MinEstablishedYear || *year > current {
		return &FieldError{
			Field:   field,
			Code:    CodeOutOfRange,
			Message: fmt.Sprintf("must be between %d and %d", MinEstablishedYear, current),
		}
	}
	return nil
}

// ValidateNonNegativeInt rejects negative values. A nil value passes.
func ValidateNonNegativeInt(field string, value *int) *FieldError {
	if value != nil && *value < 0 {
		return &FieldError{Field: field, Code: CodeOutOfRange, Message: "must not be negative"}
	}
	return nil
}

// ValidateNonNegativeFloat rejects negative values. A nil value passes.
func ValidateNonNegativeFloat(field string, value *float64) *FieldError {
	if value != nil && *value < 0 {
		return &FieldError{Field: field, Code: CodeOutOfRange, Message: "must not be negative"}
	}
	return nil
}

// ValidateChoice checks membership in a fixed set of string values.
// Empty values pass.
func ValidateChoice(field, value string, valid map[string]struct{}) *FieldError {
	if value == "" {
		return nil
	}
	if _, ok := valid[value]; !ok {
		return &FieldError{Field: field, Code: CodeInvalidChoice, Message: "is not a valid choice"}
	}
	return nil
}
