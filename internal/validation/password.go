package validation

import "unicode"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks password strength: at least 8 characters with
// an upper-case letter, a lower-case letter and a digit.
func ValidatePassword(field, password string) *FieldError {
	if len(password) < MinPasswordLength {
		return &FieldError{Field: field, Code: CodeOutOfRange, Message: "must be at least 8 characters"}
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return &FieldError{Field: field, Code: CodeInvalidFormat, Message: "must contain an upper-case letter"}
	}
	if !hasLower {
		return &FieldError{Field: field, Code: CodeInvalidFormat, Message: "must contain a lower-case letter"}
	}
	if !hasNumber {
		return &FieldError{Field: field, Code: CodeInvalidFormat, Message: "must contain a digit"}
	}

	return nil
}

// ValidatePasswordConfirmation checks the confirm-password field against
// the password it confirms.
func ValidatePasswordConfirmation(field, password, confirmation string) *FieldError {
	if password != confirmation {
		return &FieldError{Field: field, Code: CodeMismatch, Message: "passwords do not match"}
	}
	return nil
}

// ValidatePasswordChange checks the new password of the change-password
// flow: it must satisfy the strength rules and differ from the old one,
// even when both independently pass every other rule.
func ValidatePasswordChange(field, oldPassword, newPassword string) *FieldError {
	if err := ValidatePassword(field, newPassword); err != nil {
		return err
	}
	if newPassword == oldPassword {
		return &FieldError{Field: field, Code: CodeSameAsOld, Message: "new password must differ from the old one"}
	}
	return nil
}
