package validation

import "regexp"

// The three phone rules differ on purpose and must stay separate: the
// signup form accepts only the strict international mobile format, the
// profile screens also accept the local 09 form for the primary phone,
// and the contact-person phone additionally accepts the 7-series
// prefixes. Do not unify them.
var (
	signupPhoneRegex  = regexp.MustCompile(`^\+2519\d{8}$`)
	primaryPhoneRegex = regexp.MustCompile(`^(\+?2519\d{8}|09\d{8})$`)
	contactPhoneRegex = regexp.MustCompile(`^(\+2519\d{8}|09\d{8}|\+2517\d{8}|07\d{8})$`)
)

// ValidateSignupPhone checks the strict +2519xxxxxxxx format used at
// registration. Empty values pass.
func ValidateSignupPhone(field, value string) *FieldError {
	return matchPhone(field, value, signupPhoneRegex, "enter a phone number like +251912345678")
}

// ValidatePrimaryPhone checks the primary profile phone: 2519xxxxxxxx
// with an optional plus, or the local 09xxxxxxxx form. Empty values pass.
func ValidatePrimaryPhone(field, value string) *FieldError {
	return matchPhone(field, value, primaryPhoneRegex, "enter a phone number like +251912345678 or 0912345678")
}

// ValidateContactPhone checks the contact-person phone, which also
// accepts the 7-series mobile prefixes. Empty values pass.
func ValidateContactPhone(field, value string) *FieldError {
	return matchPhone(field, value, contactPhoneRegex, "enter a valid Ethiopian mobile number")
}

func matchPhone(field, value string, re *regexp.Regexp, message string) *FieldError {
	if value == "" {
		return nil
	}
	if !re.MatchString(value) {
		return &FieldError{Field: field, Code: CodeInvalidFormat, Message: message}
	}
	return nil
}
