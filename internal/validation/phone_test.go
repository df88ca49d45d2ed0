package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignupPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"international mobile", "+251912345678", true},
		{"empty passes", "", true},
		{"missing plus", "251912345678", false},
		{"local form rejected", "0912345678", false},
		{"seven series rejected", "+251712345678", false},
		{"too short", "+25191234567", false},
		{"too long", "+2519123456789", false},
		{"letters", "+2519abc45678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignupPhone("phone_number", tt.value)
			if tt.valid {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Equal(t, CodeInvalidFormat, err.Code)
				assert.Equal(t, "phone_number", err.Field)
			}
		})
	}
}

func TestValidatePrimaryPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"international mobile", "+251912345678", true},
		{"plus is optional", "251912345678", true},
		{"local form", "0912345678", true},
		{"empty passes", "", true},
		{"seven series rejected", "+251712345678", false},
		{"local seven series rejected", "0712345678", false},
		{"landline rejected", "0112345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrimaryPhone("phone_number", tt.value)
			if tt.valid {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Equal(t, CodeInvalidFormat, err.Code)
			}
		})
	}
}

func TestValidateContactPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"international nine series", "+251912345678", true},
		{"local nine series", "0912345678", true},
		{"international seven series", "+251712345678", true},
		{"local seven series", "0712345678", true},
		{"empty passes", "", true},
		{"nine series without plus rejected", "251912345678", false},
		{"landline rejected", "0112345678", false},
		{"garbage", "call me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContactPhone("contact_person_phone", tt.value)
			if tt.valid {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Equal(t, CodeInvalidFormat, err.Code)
			}
		})
	}
}

// The three validators intentionally disagree on what a phone is; this
// pins the inputs that separate them so a future "cleanup" cannot merge
// the rules unnoticed.
func TestPhoneValidatorsStayDistinct(t *testing.T) {
	local := "0912345678"
	assert.NotNil(t, ValidateSignupPhone("f", local))
	assert.Nil(t, ValidatePrimaryPhone("f", local))
	assert.Nil(t, ValidateContactPhone("f", local))

	seven := "+251712345678"
	assert.NotNil(t, ValidateSignupPhone("f", seven))
	assert.NotNil(t, ValidatePrimaryPhone("f", seven))
	assert.Nil(t, ValidateContactPhone("f", seven))
}
