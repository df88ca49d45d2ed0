package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantCode Code
	}{
		{"valid", "Secret123", ""},
		{"too short", "Ab1", CodeOutOfRange},
		{"no upper case", "secret123", CodeInvalidFormat},
		{"no lower case", "SECRET123", CodeInvalidFormat},
		{"no digit", "SecretWord", CodeInvalidFormat},
		{"exactly eight characters", "Abcdefg1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword("password", tt.password)
			if tt.wantCode == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantCode, err.Code)
		})
	}
}

func TestValidatePasswordConfirmation(t *testing.T) {
	assert.Nil(t, ValidatePasswordConfirmation("confirm_password", "Secret123", "Secret123"))

	err := ValidatePasswordConfirmation("confirm_password", "Secret123", "Secret124")
	require.NotNil(t, err)
	assert.Equal(t, CodeMismatch, err.Code)
	assert.Equal(t, "confirm_password", err.Field)
}

func TestValidatePasswordChange(t *testing.T) {
	assert.Nil(t, ValidatePasswordChange("new_password", "OldPass12", "NewPass34"))

	// A new password equal to the old one is rejected even though it
	// passes every strength rule on its own.
	err := ValidatePasswordChange("new_password", "Secret123", "Secret123")
	require.NotNil(t, err)
	assert.Equal(t, CodeSameAsOld, err.Code)

	// Strength is checked before the sameness rule.
	err = ValidatePasswordChange("new_password", "Secret123", "weak")
	require.NotNil(t, err)
	assert.Equal(t, CodeOutOfRange, err.Code)
}
