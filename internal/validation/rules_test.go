package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, ValidateEmail("email", "abebe@example.com"))
	assert.Nil(t, ValidateEmail("email", ""))

	for _, bad := range []string{"abebe", "abebe@", "@example.com", "abebe@example", "a b@example.com"} {
		err := ValidateEmail("email", bad)
		require.NotNil(t, err, "expected %q to fail", bad)
		assert.Equal(t, CodeInvalidFormat, err.Code)
	}
}

func TestValidateWebsite(t *testing.T) {
	assert.Nil(t, ValidateWebsite("website", "https://bekele-construction.et"))
	assert.Nil(t, ValidateWebsite("website", "http://example.com/about"))
	assert.Nil(t, ValidateWebsite("website", ""))

	for _, bad := range []string{"example.com", "ftp://example.com", "https://", "not a url"} {
		err := ValidateWebsite("website", bad)
		require.NotNil(t, err, "expected %q to fail", bad)
	}
}

func TestValidateMaxLength_CountsRunes(t *testing.T) {
	// 255 multi-byte runes exceed 255 bytes but not 255 characters.
	value := strings.Repeat("ሀ", MaxNameLength)
	assert.Nil(t, ValidateMaxLength("first_name", value, MaxNameLength))

	err := ValidateMaxLength("first_name", value+"ሀ", MaxNameLength)
	require.NotNil(t, err)
	assert.Equal(t, CodeTooLong, err.Code)
}

func TestValidateEstablishedYear(t *testing.T) {
	current := time.Now().Year()

	ok := []int{MinEstablishedYear, 1999, current}
	for _, y := range ok {
		year := y
		assert.Nil(t, ValidateEstablishedYear("established_year", &year), "year %d", y)
	}

	bad := []int{MinEstablishedYear - 1, current + 1, 0}
	for _, y := range bad {
		year := y
		err := ValidateEstablishedYear("established_year", &year)
		require.NotNil(t, err, "year %d", y)
		assert.Equal(t, CodeOutOfRange, err.Code)
	}

	assert.Nil(t, ValidateEstablishedYear("established_year", nil))
}

func TestValidateRequired_TrimsWhitespace(t *testing.T) {
	assert.Nil(t, ValidateRequired("company_name", "Bekele Construction"))

	err := ValidateRequired("company_name", "  \t ")
	require.NotNil(t, err)
	assert.Equal(t, CodeMissing, err.Code)
}
