package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneDigits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plus prefix stripped", "+255712000001", "255712000001"},
		{"already bare", "255712000001", "255712000001"},
		{"surrounding spaces", "  +255712000001  ", "255712000001"},
		{"inner spaces", "+255 712 000 001", "255712000001"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneDigits(tt.input))
		})
	}
}

func TestValidateInternationalPhoneDigits(t *testing.T) {
	assert.NoError(t, ValidateInternationalPhoneDigits("255712000001"))

	assert.Error(t, ValidateInternationalPhoneDigits(""))
	assert.Error(t, ValidateInternationalPhoneDigits("+255712000001"))
	assert.Error(t, ValidateInternationalPhoneDigits("0712000001"))
	assert.Error(t, ValidateInternationalPhoneDigits("12345"))
	assert.Error(t, ValidateInternationalPhoneDigits("2557120000011234567"))
	assert.Error(t, ValidateInternationalPhoneDigits("2557abc00001"))
}
