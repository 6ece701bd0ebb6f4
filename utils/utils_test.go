package utils

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	valid := []string{
		"0712345678",
		"+254712345678",
		"254712345678",
		"00254712345678",
		" 0712 345 678 ",
		"+254 712\t345678",
	}
	for _, in := range valid {
		got, ok := NormalizePhone(in)
		assert.True(t, ok, in)
		assert.Equal(t, "254712345678", got, in)
	}

	invalid := []string{
		"712345678",
		"+1 202 555 0100",
		"07123",
		"2547123456789",
		"07123abcde",
		"",
	}
	for _, in := range invalid {
		_, ok := NormalizePhone(in)
		assert.False(t, ok, in)
	}
}

func TestStripSpaces(t *testing.T) {
	assert.Equal(t, "0712345678", StripSpaces(" 07 12\n345 678\t"))
}
