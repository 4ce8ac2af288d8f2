package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt(" 3 ", 2))
	assert.Equal(t, 2, ParseInt("", 2))
	assert.Equal(t, 2, ParseInt("3.5", 2))
	assert.Equal(t, -1, ParseInt("-1", 2))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("05551234567"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("+90555"))
	assert.False(t, IsDigits("555 123"))
	assert.False(t, IsDigits("555-123"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<unset>", MaskSecret(""))
	assert.Equal(t, "<set len=6>", MaskSecret("s3cret"))
}
