package mid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_ReadStringTrimsTrailingSpaces(t *testing.T) {
	c := NewCursor([]byte("Teste Airbag             "))

	v, err := c.ReadString("controllerName", 25)
	require.NoError(t, err)
	assert.Equal(t, "Teste Airbag", v)
	assert.Equal(t, 25, c.Pos())
}

func TestCursor_ReadNumber(t *testing.T) {
	c := NewCursor([]byte("00123abc"))

	v, err := c.ReadNumber("cellID", 5)
	require.NoError(t, err)
	assert.Equal(t, 123, v)
}

func TestCursor_ReadNumberRejectsNonDigits(t *testing.T) {
	c := NewCursor([]byte("12a45"))

	_, err := c.ReadNumber("x", 5)
	require.Error(t, err)
}

func TestCursor_ReadRawStringRejectsControlBytes(t *testing.T) {
	c := NewCursor([]byte("ab\x01cd"))

	_, err := c.ReadRawString("x", 5)
	require.Error(t, err)
}

func TestCursor_ShortBufferErrors(t *testing.T) {
	c := NewCursor([]byte("12"))

	_, err := c.ReadNumber("x", 5)
	require.Error(t, err)
}

func TestCursor_TestNul(t *testing.T) {
	c := NewCursor([]byte{0x00})

	require.NoError(t, c.TestNul())
	assert.Equal(t, 0, c.Remaining())
}

func TestCursor_TestNulRejectsNonNul(t *testing.T) {
	c := NewCursor([]byte{'x'})

	require.Error(t, c.TestNul())
}
