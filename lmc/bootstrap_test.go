package lmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBootstrapShape(t *testing.T) {
	body := DefaultBootstrap()
	require.Len(t, body, ROMSize)
	assert.Equal(t, byte(JUMP), body[bootstrapEntry])
	assert.Equal(t, byte(0x00), body[MaxROM], "entry byte is left for the loader to fill in")
}

func TestLoadBootstrapInstallsCustomProgram(t *testing.T) {
	c := newTestComputer()
	custom := []byte{0x00, 0x02, byte(HLT), 0x00}

	require.NoError(t, c.LoadBootstrap(custom))
	assert.Equal(t, byte(HLT), c.Memory[0x00])
	assert.Equal(t, byte(0x00), c.Memory[0x01])
}

func TestLoadBootstrapZeroSizeFallsBackToDefault(t *testing.T) {
	c := newTestComputer()
	require.NoError(t, c.LoadBootstrap([]byte{0x00, 0x00}))
	assert.Equal(t, DefaultBootstrap(), c.Memory[0:ROMSize])
}

func TestLoadBootstrapMissingSize(t *testing.T) {
	c := newTestComputer()
	err := c.LoadBootstrap([]byte{0x00})
	assert.ErrorIs(t, err, ErrBootstrapMissingSize)
}

// TestLoadBootstrapTooLarge checks scenario S6: a bootstrap declaring size
// 0x38 fails with ErrBootstrapTooLarge and leaves memory untouched.
func TestLoadBootstrapTooLarge(t *testing.T) {
	c := newTestComputer()
	body := make([]byte, 0x38)
	data := append([]byte{0x00, 0x38}, body...)

	err := c.LoadBootstrap(data)

	assert.ErrorIs(t, err, ErrBootstrapTooLarge)
	for i, v := range c.Memory {
		assert.Equalf(t, byte(0), v, "memory[%#x] must be untouched after a rejected bootstrap", i)
	}
}

func TestLoadBootstrapSizeMismatch(t *testing.T) {
	c := newTestComputer()
	err := c.LoadBootstrap([]byte{0x00, 0x04, 0x01})
	assert.ErrorIs(t, err, ErrBootstrapSizeMismatch)
}
