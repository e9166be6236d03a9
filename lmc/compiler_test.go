package lmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompileHeaderScenario checks scenario S5: compiling "start 0f  add 03
// stop 00" must produce the exact byte sequence 0f 04 20 03 04 00.
func TestCompileHeaderScenario(t *testing.T) {
	out, err := Compile("start 0f\nadd 03\nstop 00\n", "s5.lmc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0f, 0x04, 0x20, 0x03, 0x04, 0x00}, out)
}

// TestCompileHeaderInvariant checks invariant 1: bytes[1] equals the
// instruction-byte count and is even.
func TestCompileHeaderInvariant(t *testing.T) {
	out, err := Compile("load @ 40\nstore @ 41\nhlt 00\n", "t.lmc")
	require.NoError(t, err)
	require.True(t, len(out) >= 2)
	assert.Equal(t, len(out)-2, int(out[1]))
	assert.Equal(t, 0, int(out[1])%2)
}

func TestCompileDefaultEntryAddress(t *testing.T) {
	out, err := Compile("hlt 00\n", "t.lmc")
	require.NoError(t, err)
	assert.Equal(t, DefaultEntryAddr, out[0])
}

func TestCompileStartRelative(t *testing.T) {
	out, err := Compile("start @ 05\nhlt 00\n", "t.lmc")
	require.NoError(t, err)
	assert.Equal(t, DefaultEntryAddr+0x05, out[0])
}

func TestCompileAddressModes(t *testing.T) {
	out, err := Compile("load @ 40\n", "t.lmc")
	require.NoError(t, err)
	assert.Equal(t, byte(LOAD|VAR), out[2])
	assert.Equal(t, byte(0x40), out[3])

	out, err = Compile("load *@ 40\n", "t.lmc")
	require.NoError(t, err)
	assert.Equal(t, byte(LOAD|VAR|PTR), out[2])

	out, err = Compile("load * 40\n", "t.lmc")
	require.NoError(t, err)
	assert.Equal(t, byte(LOAD|VAR|PTR), out[2])
}

func TestCompileRawHexPair(t *testing.T) {
	out, err := Compile("20 03\n", "t.lmc")
	require.NoError(t, err)
	assert.Equal(t, []byte{DefaultEntryAddr, 0x02, 0x20, 0x03}, out)
}

func TestCompileCommentsAndWhitespace(t *testing.T) {
	out, err := Compile("// a leading comment\n  add 03 # trailing\n\nstop 00\n", "t.lmc")
	require.NoError(t, err)
	assert.Equal(t, []byte{DefaultEntryAddr, 0x04, 0x20, 0x03, 0x04, 0x00}, out)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("frobnicate 03\n", "bad.lmc")
	require.Error(t, err)
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, "bad.lmc", syn.Source)
	assert.Equal(t, 1, syn.Line)
	assert.Equal(t, "bad.lmc:1: syntax error: 'frobnicate'", err.Error())
}

func TestCompileArrayFull(t *testing.T) {
	p := NewProgram()
	for i := 0; i < 127; i++ {
		require.NoError(t, p.Append(LOAD, 0x00))
	}
	err := p.Append(LOAD, 0x00)
	assert.ErrorIs(t, err, ErrArrayFull)
}
