package lmc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJumpSkipsPhase3 checks invariant 4: after a JUMP, PC is exactly the
// jump target, not target+1.
func TestJumpSkipsPhase3(t *testing.T) {
	c := newTestComputer()
	c.Memory[0x20] = byte(JUMP)
	c.Memory[0x21] = 0x50

	c.Phase1()
	proceed, err := c.Phase2(Program)
	require.NoError(t, err)
	assert.False(t, proceed)
	assert.Equal(t, byte(0x50), c.CU.PC)
}

func TestBRNTakenSkipsPhase3(t *testing.T) {
	c := newTestComputer()
	c.ALU.Acc = 0x80 // sign bit set
	c.Memory[0x20] = byte(BRN)
	c.Memory[0x21] = 0x60

	c.Phase1()
	proceed, err := c.Phase2(Program)
	require.NoError(t, err)
	assert.False(t, proceed)
	assert.Equal(t, byte(0x60), c.CU.PC)
}

func TestBRNNotTakenFallsThrough(t *testing.T) {
	c := newTestComputer()
	c.ALU.Acc = 0x01
	c.Memory[0x20] = byte(BRN)
	c.Memory[0x21] = 0x60

	c.Phase1()
	proceed, err := c.Phase2(Program)
	require.NoError(t, err)
	assert.True(t, proceed)
	c.Phase3()
	assert.Equal(t, byte(0x22), c.CU.PC)
}

func TestBRZTakenSkipsPhase3(t *testing.T) {
	c := newTestComputer()
	c.ALU.Acc = 0x00
	c.Memory[0x20] = byte(BRZ)
	c.Memory[0x21] = 0x70

	c.Phase1()
	proceed, err := c.Phase2(Program)
	require.NoError(t, err)
	assert.False(t, proceed)
	assert.Equal(t, byte(0x70), c.CU.PC)
}

func TestIndirectionLevels(t *testing.T) {
	c := newTestComputer()
	// level 0: literal.
	c.Memory[0x20], c.Memory[0x21] = byte(LOAD), 0x07
	c.Phase1()
	_, err := c.Phase2(Program)
	require.NoError(t, err)
	assert.Equal(t, byte(0x07), c.ALU.Acc)

	// level 1 (VAR): one extra dereference.
	c.CU.PC = 0x30
	c.Memory[0x30], c.Memory[0x31] = byte(LOAD|VAR), 0x40
	c.Memory[0x40] = 0x99
	c.Phase1()
	_, err = c.Phase2(Program)
	require.NoError(t, err)
	assert.Equal(t, byte(0x99), c.ALU.Acc)

	// level 2 (VAR|PTR): two extra dereferences.
	c.CU.PC = 0x50
	c.Memory[0x50], c.Memory[0x51] = byte(LOAD|VAR|PTR), 0x60
	c.Memory[0x60] = 0x61
	c.Memory[0x61] = 0x22
	c.Phase1()
	_, err = c.Phase2(Program)
	require.NoError(t, err)
	assert.Equal(t, byte(0x22), c.ALU.Acc)
}

func TestCalc(t *testing.T) {
	c := newTestComputer()
	c.ALU.Acc = 0x05
	c.Cache.WR = 0x03
	c.calc(ADD)
	assert.Equal(t, byte(0x08), c.ALU.Acc)

	c.ALU.Acc = 0x05
	c.Cache.WR = 0x03
	c.calc(SUB)
	assert.Equal(t, byte(0x02), c.ALU.Acc)

	c.ALU.Acc = 0x01
	c.Cache.WR = 0x01
	c.calc(NAND)
	assert.Equal(t, byte(0x00), c.ALU.Acc)

	c.ALU.Acc = 0x00
	c.Cache.WR = 0x01
	c.calc(NAND)
	assert.Equal(t, byte(0x01), c.ALU.Acc)
}

// TestDebugZeroLeavesDebugger checks invariant 5: a DEBUG 0 instruction
// leaves the debugger, and no further dbg-phase-1 entries occur until the
// next DEBUG v (v != 0).
func TestDebugZeroLeavesDebugger(t *testing.T) {
	c := newTestComputer()
	c.Debug.Opcode = DEBUG

	// Simulate a "DEBUG 0" read from the debugger prompt.
	c.ALU.Opcode = DEBUG
	c.Cache.WR = 0x00
	again, err := c.dbgPhase3()
	require.NoError(t, err)
	assert.False(t, again)
	assert.Equal(t, Opcode(0), c.Debug.Opcode)

	proceed, err := c.dbgPhase1()
	require.NoError(t, err)
	assert.False(t, proceed, "debugger must stay off after DEBUG 0")
}

func TestDebugStepRespectsBreakpoint(t *testing.T) {
	c := newTestComputer()
	c.Debug.Opcode = CONT
	c.Debug.Break = 0x30
	c.CU.PC = 0x20

	proceed, err := c.dbgPhase1()
	require.NoError(t, err)
	assert.False(t, proceed, "CONT must fast-forward until PC reaches the breakpoint")

	c.CU.PC = 0x30
	proceed, err = c.dbgPhase1()
	require.NoError(t, err)
	assert.True(t, proceed)
}

func newTestBus(input string, out *bytes.Buffer) *Bus {
	return NewBus(strings.NewReader(input), nil, out)
}
