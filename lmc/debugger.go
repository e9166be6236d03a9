package lmc

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// debuggerStep interposes on the normal cycle between phase 3 of the
// previous instruction and phase 1 of the next, per spec ss4.4. It runs
// its own dbg-phase-1/2/3 loop, iterating until a DEBUG 0, CONT, or NEXT
// instruction returns control to the main fetch/decode/execute loop.
func (c *Computer) debuggerStep() error {
	for {
		proceed, err := c.dbgPhase1()
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}

		op, arg, err := c.dbgPhase2()
		if err != nil {
			return err
		}
		c.ALU.Opcode = op
		c.Cache.WR = arg

		again, err := c.dbgPhase3()
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// dbgPhase1 decides whether the debugger should intercept this cycle. It
// returns false ("skip debug") when the debugger is off, the machine has
// halted, or a CONT fast-forward hasn't yet reached its breakpoint.
func (c *Computer) dbgPhase1() (bool, error) {
	if !c.Running || c.Debug.Opcode == 0 {
		return false, nil
	}

	if c.Debug.Print != 0 && c.Debug.Print == c.CU.PC {
		c.printSingleAddress(c.Debug.Print)
	}

	if c.Debug.Opcode.Operation() == CONT && c.Debug.Break != 0 && c.CU.PC != c.Debug.Break {
		return false, nil
	}

	return true, nil
}

// dbgPhase2 swaps in the debugger prompt, reads two bytes from the bus
// (debug opcode, argument), and restores the original prompt, per spec
// ss4.4.
func (c *Computer) dbgPhase2() (Opcode, byte, error) {
	original := c.Bus.Prompt
	c.Bus.Prompt = fmt.Sprintf("PC: %02x ACC: %02x ?>", c.CU.PC, c.ALU.Acc)
	defer func() { c.Bus.Prompt = original }()

	opByte, err := c.Bus.Read()
	if err != nil {
		return 0, 0, err
	}
	argByte, err := c.Bus.Read()
	if err != nil {
		return 0, 0, err
	}
	return Opcode(opByte), argByte, nil
}

// dbgPhase3 invokes the VM's phase 2 with Origin=Debugger, then decides
// whether the debug loop should iterate again. It returns false (stop
// iterating) for DEBUG 0 (leave the debugger), CONT (resume the program),
// and NEXT (which additionally steps one real instruction before
// returning).
func (c *Computer) dbgPhase3() (bool, error) {
	operation := c.ALU.Opcode.Operation()
	debugArg := c.Cache.WR // the raw byte the operator typed, before Phase2 overwrites it

	if _, err := c.Phase2(Debugger); err != nil {
		return false, err
	}

	switch {
	case operation == DEBUG && debugArg == 0:
		// DEBUG 0: leave the debugger.
		c.Debug.Opcode = 0
		return false, nil
	case operation == CONT:
		return false, nil
	case operation == NEXT:
		c.Phase1()
		proceed, err := c.Phase2(Program)
		if err != nil {
			return false, err
		}
		if proceed {
			c.Phase3()
		}
		return false, nil
	default:
		return true, nil
	}
}

// execDebugInstruction dispatches a decoded debug mnemonic. origin tells it
// which register holds the raw argument: Program origin fetched a literal
// byte into Cache.WR the same way any other instruction does; Debugger
// origin left the operator-supplied value untouched in Cache.SR (see
// Phase2 -- debugger calls set sr := wr, and indirection is 0 for every
// debug mnemonic, so SR never gets overwritten by the trailing memory
// dereference the way WR does).
func (c *Computer) execDebugInstruction(operation Opcode, origin Origin) (bool, error) {
	var arg byte
	if origin == Program {
		arg = c.Cache.WR
	} else {
		arg = c.Cache.SR
	}

	switch operation {
	case DEBUG:
		c.Debug.Opcode = Opcode(arg)
	case CONT:
		c.Debug.Opcode = Opcode(arg)
	case NEXT:
		// No argument; dbgPhase3 performs the actual single-step.
	case BREAK:
		c.Debug.Break = arg
	case FREE:
		c.Debug.Break = 0
	case PRINT:
		c.Debug.Print = arg
	case CLEAR:
		c.Debug.Print = 0
	case DUMP:
		end, err := c.Bus.Read()
		if err != nil {
			return false, err
		}
		c.printRange(arg, end)
	}

	return false, nil
}

var dumpHeaderStyle = lipgloss.NewStyle().Bold(true)

// printRange renders memory[start..=end] as a labeled hex dump, 8 bytes
// per row, per original_source's lmc_dump. This path is never exercised by
// the byte-exact scenario tests, so it is free to use ANSI styling.
func (c *Computer) printRange(start, end byte) {
	fmt.Fprintln(c.Bus.Output)
	fmt.Fprintln(c.Bus.Output, dumpHeaderStyle.Render(fmt.Sprintf("dump %02x..%02x", start, end)))

	addr := int(start)
	last := int(end)
	for addr <= last {
		row := addr &^ 0x07
		fmt.Fprintf(c.Bus.Output, "%02x:", row)
		for col := row; col < row+8 && col <= last; col++ {
			if col < int(start) {
				fmt.Fprint(c.Bus.Output, "   ")
				continue
			}
			fmt.Fprintf(c.Bus.Output, " %02x", c.Memory[col])
		}
		fmt.Fprintln(c.Bus.Output)
		addr = row + 8
	}
}

// printSingleAddress implements the print-point side effect of dbg-phase-1:
// dump one address' current value whenever PC reaches it.
func (c *Computer) printSingleAddress(addr byte) {
	fmt.Fprintf(c.Bus.Output, "\n%02x: %02x\n", addr, c.Memory[addr])
}

// DumpState renders the full machine state via go-spew, for the rare case
// an operator wants the raw Go struct layout rather than a formatted hex
// table.
func (c *Computer) DumpState() string {
	return spew.Sdump(*c)
}
