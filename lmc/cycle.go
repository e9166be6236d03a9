package lmc

// Origin distinguishes who is driving phase 2: the program's own PC-based
// argument fetch, or the debugger supplying (opcode, argument) directly.
// Parameterizing phase 2 by Origin, rather than forking it into two
// copies, is what lets the debugger reuse the VM's decode/execute logic
// (spec Design Notes: "Debugger re-entrancy").
type Origin int

const (
	// Program means phase 2 is running as part of the normal instruction
	// cycle: the argument lives at memory[PC].
	Program Origin = iota
	// Debugger means phase 2 is running on behalf of a debug instruction:
	// the argument is already sitting in Cache.WR.
	Debugger
)

// Phase1 fetches the next opcode byte and advances PC, per spec ss4.3.
// No other state changes.
func (c *Computer) Phase1() {
	c.ALU.Opcode = Opcode(c.ReadByte(c.CU.PC))
	c.CU.PC++
}

// Phase2 decodes and executes the opcode latched by Phase1 (or, when
// origin is Debugger, the debug opcode placed directly into ALU.Opcode by
// the debugger's own read). It returns true if phase 3 (PC advance) should
// run, false if the instruction already repositioned PC itself.
func (c *Computer) Phase2(origin Origin) (bool, error) {
	opcode := c.ALU.Opcode
	operation := opcode.Operation()
	indirection := opcode.Indirection()

	if origin == Program {
		c.Cache.SR = c.CU.PC
	} else {
		c.Cache.SR = c.Cache.WR
	}

	// Indirection is cumulative fallthrough: 0, 1, or 2 extra dereferences
	// depending on which of VAR/PTR is set, never separate branches (spec
	// Design Notes).
	steps := 0
	switch indirection {
	case VAR:
		steps = 1
	case VAR | PTR:
		steps = 2
	}
	for i := 0; i < steps; i++ {
		c.Cache.SR = c.ReadByte(c.Cache.SR)
	}
	c.Cache.WR = c.ReadByte(c.Cache.SR)

	switch operation {
	case LOAD:
		c.ALU.Acc = c.Cache.WR
	case STORE:
		if err := c.WriteByte(c.Cache.SR, c.ALU.Acc); err != nil {
			return false, err
		}
	case IN:
		v, err := c.Bus.Read()
		if err != nil {
			return false, err
		}
		if err := c.WriteByte(c.Cache.SR, v); err != nil {
			return false, err
		}
	case OUT:
		c.Cache.WR = c.ReadByte(c.Cache.SR)
		c.Bus.Write(c.Cache.WR)
	case JUMP:
		c.CU.PC = c.Cache.WR
		return false, nil
	case BRN:
		if c.ALU.Acc&0x80 != 0 {
			c.CU.PC = c.Cache.WR
			return false, nil
		}
	case BRZ:
		if c.ALU.Acc == 0 {
			c.CU.PC = c.Cache.WR
			return false, nil
		}
	case ADD, SUB, NAND:
		// ALU.Opcode is latched for introspection (DumpState), but calc takes
		// the operation explicitly -- see the "two variants of calc" open
		// question in the spec's Design Notes.
		c.ALU.Opcode = operation
		c.calc(operation)
	case HLT:
		c.Running = false
		return false, nil
	default:
		if operation.IsDebug() {
			return c.execDebugInstruction(operation, origin)
		}
	}

	return true, nil
}

// Phase3 advances PC over the argument byte just consumed, per spec ss4.3.
func (c *Computer) Phase3() {
	c.CU.PC++
}

// calc performs the arithmetic/logical op against Cache.WR, per spec
// ss4.3. ADD and SUB are modular 8-bit; NAND produces 0 or 1 (logical, not
// bitwise). op is passed explicitly rather than read back from a latched
// field, per the spec's Design Notes open question on the two historical
// variants of calc.
func (c *Computer) calc(op Opcode) {
	switch op {
	case ADD:
		c.ALU.Acc += c.Cache.WR
	case SUB:
		c.ALU.Acc -= c.Cache.WR
	case NAND:
		if c.ALU.Acc != 0 && c.Cache.WR != 0 {
			c.ALU.Acc = 0
		} else {
			c.ALU.Acc = 1
		}
	}
}
