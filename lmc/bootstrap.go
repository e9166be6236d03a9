package lmc

// LoadBootstrap installs a compiled bootstrap program into memory[0:0x20].
// The file format matches any other compiled program (spec ss6): a 1-byte
// entry-address header (ignored -- the bootstrap always starts running at
// address 0x00), a 1-byte size, then the instruction bytes themselves.
//
// A size of 0 triggers a fallback to DefaultBootstrap rather than loading
// an empty program, per spec ss4.3.
func (c *Computer) LoadBootstrap(data []byte) error {
	if len(data) < 2 {
		return ErrBootstrapMissingSize
	}
	size := int(data[1])
	body := data[2:]

	if size == 0 {
		body = DefaultBootstrap()
		size = len(body)
	}
	if size > ROMSize {
		return ErrBootstrapTooLarge
	}
	if len(body) < size {
		return ErrBootstrapSizeMismatch
	}

	copy(c.Memory[0:size], body[:size])
	return nil
}

// LoadDefaultBootstrap installs the built-in bootstrap directly, bypassing
// the file-header parsing in LoadBootstrap.
func (c *Computer) LoadDefaultBootstrap() {
	body := DefaultBootstrap()
	copy(c.Memory[0:len(body)], body)
}

// bootstrapEntry is the fixed address, within the ROM prefix, of the JUMP
// slot a bootstrap can end on to hand control to the loaded program. Its
// argument byte (bootstrapEntry+1 == MaxROM) is where the loader writes a
// program file's entry address before starting the run loop.
// DefaultBootstrap keeps this JUMP in place but hands off through its own
// saved copy of the entry address instead.
const bootstrapEntry = 0x1E

// DefaultBootstrap returns the built-in bootstrap program: it reads a
// 2-byte program header (entry address, size) from the bus, then copies
// `size` further bytes from the bus into RAM starting at the entry
// address, advancing a write pointer and decrementing a counter each
// iteration, and then jumps to the entry address it saved in its scratch
// cell. Because that handoff does not read memory[0x1F], it works the same
// whether the program comes from a file or is typed in over the
// interactive bus.
//
// This reconstructs the behavior spec.md ss4.3 describes in prose; the
// exact instruction listing there double-counts one pair and omits the
// store that advances the write pointer (see DESIGN.md's Open Questions
// entry for the "default bootstrap" resolution). The external contract
// -- 32 bytes total, memory[0x1E] == JUMP, memory[0x1F] reserved for the
// entry address -- is preserved exactly.
//
// Scratch cells live at the very top of RAM rather than right after the
// ROM prefix: the default entry address is 0x20, the first free RAM
// cell, so scratch storage placed there would get clobbered by the
// program's own first copied bytes mid-loop.
func DefaultBootstrap() []byte {
	type pair struct {
		op  Opcode
		arg byte
	}
	const (
		scratchEntry byte = 0xFD
		writePtr     byte = 0xFE
		remaining    byte = 0xFF
	)
	program := []pair{
		{IN | VAR, scratchEntry},    // 0x00: mem[0xFD] = header byte 0 (entry addr)
		{IN | VAR, remaining},       // 0x02: mem[0xFF] = header byte 1 (size)
		{LOAD | VAR, scratchEntry},  // 0x04: acc = entry addr
		{STORE | VAR, writePtr},     // 0x06: mem[0xFE] = entry addr (init write pointer)
		{LOAD | VAR, remaining},     // 0x08: loop: acc = remaining
		{BRZ | VAR, scratchEntry},   // 0x0A: if remaining == 0, jump to the saved entry addr
		{IN | VAR | PTR, writePtr},  // 0x0C: *mem[0xFE] = next byte from bus
		{LOAD | VAR, writePtr},      // 0x0E: acc = write pointer
		{ADD, 0x01},                 // 0x10: acc = pointer + 1
		{STORE | VAR, writePtr},     // 0x12: mem[0xFE] = pointer + 1
		{LOAD | VAR, remaining},     // 0x14: acc = remaining
		{SUB, 0x01},                 // 0x16: acc = remaining - 1
		{STORE | VAR, remaining},    // 0x18: mem[0xFF] = remaining - 1
		{JUMP, 0x08},                // 0x1A: back to loop
	}

	out := make([]byte, ROMSize)
	for i, p := range program {
		out[2*i] = byte(p.op)
		out[2*i+1] = p.arg
	}
	// out[0x1C], out[0x1D] remain zero padding.
	out[bootstrapEntry] = byte(JUMP)
	// out[MaxROM] (0x1F) is left zero; when running a program file, the
	// loader overwrites it with the program's entry address before the run
	// loop starts.
	return out
}
