package lmc

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultEntryAddr is the entry address a compiled program gets when its
// source never issues a 'start' directive: the first free RAM cell right
// after the ROM prefix (spec ss4.2).
const DefaultEntryAddr byte = MaxROM + 1

// MaxInstructionBytes is the largest instruction-byte body a compiled
// program may carry; its length is reported in a single header byte and
// must stay even (spec ss4.2, ss8 invariant 1).
const MaxInstructionBytes = 254

// DefaultOutputPath is where Compile results land when the caller supplies
// no destination, or the same path as the source (spec ss4.2).
const DefaultOutputPath = "lmc.out"

// Writer owns a compiled program's output buffer and header invariants.
// The parser drives it through a stream of (opcode, argument) pairs and
// entry-address directives rather than building the byte array itself --
// see the spec's Design Notes on "callback passing in the compiler".
type Writer interface {
	// Append emits one (opcode, argument) pair, returning ErrArrayFull once
	// the instruction body would exceed MaxInstructionBytes.
	Append(op Opcode, arg byte) error
	// SetEntryAbsolute sets the program's entry address to v.
	SetEntryAbsolute(v byte)
	// SetEntryRelative adjusts the entry address by v from its default.
	SetEntryRelative(v byte)
}

// Program is the concrete Writer: it accumulates instruction bytes and
// renders the final [entry_addr, size, instruction_bytes...] layout (spec
// ss6).
type Program struct {
	entry byte
	body  []byte
}

// NewProgram returns a Program whose entry address is the default until a
// 'start' directive overrides it.
func NewProgram() *Program {
	return &Program{entry: DefaultEntryAddr}
}

// Append implements Writer.
func (p *Program) Append(op Opcode, arg byte) error {
	if len(p.body)+2 > MaxInstructionBytes {
		return ErrArrayFull
	}
	p.body = append(p.body, byte(op), arg)
	return nil
}

// SetEntryAbsolute implements Writer.
func (p *Program) SetEntryAbsolute(v byte) { p.entry = v }

// SetEntryRelative implements Writer.
func (p *Program) SetEntryRelative(v byte) { p.entry = DefaultEntryAddr + v }

// Bytes renders the compiled file format: entry address, size, then the
// instruction bytes in emission order.
func (p *Program) Bytes() []byte {
	out := make([]byte, 0, 2+len(p.body))
	out = append(out, p.entry, byte(len(p.body)))
	out = append(out, p.body...)
	return out
}

// Compile translates source text into the compiled program byte format.
// sourceName is used only to annotate syntax-error positions (spec ss7);
// it need not be a real file path.
func Compile(source, sourceName string) ([]byte, error) {
	p := NewProgram()
	if err := parseProgram(tokenize(source), p, sourceName); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// parseProgram drives w through the token stream per the grammar in spec
// ss4.2:
//
//	program   := line* EOF
//	line      := 'start' (hex | '@' hex)
//	           | mnemonic [addr_mode] hex
//	           | hex hex
//	addr_mode := '@' | '*@' | '*'
//
// Resolution of an ambiguity in spec ss4.2's prose: the worked example in
// ss8 (scenario S5, "start 0f" compiling to entry byte 0x0f) only holds if
// bare 'start V' sets the entry address absolutely and 'start @ V' is the
// relative form -- the reverse of the prose's "V -> entry_addr += V"
// wording. This function follows the example; see DESIGN.md.
func parseProgram(tokens []token, w Writer, sourceName string) error {
	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		if strings.EqualFold(tok.text, "start") {
			i++
			if i >= len(tokens) {
				return &SyntaxError{Source: sourceName, Line: tok.line, Token: tok.text}
			}
			relative := tokens[i].text == "@"
			if relative {
				i++
				if i >= len(tokens) {
					return &SyntaxError{Source: sourceName, Line: tok.line, Token: "@"}
				}
			}
			v, err := parseHexToken(tokens[i].text)
			if err != nil {
				return &SyntaxError{Source: sourceName, Line: tokens[i].line, Token: tokens[i].text}
			}
			i++
			if relative {
				w.SetEntryRelative(v)
			} else {
				w.SetEntryAbsolute(v)
			}
			continue
		}

		if op, ok := opcodeByKeyword[asciiLower(tok.text)]; ok {
			i++
			indirection := Opcode(0)
			if i < len(tokens) && isAddrMode(tokens[i].text) {
				indirection = addrModeIndirection(tokens[i].text)
				i++
			}
			if i >= len(tokens) {
				return &SyntaxError{Source: sourceName, Line: tok.line, Token: tok.text}
			}
			arg, err := parseHexToken(tokens[i].text)
			if err != nil {
				return &SyntaxError{Source: sourceName, Line: tokens[i].line, Token: tokens[i].text}
			}
			i++
			if err := w.Append(op|indirection, arg); err != nil {
				return err
			}
			continue
		}

		// Neither 'start' nor a known mnemonic: fall through to the raw
		// "hex hex" production.
		opv, err := parseHexToken(tok.text)
		if err != nil {
			return &SyntaxError{Source: sourceName, Line: tok.line, Token: tok.text}
		}
		i++
		if i >= len(tokens) {
			return &SyntaxError{Source: sourceName, Line: tok.line, Token: tok.text}
		}
		argv, err := parseHexToken(tokens[i].text)
		if err != nil {
			return &SyntaxError{Source: sourceName, Line: tokens[i].line, Token: tokens[i].text}
		}
		i++
		if err := w.Append(Opcode(opv), argv); err != nil {
			return err
		}
	}
	return nil
}

// CompileFile reads source from sourcePath, compiles it, and writes the
// result to dest (or DefaultOutputPath if dest is empty or equal to
// sourcePath), per spec ss4.2's destination-resolution rule. On success it
// writes a one-line confirmation notice to notice.
func CompileFile(sourcePath, dest string, notice io.Writer) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}

	out, err := Compile(string(data), sourcePath)
	if err != nil {
		return err
	}

	if dest == "" || dest == sourcePath {
		dest = DefaultOutputPath
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(notice, "wrote %d bytes to %s\n", len(out), dest)
	return nil
}
