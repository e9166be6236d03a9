package lmc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// defaultPrompt is emitted whenever the bus requests interactive input,
// per spec ss6's interactive protocol.
const defaultPrompt = "? >"

// BusInput is a polymorphic input source. bus_input() in the spec
// internally replaces its source on file-EOF with the interactive source;
// this interface makes that reset an explicit operation rather than a
// hidden state flip, per the Design Notes.
type BusInput interface {
	// ReadRawByte reads exactly one raw byte (the file-source policy).
	ReadRawByte() (byte, error)
	// ReadHexToken reads one whitespace-delimited 1-2 digit hex token,
	// prompting with prompt first (the interactive-source policy).
	ReadHexToken(out io.Writer, prompt string) (byte, error)
}

// fileInput reads raw bytes from a program-supplied input file until EOF.
type fileInput struct {
	r *bufio.Reader
}

func (f *fileInput) ReadRawByte() (byte, error) {
	return f.r.ReadByte()
}

func (f *fileInput) ReadHexToken(io.Writer, string) (byte, error) {
	return 0, io.EOF
}

// interactiveInput reads whitespace-delimited hex tokens from an operator.
type interactiveInput struct {
	r *bufio.Reader
}

func (i *interactiveInput) ReadRawByte() (byte, error) {
	return 0, io.EOF
}

// ReadHexToken emits prompt, reads one whitespace-delimited token, and
// parses it as a 1-2 digit hex value. On a bad token it reports the
// failure and retries (single retry at minimum), per spec ss4.3.
func (i *interactiveInput) ReadHexToken(out io.Writer, prompt string) (byte, error) {
	for {
		fmt.Fprint(out, prompt)
		tok, err := i.nextToken()
		if err != nil {
			return 0, err
		}
		v, perr := parseHexToken(tok)
		if perr != nil {
			fmt.Fprintln(out, perr.Error())
			continue
		}
		return v, nil
	}
}

func (i *interactiveInput) nextToken() (string, error) {
	var b strings.Builder
	for {
		r, _, err := i.r.ReadRune()
		if err != nil {
			if b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if b.Len() > 0 {
				return b.String(), nil
			}
			continue
		}
		b.WriteRune(r)
	}
}

// parseHexToken validates and parses a 1-2 digit hex literal.
func parseHexToken(tok string) (byte, error) {
	if len(tok) == 0 || len(tok) > 2 {
		return 0, &BadHexLiteralError{Token: tok}
	}
	v, err := strconv.ParseUint(tok, 16, 16)
	if err != nil || v > 0xFF {
		return 0, &BadHexLiteralError{Token: tok}
	}
	return byte(v), nil
}

// Bus is the machine's I/O boundary (spec ss3): a single Word-wide buffer
// fed by a switchable input source and drained to an output sink.
type Bus struct {
	file        BusInput // nil once exhausted or never configured
	interactive BusInput
	Output      io.Writer
	Prompt      string
	Buffer      byte
}

// NewBus wires an interactive source (required) and an optional file
// source over program-supplied input bytes.
func NewBus(interactive io.Reader, file io.Reader, output io.Writer) *Bus {
	b := &Bus{
		interactive: &interactiveInput{r: bufio.NewReader(interactive)},
		Output:      output,
		Prompt:      defaultPrompt,
	}
	if file != nil {
		b.file = &fileInput{r: bufio.NewReader(file)}
	}
	return b
}

// Read implements the bus input policy of spec ss4.3: if a file source is
// still active, read one raw byte from it; on EOF or absence, reset to the
// interactive source and prompt for a hex token. EOF on the interactive
// source is reported as ErrInteractiveEOF so the caller can halt the machine.
func (b *Bus) Read() (byte, error) {
	if b.file != nil {
		v, err := b.file.ReadRawByte()
		if err == nil {
			b.Buffer = v
			return v, nil
		}
		// File exhausted or errored: fall back to interactive permanently.
		b.file = nil
	}

	v, err := b.interactive.ReadHexToken(b.Output, b.Prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrInteractiveEOF
		}
		return 0, err
	}
	b.Buffer = v
	return v, nil
}

// Write formats v as zero-padded two-digit lowercase hex and writes it to
// the output sink with no separator, per spec ss4.3.
func (b *Bus) Write(v byte) {
	fmt.Fprintf(b.Output, "%02x", v)
}
