package lmc

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// RunOptions configures a single machine run, covering the external CLI
// surface described in spec ss6 (files, -d, -b).
type RunOptions struct {
	BootstrapPath string    // empty selects DefaultBootstrap
	ProgramPath   string    // compiled program file to execute
	Interactive   io.Reader // operator input; required
	Output        io.Writer // bus output and prompts land here
	Debug         bool      // engage the debugger from the first cycle
}

// Run wires a fresh Computer per opts and drives it to completion,
// implementing the control flow from spec ss2:
//
//	run(bootstrap_path, program_path) -> load_bootstrap -> open_input ->
//	loop { debugger_step; phase1; phase2 ? phase3 : skip } -> word_register
func Run(opts RunOptions) (byte, Status, error) {
	// A program file is optional: with none given, the default bootstrap
	// reads its header and body interactively instead (spec ss6: "lmc
	// [files...] -- ... interactive if none given").
	var programFile *os.File
	var headerByte byte

	if opts.ProgramPath != "" {
		f, err := os.Open(opts.ProgramPath)
		if err != nil {
			return 0, StatusError, err
		}
		defer f.Close()

		header := make([]byte, 2)
		if _, err := io.ReadFull(f, header); err != nil {
			return 0, StatusError, fmt.Errorf("reading program header: %w", err)
		}
		// Rewind: the host only peeks at the entry-address byte here. The
		// bootstrap's own IN instructions consume the full file --
		// including this same header -- from the bus.
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return 0, StatusError, err
		}
		programFile = f
		headerByte = header[0]
	}

	var fileReader io.Reader
	if programFile != nil {
		fileReader = programFile
	}
	bus := NewBus(opts.Interactive, fileReader, opts.Output)
	c := NewComputer(bus)

	if err := c.installBootstrap(opts.BootstrapPath); err != nil {
		return 0, StatusError, err
	}
	if programFile != nil {
		// The loader writes the program's entry-address header byte into
		// the last ROM cell after the bootstrap is installed but before
		// execution begins (spec Design Notes): a bootstrap ending on the
		// JUMP at 0x1E consumes this byte as its jump target (the default
		// bootstrap jumps through its own saved copy instead). This is a direct
		// poke, not a WriteByte call -- ROM protection guards runtime
		// STORE/IN, not the loader's own staging.
		c.Memory[MaxROM] = headerByte
	}

	if opts.Debug {
		c.Debug.Opcode = DEBUG
	}

	return c.RunLoop()
}

func (c *Computer) installBootstrap(path string) error {
	if path == "" {
		c.LoadDefaultBootstrap()
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.LoadBootstrap(data)
}

// RunLoop drives the fetch/decode/execute cycle, interposing debuggerStep
// before every phase 1, until the machine stops running or an error
// surfaces. It returns the final word register (Cache.WR) -- the glossary's
// "wr" -- alongside a Status classifying how execution ended.
func (c *Computer) RunLoop() (byte, Status, error) {
	for c.Running {
		if err := c.debuggerStep(); err != nil {
			return c.Cache.WR, classifyStatus(err), err
		}
		if !c.Running {
			break
		}

		c.Phase1()
		proceed, err := c.Phase2(Program)
		if err != nil {
			return c.Cache.WR, classifyStatus(err), err
		}
		if proceed {
			c.Phase3()
		}
	}
	return c.Cache.WR, StatusOK, nil
}

// classifyStatus maps an error surfaced mid-run to the Status a caller
// should report, per spec ss7's error-kind list.
func classifyStatus(err error) Status {
	switch {
	case errors.Is(err, ErrROMWrite):
		return StatusFault
	case errors.Is(err, ErrInteractiveEOF):
		return StatusEOF
	default:
		return StatusError
	}
}
