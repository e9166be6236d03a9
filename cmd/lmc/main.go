// Command lmc is the CLI front-end for the Little Man Computer emulator:
// it runs compiled programs (interactively if none are named), compiles
// mnemonic source, and can engage the interactive debugger. See spec ss6.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/amartos/lmc"
	"gopkg.in/urfave/cli.v2"
)

func main() {
	app := &cli.App{
		Name:    "lmc",
		Usage:   "Little Man Computer emulator, compiler, and debugger",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "engage the interactive debugger from the first cycle",
			},
			&cli.StringFlag{
				Name:    "bootstrap",
				Aliases: []string{"b"},
				Usage:   "load a custom compiled bootstrap instead of the default",
			},
			&cli.StringFlag{
				Name:    "compile",
				Aliases: []string{"c"},
				Usage:   "compile source instead of running a program",
			},
			&cli.StringFlag{
				Name:  "dest",
				Usage: "destination path for -c (default lmc.out)",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if source := c.String("compile"); source != "" {
		if err := lmc.CompileFile(source, c.String("dest"), os.Stdout); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}

	args := c.Args()
	if args.Len() == 0 {
		return runOne(c, "")
	}
	for i := 0; i < args.Len(); i++ {
		if err := runOne(c, args.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

func runOne(c *cli.Context, programPath string) error {
	word, status, err := lmc.Run(lmc.RunOptions{
		BootstrapPath: c.String("bootstrap"),
		ProgramPath:   programPath,
		Interactive:   os.Stdin,
		Output:        os.Stdout,
		Debug:         c.Bool("debug"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return cli.Exit("", exitCodeFor(status))
	}
	return cli.Exit("", int(word)&0xff)
}

// exitCodeFor maps a non-nil-error Status to the CLI's non-zero exit
// family, per spec ss6's "distinct non-zero on compile or load errors".
func exitCodeFor(status lmc.Status) int {
	switch status {
	case lmc.StatusFault:
		return 1
	case lmc.StatusEOF:
		return 1
	default:
		return 2
	}
}
