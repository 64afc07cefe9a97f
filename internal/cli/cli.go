// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mnafees/chopper/internal/options"
	"github.com/mnafees/chopper/pkg/frontend"
)

// ParseFlags parses the command line arguments, args[0] being the program name.
func ParseFlags(args []string, output io.Writer) (options.Program, error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(output)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(args[1:])
	rest := flags.Args()
	if err != nil || len(rest) != 1 {
		return opts, &UsageError{flags: flags, output: output}
	}
	opts.Input = rest[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags  *flag.FlagSet
	output io.Writer
	msg    string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "invalid usage"
	}
	return e.msg
}

// ShowUsage prints the usage text including all flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Fprintf(e.output, "usage: chopper [options] <CHIP-8 program>\n\n")
	e.flags.PrintDefaults()
	fmt.Fprintln(e.output)
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Backend = strings.ToLower(opts.Backend)

	valid := false
	for _, backend := range options.Backends {
		if opts.Backend == backend {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported backend: %s. Valid options: %s",
			opts.Backend, strings.Join(options.Backends, ", "))
	}

	if opts.Scale < 1 {
		return fmt.Errorf("invalid scale %d, must be at least 1", opts.Scale)
	}
	if opts.CyclesPerFrame < 1 {
		return fmt.Errorf("invalid cycles per frame %d, must be at least 1", opts.CyclesPerFrame)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Backend, "backend", options.BackendSDL, "frontend to use (sdl/ebiten/term)")
	flags.IntVar(&opts.Scale, "scale", frontend.DefaultScale, "size of a CHIP-8 pixel in screen pixels")
	flags.IntVar(&opts.CyclesPerFrame, "cycles", frontend.DefaultCyclesPerFrame, "instructions executed per 60Hz frame, timers tick once per instruction")
	flags.BoolVar(&opts.HaltOnUnknown, "halt", false, "stop emulation on an unknown opcode instead of stalling on it")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a listing of the program and exit")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

// FrontendConfig converts the program options to the frontend configuration.
func FrontendConfig(opts options.Program) frontend.Config {
	cfg := frontend.DefaultConfig()
	cfg.Scale = opts.Scale
	cfg.CyclesPerFrame = opts.CyclesPerFrame
	cfg.HaltOnUnknown = opts.HaltOnUnknown
	return cfg
}
