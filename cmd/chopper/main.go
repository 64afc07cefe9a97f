package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/internal/options"
	"github.com/mnafees/chopper/pkg/ebitengine"
	"github.com/mnafees/chopper/pkg/sdl"
	"github.com/mnafees/chopper/pkg/term"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	opts, err := cli.ParseFlags(os.Args, os.Stderr)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	if opts.Disasm {
		for _, line := range internal.Disassemble(data, 0x200) {
			fmt.Println(line)
		}
		return
	}

	vm, err := internal.NewC8VM(logger)
	if err != nil {
		logger.Fatal("Creating VM failed", log.Err(err))
	}
	if err := vm.LoadProgram(data); err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}
	logger.Info("Running CHIP-8 program",
		log.String("file", opts.Input),
		log.String("backend", opts.Backend))

	ctx := app.Context()
	if err := run(ctx, vm, opts, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func run(ctx context.Context, vm *internal.C8VM, opts options.Program, logger *log.Logger) error {
	cfg := cli.FrontendConfig(opts)

	switch opts.Backend {
	case options.BackendEbiten:
		return ebitengine.Run(ctx, vm, cfg, logger)

	case options.BackendTerminal:
		return term.New(os.Stdin, os.Stdout, vm, cfg, logger).Loop(ctx)

	default:
		io := sdl.NewIO(vm, cfg, logger)
		if err := io.SetupWindow(); err != nil {
			return err
		}
		defer io.Destroy()
		return io.Loop(ctx)
	}
}
