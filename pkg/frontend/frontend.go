// Package frontend holds what the SDL, ebiten and terminal frontends share:
// the per-frame stepping policy and the keyboard to keypad mapping.
package frontend

import (
	"context"
	"errors"
	"fmt"

	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/log"
)

// Defaults for Config.
const (
	DefaultScale          = 20
	DefaultCyclesPerFrame = 1
	FramesPerSecond       = 60

	ScreenColor = 0x1A237E
	SpriteColor = 0x9FA8DA
)

// ErrHalted is returned by RunFrame when the VM hit an unknown opcode and the
// configuration asks to stop on it.
var ErrHalted = errors.New("emulation halted")

// Config controls how a frontend drives the VM.
type Config struct {
	Title          string
	Scale          int  // size of one CHIP-8 pixel in screen pixels
	CyclesPerFrame int  // Step calls per 60Hz frame
	HaltOnUnknown  bool // stop when an unknown opcode is executed
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Title:          "Chopper | CHIP-8 Emulator",
		Scale:          DefaultScale,
		CyclesPerFrame: DefaultCyclesPerFrame,
	}
}

// RunFrame steps the VM for one frame worth of cycles.
// The VM does not move past an unknown opcode, so without HaltOnUnknown it is
// executed again every frame and only ends the frame early. Stack errors always
// stop the emulation.
func RunFrame(ctx context.Context, vm *internal.C8VM, cfg Config, logger *log.Logger) error {
	cycles := cfg.CyclesPerFrame
	if cycles < 1 {
		cycles = 1
	}

	for i := 0; i < cycles; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := vm.Step()
		vm.UnsetBeepFlag()
		if err == nil {
			continue
		}

		var unknown *internal.UnknownOpcodeError
		if errors.As(err, &unknown) {
			if cfg.HaltOnUnknown {
				logger.Info("Halting emulation", log.Hex("opcode", unknown.Opcode), log.Hex("pc", unknown.PC))
				return fmt.Errorf("%w: %v", ErrHalted, err)
			}
			return nil
		}
		return fmt.Errorf("executing instruction: %w", err)
	}
	return nil
}
