// Package term runs the VM inside a terminal. The display is drawn with half
// block characters and keys are read from stdin in raw mode.
package term

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/pkg/frontend"
	"github.com/retroenv/retrogolib/log"
)

// Terminals only report key presses, a pressed key is held down for this many frames.
const holdFrames = 6

const (
	escape     = 0x1B
	clearHome  = "\x1b[2J\x1b[H"
	cursorHome = "\x1b[H"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// Terminal is the input/output layer for running the VM in a terminal.
type Terminal struct {
	in     *os.File
	out    io.Writer
	vm     *internal.C8VM
	cfg    frontend.Config
	logger *log.Logger

	held [internal.NumKeys]int // remaining frames each key stays pressed
}

// New returns a terminal frontend reading keys from in and drawing to out.
func New(in *os.File, out io.Writer, vm *internal.C8VM, cfg frontend.Config, logger *log.Logger) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		vm:     vm,
		cfg:    cfg,
		logger: logger,
	}
}

// Loop switches the terminal to raw mode and runs the VM until escape is
// pressed, the context is cancelled or the VM fails.
func (t *Terminal) Loop(ctx context.Context) error {
	fd := int(t.in.Fd())
	restore, err := enterRawMode(fd)
	if err != nil {
		return fmt.Errorf("entering raw terminal mode: %w", err)
	}
	defer func() {
		fmt.Fprint(t.out, showCursor)
		if err := restore(); err != nil {
			t.logger.Error("Restoring terminal failed", log.Err(err))
		}
	}()

	fmt.Fprint(t.out, hideCursor+clearHome)
	ticker := time.NewTicker(time.Second / frontend.FramesPerSecond)
	defer ticker.Stop()

	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		n, err := t.in.Read(buf)
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading keys: %w", err)
		}
		if !t.feedKeys(buf[:n]) {
			return nil
		}

		if err := frontend.RunFrame(ctx, t.vm, t.cfg, t.logger); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if t.vm.IsClearFlagSet() || t.vm.IsDrawFlagSet() {
			fmt.Fprint(t.out, cursorHome+Render(t.vm.Pixels()))
			t.vm.UnsetClearFlag()
			t.vm.UnsetDrawFlag()
		}
	}
}

// feedKeys updates the keypad from the bytes typed since the last frame and
// returns false once escape was typed.
func (t *Terminal) feedKeys(typed []byte) bool {
	for _, b := range typed {
		if b == escape {
			return false
		}
		if code, ok := frontend.KeyFromQWERTY(rune(b)); ok {
			t.held[code] = holdFrames
		}
	}

	var pressed [internal.NumKeys]bool
	for code := range t.held {
		if t.held[code] > 0 {
			pressed[code] = true
			t.held[code]--
		}
	}
	t.vm.SetKeys(pressed)
	return true
}

// Render draws the display as text, every character cell holds two pixel rows.
func Render(pixels [internal.ScreenWidth][internal.ScreenHeight]byte) string {
	var sb strings.Builder
	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := 0; x < internal.ScreenWidth; x++ {
			top, bottom := pixels[x][y] == 1, pixels[x][y+1] == 1
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
