package sdl

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/pkg/frontend"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface

	vm     *internal.C8VM
	cfg    frontend.Config
	logger *log.Logger

	prevTime time.Time // Time the last frame was run
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(vm *internal.C8VM, cfg frontend.Config, logger *log.Logger) *IO {
	return &IO{
		vm:     vm,
		cfg:    cfg,
		logger: logger,
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow() error {
	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	scale := int32(io.cfg.Scale)
	window, err := sdl.CreateWindow(io.cfg.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*scale, internal.ScreenHeight*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return fmt.Errorf("getting window surface: %w", err)
	}
	return io.surface.FillRect(nil, frontend.ScreenColor)
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// Loop is the main application loop, it returns when the window is closed,
// the context is cancelled or the VM fails.
func (io *IO) Loop(ctx context.Context) error {
	io.prevTime = time.Now()
	frame := time.Duration(internal.TimerFrequency * float64(time.Millisecond))

	for {
		if !io.pollEvents() {
			return nil
		}

		if time.Since(io.prevTime) < frame {
			sdl.Delay(1)
			continue
		}
		io.prevTime = time.Now()

		if err := frontend.RunFrame(ctx, io.vm, io.cfg, io.logger); err != nil {
			return err
		}

		if io.vm.IsClearFlagSet() || io.vm.IsDrawFlagSet() {
			if err := io.draw(); err != nil {
				return err
			}
		}
	}
}

// pollEvents feeds keyboard state into the VM and reports whether to keep running.
func (io *IO) pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			keycode := t.Keysym.Scancode
			switch t.GetType() {
			case sdl.KEYDOWN:
				io.setKeymask(keycode)
			case sdl.KEYUP:
				io.unsetKeymask(keycode)
			}
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

// Draws the current sprite configuration on screen
func (io *IO) draw() error {
	if err := io.surface.FillRect(nil, frontend.ScreenColor); err != nil {
		return err
	}
	scale := int32(io.cfg.Scale)
	pixels := io.vm.Pixels()
	for w := int32(0); w < internal.ScreenWidth; w++ {
		for h := int32(0); h < internal.ScreenHeight; h++ {
			if pixels[w][h] == 1 {
				rect := &sdl.Rect{X: w * scale, Y: h * scale, W: scale, H: scale}
				if err := io.surface.FillRect(rect, frontend.SpriteColor); err != nil {
					return err
				}
			}
		}
	}
	io.vm.UnsetClearFlag()
	io.vm.UnsetDrawFlag()
	return io.window.UpdateSurface()
}

var scancodeRunes = map[sdl.Scancode]rune{
	sdl.SCANCODE_1: '1', sdl.SCANCODE_2: '2', sdl.SCANCODE_3: '3', sdl.SCANCODE_4: '4',
	sdl.SCANCODE_Q: 'q', sdl.SCANCODE_W: 'w', sdl.SCANCODE_E: 'e', sdl.SCANCODE_R: 'r',
	sdl.SCANCODE_A: 'a', sdl.SCANCODE_S: 's', sdl.SCANCODE_D: 'd', sdl.SCANCODE_F: 'f',
	sdl.SCANCODE_Z: 'z', sdl.SCANCODE_X: 'x', sdl.SCANCODE_C: 'c', sdl.SCANCODE_V: 'v',
}

func (io *IO) keymap(code sdl.Scancode) (uint8, bool) {
	r, ok := scancodeRunes[code]
	if !ok {
		return 0, false
	}
	return frontend.KeyFromQWERTY(r)
}

func (io *IO) setKeymask(keycode sdl.Scancode) {
	if code, ok := io.keymap(keycode); ok {
		io.vm.SetKeymask(code)
	}
}

func (io *IO) unsetKeymask(keycode sdl.Scancode) {
	if code, ok := io.keymap(keycode); ok {
		io.vm.UnsetKeymask(code)
	}
}
