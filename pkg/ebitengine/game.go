// Package ebitengine renders the VM display with Ebitengine and feeds its keyboard
// state into the VM keypad.
package ebitengine

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/pkg/frontend"
	"github.com/retroenv/retrogolib/log"
)

// qwertyEbitenKeys maps the keyboard characters used by the keypad layout to
// Ebitengine keys.
var qwertyEbitenKeys = map[rune]ebiten.Key{
	'1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4,
	'q': ebiten.KeyQ, 'w': ebiten.KeyW, 'e': ebiten.KeyE, 'r': ebiten.KeyR,
	'a': ebiten.KeyA, 's': ebiten.KeyS, 'd': ebiten.KeyD, 'f': ebiten.KeyF,
	'z': ebiten.KeyZ, 'x': ebiten.KeyX, 'c': ebiten.KeyC, 'v': ebiten.KeyV,
}

// keypadKeys holds the Ebitengine key for every keypad code, in keypad order.
var keypadKeys = buildKeypadKeys()

func buildKeypadKeys() [internal.NumKeys]ebiten.Key {
	var keys [internal.NumKeys]ebiten.Key
	for code, r := range frontend.QWERTYKeys() {
		keys[code] = qwertyEbitenKeys[r]
	}
	return keys
}

// Game implements ebiten.Game for the CHIP-8 VM.
type Game struct {
	ctx    context.Context
	vm     *internal.C8VM
	cfg    frontend.Config
	logger *log.Logger

	frame []byte // RGBA pixels of the 64x32 display
	err   error
}

// NewGame returns a game driving vm with the given frontend configuration.
func NewGame(ctx context.Context, vm *internal.C8VM, cfg frontend.Config, logger *log.Logger) *Game {
	g := &Game{
		ctx:    ctx,
		vm:     vm,
		cfg:    cfg,
		logger: logger,
		frame:  make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
	}
	g.fill()
	return g
}

// Run opens the window and blocks until it is closed, the context is
// cancelled or the VM fails.
func Run(ctx context.Context, vm *internal.C8VM, cfg frontend.Config, logger *log.Logger) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(internal.ScreenWidth*cfg.Scale, internal.ScreenHeight*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(frontend.FramesPerSecond)

	g := NewGame(ctx, vm, cfg, logger)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.err
}

// Update runs one frame of emulation.
func (g *Game) Update() error {
	var pressed [internal.NumKeys]bool
	for code, key := range keypadKeys {
		pressed[code] = ebiten.IsKeyPressed(key)
	}
	g.vm.SetKeys(pressed)

	if err := frontend.RunFrame(g.ctx, g.vm, g.cfg, g.logger); err != nil {
		if !errors.Is(err, context.Canceled) {
			g.err = err
		}
		return ebiten.Termination
	}

	if g.vm.IsClearFlagSet() || g.vm.IsDrawFlagSet() {
		g.fill()
		g.vm.UnsetClearFlag()
		g.vm.UnsetDrawFlag()
	}
	return nil
}

// Draw copies the last rendered display into the screen image.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.frame)
}

// Layout keeps the logical screen at the CHIP-8 resolution, Ebitengine scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth, internal.ScreenHeight
}

// fill converts the VM display into RGBA pixels.
func (g *Game) fill() {
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			color := uint32(frontend.ScreenColor)
			if g.vm.Pixel(x, y) {
				color = frontend.SpriteColor
			}
			i := (y*internal.ScreenWidth + x) * 4
			g.frame[i] = byte(color >> 16)
			g.frame[i+1] = byte(color >> 8)
			g.frame[i+2] = byte(color)
			g.frame[i+3] = 0xFF
		}
	}
}
