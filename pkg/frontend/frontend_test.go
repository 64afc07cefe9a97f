package frontend

import (
	"context"
	"errors"
	"testing"

	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newVM(t *testing.T, program ...byte) (*internal.C8VM, *log.Logger) {
	t.Helper()
	logger := log.NewTestLogger(t)
	vm, err := internal.NewC8VM(logger)
	assert.NoError(t, err)
	assert.NoError(t, vm.LoadProgram(program))
	return vm, logger
}

func TestRunFrame(t *testing.T) {
	vm, logger := newVM(t, 0x60, 0x01, 0x70, 0x01, 0x70, 0x01, 0x12, 0x06)
	cfg := DefaultConfig()
	cfg.CyclesPerFrame = 3

	assert.NoError(t, RunFrame(context.Background(), vm, cfg, logger))
	assert.Equal(t, uint8(3), vm.V(0))
	assert.Equal(t, uint16(0x206), vm.PC())

	assert.NoError(t, RunFrame(context.Background(), vm, cfg, logger))
	assert.Equal(t, uint16(0x206), vm.PC())
}

func TestRunFrameMinimumOneCycle(t *testing.T) {
	vm, logger := newVM(t, 0x60, 0x01)
	cfg := DefaultConfig()
	cfg.CyclesPerFrame = 0

	assert.NoError(t, RunFrame(context.Background(), vm, cfg, logger))
	assert.Equal(t, uint16(0x202), vm.PC())
}

func TestRunFrameUnknownOpcode(t *testing.T) {
	vm, logger := newVM(t, 0xFF, 0xFF)
	cfg := DefaultConfig()
	cfg.CyclesPerFrame = 10

	assert.NoError(t, RunFrame(context.Background(), vm, cfg, logger))
	assert.Equal(t, uint16(0x200), vm.PC())

	cfg.HaltOnUnknown = true
	err := RunFrame(context.Background(), vm, cfg, logger)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrHalted))
}

func TestRunFrameStackError(t *testing.T) {
	vm, logger := newVM(t, 0x00, 0xEE)
	err := RunFrame(context.Background(), vm, DefaultConfig(), logger)
	assert.True(t, errors.Is(err, internal.ErrStackUnderflow))
}

func TestRunFrameCancelled(t *testing.T) {
	vm, logger := newVM(t, 0x60, 0x01)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunFrame(ctx, vm, DefaultConfig(), logger)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, uint16(0x200), vm.PC())
}

func TestRunFrameClearsBeep(t *testing.T) {
	// LD V0, 1; LD ST, V0; JP 204
	vm, logger := newVM(t, 0x60, 0x01, 0xF0, 0x18, 0x12, 0x04)
	cfg := DefaultConfig()
	cfg.CyclesPerFrame = 3

	assert.NoError(t, RunFrame(context.Background(), vm, cfg, logger))
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.False(t, vm.IsBeepFlagSet())
}

func TestKeyFromQWERTY(t *testing.T) {
	tests := []struct {
		r    rune
		code uint8
	}{
		{'1', 0x1}, {'4', 0xC}, {'q', 0x4}, {'R', 0xD},
		{'a', 0x7}, {'f', 0xE}, {'x', 0x0}, {'V', 0xF},
	}
	for _, tt := range tests {
		code, ok := KeyFromQWERTY(tt.r)
		assert.True(t, ok)
		assert.Equal(t, tt.code, code)
	}

	_, ok := KeyFromQWERTY('p')
	assert.False(t, ok)
}

func TestQWERTYKeys(t *testing.T) {
	keys := QWERTYKeys()
	assert.Equal(t, 'x', keys[0x0])
	assert.Equal(t, '4', keys[0xC])
	assert.Equal(t, 'v', keys[0xF])
	for code, r := range keys {
		got, ok := KeyFromQWERTY(r)
		assert.True(t, ok)
		assert.Equal(t, uint8(code), got)
	}
}
