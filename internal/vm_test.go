package internal

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestVM(t *testing.T) *C8VM {
	t.Helper()
	vm, err := NewC8VM(log.NewTestLogger(t))
	assert.NoError(t, err)
	vm.SetRandSource(rand.NewSource(1))
	return vm
}

// loadWords loads big-endian opcodes at 0x200.
func loadWords(t *testing.T, vm *C8VM, words ...uint16) {
	t.Helper()
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	assert.NoError(t, vm.LoadProgram(data))
}

func TestNewC8VM(t *testing.T) {
	_, err := NewC8VM(nil)
	assert.Error(t, err)

	vm := newTestVM(t)
	assert.Equal(t, uint16(0x200), vm.PC())
	assert.Equal(t, uint16(0), vm.I())
	assert.Equal(t, uint8(0), vm.SP())
	for i, b := range fontset {
		assert.Equal(t, b, vm.Memory(uint16(i)))
	}
	assert.Equal(t, uint8(0), vm.Memory(0x50))
}

func TestReset(t *testing.T) {
	vm := newTestVM(t)
	loadWords(t, vm, 0x6A42, 0xA123, 0x2300, 0xF515)
	vm.regV[5] = 9
	vm.SetKeymask(7)
	for i := 0; i < 4; i++ {
		assert.NoError(t, vm.Step())
	}
	vm.pixels[3][4] = 1
	vm.soundTimer = 3

	vm.Reset()
	vm.Reset()

	assert.Equal(t, uint16(0x200), vm.PC())
	assert.Equal(t, uint16(0), vm.I())
	assert.Equal(t, uint8(0), vm.SP())
	assert.Equal(t, uint8(0), vm.V(0xA))
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.False(t, vm.IsKeyPressed(7))
	assert.False(t, vm.Pixel(3, 4))
	assert.Equal(t, uint8(0), vm.Memory(0x200))
	assert.Equal(t, uint8(0xF0), vm.Memory(0))
	assert.Equal(t, uint8(0x80), vm.Memory(0x4F))
}

func TestLoadProgram(t *testing.T) {
	t.Run("fits exactly", func(t *testing.T) {
		vm := newTestVM(t)
		data := make([]byte, maxProgramSize)
		data[0] = 0x12
		data[len(data)-1] = 0x34
		assert.NoError(t, vm.LoadProgram(data))
		assert.Equal(t, uint8(0x12), vm.Memory(0x200))
		assert.Equal(t, uint8(0x34), vm.Memory(0xFFF))
	})

	t.Run("too large is rejected", func(t *testing.T) {
		vm := newTestVM(t)
		data := make([]byte, maxProgramSize+1)
		for i := range data {
			data[i] = 0xAA
		}
		err := vm.LoadProgram(data)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrProgramTooLarge))
		assert.Equal(t, uint8(0), vm.Memory(0x200))
		assert.Equal(t, uint8(0xF0), vm.Memory(0))
	})

	t.Run("does not reset state", func(t *testing.T) {
		vm := newTestVM(t)
		vm.regV[3] = 7
		assert.NoError(t, vm.LoadProgram([]byte{0x00, 0xE0}))
		assert.Equal(t, uint8(7), vm.V(3))
	})
}

func TestStepClearsOnZeroMemory(t *testing.T) {
	vm := newTestVM(t)
	vm.pixels[0][0] = 1

	for i := 1; i <= 10; i++ {
		assert.NoError(t, vm.Step())
		assert.Equal(t, uint16(0x200+2*i), vm.PC())
		assert.Equal(t, uint16(0x0000), vm.Opcode())
		assert.True(t, vm.IsClearFlagSet())
	}
	assert.False(t, vm.Pixel(0, 0))
}

func TestStepTimers(t *testing.T) {
	vm := newTestVM(t)
	loadWords(t, vm, 0x6003, 0xF015, 0x6102, 0xF118, 0x00E0, 0x00E0, 0x00E0)

	assert.NoError(t, vm.Step()) // LD V0, 3
	assert.NoError(t, vm.Step()) // LD DT, V0 then tick
	assert.Equal(t, uint8(2), vm.DelayTimer())

	assert.NoError(t, vm.Step()) // LD V1, 2
	assert.Equal(t, uint8(1), vm.DelayTimer())

	assert.NoError(t, vm.Step()) // LD ST, V1 then tick
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(1), vm.SoundTimer())
	assert.False(t, vm.IsBeepFlagSet())

	assert.NoError(t, vm.Step())
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.True(t, vm.IsBeepFlagSet())
	vm.UnsetBeepFlag()

	assert.NoError(t, vm.Step())
	assert.False(t, vm.IsBeepFlagSet())
	assert.Equal(t, uint8(0), vm.DelayTimer())
}

func TestStepUnknownOpcode(t *testing.T) {
	vm := newTestVM(t)
	loadWords(t, vm, 0xFFFF)
	vm.delayTimer = 5
	vm.regV[1] = 3

	err := vm.Step()
	assert.Error(t, err)

	var unknown *UnknownOpcodeError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint16(0xFFFF), unknown.Opcode)
	assert.Equal(t, uint16(0x200), unknown.PC)

	assert.Equal(t, uint16(0x200), vm.PC())
	assert.Equal(t, uint8(4), vm.DelayTimer())
	assert.Equal(t, uint8(3), vm.V(1))

	// the VM stays usable and keeps reporting the same opcode
	assert.Error(t, vm.Step())
	assert.Equal(t, uint8(3), vm.DelayTimer())
}

func TestStepStackPolicy(t *testing.T) {
	t.Run("underflow", func(t *testing.T) {
		vm := newTestVM(t)
		loadWords(t, vm, 0x00EE)
		vm.delayTimer = 5
		err := vm.Step()
		assert.True(t, errors.Is(err, ErrStackUnderflow))
		assert.Equal(t, uint16(0x200), vm.PC())
		assert.Equal(t, uint8(0), vm.SP())
		assert.Equal(t, uint8(4), vm.DelayTimer())
	})

	t.Run("overflow", func(t *testing.T) {
		vm := newTestVM(t)
		loadWords(t, vm, 0x2200) // calls itself
		for i := 0; i < stackDepth; i++ {
			assert.NoError(t, vm.Step())
		}
		assert.Equal(t, uint8(stackDepth), vm.SP())

		vm.delayTimer = 5
		vm.soundTimer = 1
		err := vm.Step()
		assert.True(t, errors.Is(err, ErrStackOverflow))
		assert.Equal(t, uint8(stackDepth), vm.SP())
		assert.Equal(t, uint16(0x200), vm.PC())
		assert.Equal(t, uint8(4), vm.DelayTimer())
		assert.Equal(t, uint8(0), vm.SoundTimer())
		assert.True(t, vm.IsBeepFlagSet())
	})
}

func TestStepCallReturn(t *testing.T) {
	vm := newTestVM(t)
	loadWords(t, vm,
		0x2206, // 200: CALL 206
		0x6101, // 202: LD V1, 1
		0x1204, // 204: JP 204
		0x6002, // 206: LD V0, 2
		0x00EE, // 208: RET
	)

	assert.NoError(t, vm.Step())
	assert.Equal(t, uint16(0x206), vm.PC())
	assert.Equal(t, uint8(1), vm.SP())

	assert.NoError(t, vm.Step())
	assert.NoError(t, vm.Step())
	assert.Equal(t, uint16(0x202), vm.PC())
	assert.Equal(t, uint8(0), vm.SP())

	assert.NoError(t, vm.Step())
	assert.NoError(t, vm.Step())
	assert.Equal(t, uint16(0x204), vm.PC())
	assert.Equal(t, uint8(2), vm.V(0))
	assert.Equal(t, uint8(1), vm.V(1))
}

func TestStepWaitForKey(t *testing.T) {
	vm := newTestVM(t)
	loadWords(t, vm, 0xF50A)

	for i := 0; i < 5; i++ {
		assert.NoError(t, vm.Step())
		assert.Equal(t, uint16(0x200), vm.PC())
	}

	vm.SetKeymask(3)
	assert.NoError(t, vm.Step())
	assert.Equal(t, uint8(3), vm.V(5))
	assert.Equal(t, uint16(0x202), vm.PC())
}

func TestKeymask(t *testing.T) {
	vm := newTestVM(t)
	vm.SetKeymask(0xA)
	vm.SetKeymask(0xA)
	assert.True(t, vm.IsKeyPressed(0xA))

	vm.UnsetKeymask(0xA)
	vm.UnsetKeymask(0xA)
	assert.False(t, vm.IsKeyPressed(0xA))

	var pressed [NumKeys]bool
	pressed[1] = true
	pressed[0xF] = true
	vm.SetKeys(pressed)
	assert.True(t, vm.IsKeyPressed(1))
	assert.True(t, vm.IsKeyPressed(0xF))
	assert.False(t, vm.IsKeyPressed(2))

	code, ok := vm.lastPressedKey()
	assert.True(t, ok)
	assert.Equal(t, uint8(0xF), code)
}

func TestPixelOutOfRange(t *testing.T) {
	vm := newTestVM(t)
	loadWords(t, vm, 0xD005) // DRW V0, V0, 5 draws the 0 glyph at 0, 0
	assert.NoError(t, vm.Step())
	assert.True(t, vm.Pixel(0, 0))

	assert.False(t, vm.Pixel(-1, 0))
	assert.False(t, vm.Pixel(0, -1))
	assert.False(t, vm.Pixel(ScreenWidth, 0))
	assert.False(t, vm.Pixel(0, ScreenHeight))
}
