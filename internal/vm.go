package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	addressMask    = totalMemory - 1
	stackDepth     = 16
	fontGlyphSize  = 5

	TimerFrequency = float64(1000.0 / 60)
	ScreenWidth    = 64
	ScreenHeight   = 32
	NumKeys        = 16
)

// C8VM is an emulated CHIP-8 VM.
//
// VF is both a general purpose register and the flag output of ADD, SUB, SUBN,
// SHR, SHL, DRW and ADD I. Programs rely on the flag overwriting whatever the
// register held before, so it is never preserved across those instructions.
type C8VM struct {
	opcode     uint16             // 16-bit opcode of the current instruction
	regV       [16]uint8          // 16 general purpose 8-bit registers
	regI       uint16             // 16-bit register that is generally used to store memory addresses
	delayTimer uint8              // Delay timer
	soundTimer uint8              // Sound timer
	pc         uint16             // Program counter
	sp         uint8              // Stack pointer
	stack      [16]uint16         // A stack of 16 16-bit values
	memory     [totalMemory]uint8 // 4 KB global memory

	logger *log.Logger
	rnd    *rand.Rand

	clearFlag bool // Clear screen flag
	drawFlag  bool // Draw sprite flag
	beepFlag  bool // Sound timer expired during the last cycle

	// A 16-bit integer to hold the current key values in the form of individual bits.
	// So when 0 is pushed in the keypad, the 0'th bit will be set and so on.
	key uint16

	// 64 px x 32 px display
	pixels [ScreenWidth][ScreenHeight]uint8
}

var fontset = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM in its reset state.
func NewC8VM(logger *log.Logger) (*C8VM, error) {
	if logger == nil {
		return nil, errors.New("missing logger")
	}
	vm := &C8VM{
		logger: logger,
	}
	vm.Reset()
	return vm, nil
}

// Reset fully re-initializes the machine: memory, registers, stack, keys,
// timers and display are cleared, the font set is written to the start of
// memory and the random source is reseeded from the wall clock.
func (vm *C8VM) Reset() {
	vm.opcode = 0
	vm.regV = [16]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.sp = 0
	vm.stack = [16]uint16{}
	vm.memory = [totalMemory]uint8{}
	vm.key = 0
	vm.clearFlag = false
	vm.drawFlag = false
	vm.beepFlag = false
	vm.NullifyPixels()

	copy(vm.memory[:], fontset)
	vm.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// SetRandSource replaces the source used by the RND instruction.
func (vm *C8VM) SetRandSource(src rand.Source) {
	vm.rnd = rand.New(src)
}

// LoadProgram copies a program image into memory at 0x200. Images that do not
// fit into memory are rejected as a whole and memory is left untouched.
// Other machine state is not reset.
func (vm *C8VM) LoadProgram(data []byte) error {
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, size, maxProgramSize)
	}
	copy(vm.memory[pcStartAddr:], data)

	vm.logger.Debug("Program loaded",
		log.Hex("address", uint16(pcStartAddr)),
		log.String("size", fmt.Sprintf("%d bytes", size)))
	return nil
}

// Step runs a single fetch-decode-execute cycle followed by a timer tick.
// The returned error describes a problem with the executed instruction only,
// the VM stays usable and the next call continues from the current state.
func (vm *C8VM) Step() error {
	vm.opcode = vm.fetch()
	ins := Decode(vm.opcode)

	vm.logger.Debug("Executing",
		log.Hex("pc", vm.pc),
		log.Hex("opcode", vm.opcode),
		log.Stringer("instruction", ins))

	err := vm.Execute(ins)
	vm.tickTimers()
	return err
}

func (vm *C8VM) fetch() uint16 {
	return uint16(vm.readMemory(vm.pc))<<8 | uint16(vm.readMemory(vm.pc+1))
}

func (vm *C8VM) readMemory(address uint16) uint8 {
	return vm.memory[address&addressMask]
}

func (vm *C8VM) writeMemory(address uint16, value uint8) {
	vm.memory[address&addressMask] = value
}

func (vm *C8VM) tickTimers() {
	vm.DecrementDelayTimer()
	if vm.soundTimer == 1 {
		vm.beepFlag = true
		vm.logger.Info("Beep")
	}
	vm.DecrementSoundTimer()
}

// NullifyPixels resets all pixels to a value of 0
func (vm *C8VM) NullifyPixels() {
	vm.pixels = [ScreenWidth][ScreenHeight]uint8{}
}

// Pixels returns a copy of the display, indexed by x then y
func (vm *C8VM) Pixels() [ScreenWidth][ScreenHeight]byte {
	return vm.pixels
}

// Pixel returns whether the pixel at x, y is set, coordinates outside the
// display are never set
func (vm *C8VM) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return vm.pixels[x][y] == 1
}

// IsClearFlagSet returns whether the clear flag is set
func (vm *C8VM) IsClearFlagSet() bool {
	return vm.clearFlag
}

// UnsetClearFlag unsets the clear flag
func (vm *C8VM) UnsetClearFlag() {
	vm.clearFlag = false
}

// IsDrawFlagSet returns whether the draw flag is set
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// IsBeepFlagSet returns whether the sound timer ran out since the flag was last unset
func (vm *C8VM) IsBeepFlagSet() bool {
	return vm.beepFlag
}

// UnsetBeepFlag unsets the beep flag
func (vm *C8VM) UnsetBeepFlag() {
	vm.beepFlag = false
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// DecrementDelayTimer decrements the value of DT
func (vm *C8VM) DecrementDelayTimer() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// DecrementSoundTimer decrements the value of ST
func (vm *C8VM) DecrementSoundTimer() {
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// I returns the index register
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// V returns the value of register Vx
func (vm *C8VM) V(x uint8) uint8 {
	return vm.regV[x&0xF]
}

// SP returns the current call depth
func (vm *C8VM) SP() uint8 {
	return vm.sp
}

// Opcode returns the opcode fetched by the last Step
func (vm *C8VM) Opcode() uint16 {
	return vm.opcode
}

// Memory returns the byte stored at address
func (vm *C8VM) Memory(address uint16) uint8 {
	return vm.readMemory(address)
}
