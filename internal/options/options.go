// Package options contains the program options.
package options

// Backends selectable with the -backend flag.
const (
	BackendSDL      = "sdl"
	BackendEbiten   = "ebiten"
	BackendTerminal = "term"
)

// Backends lists all supported backends.
var Backends = []string{BackendSDL, BackendEbiten, BackendTerminal}

// Program options of the emulator.
type Program struct {
	Input   string // CHIP-8 program to run
	Backend string // frontend to run the program with

	Scale          int  // size of one CHIP-8 pixel in screen pixels
	CyclesPerFrame int  // instructions executed per 60Hz frame
	HaltOnUnknown  bool // stop when an unknown opcode is executed
	Disasm         bool // print a listing of the program and exit

	Debug bool
	Quiet bool
}
