package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned when a program image does not fit between 0x200 and the end of memory.
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
	// ErrStackOverflow is returned by CALL when all 16 stack slots are in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by RET when the stack is empty.
	ErrStackUnderflow = errors.New("stack underflow")
)

// UnknownOpcodeError reports an opcode that does not decode to any instruction.
type UnknownOpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode: %04X at %03X", e.Opcode, e.PC)
}
