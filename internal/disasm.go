package internal

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// String formats the instruction in assembler syntax, for example "LD V1, $0A".
func (ins Instruction) String() string {
	params := ins.params()
	if params == "" {
		return ins.Kind.Mnemonic()
	}
	return ins.Kind.Mnemonic() + " " + params
}

func (ins Instruction) params() string {
	switch ins.Kind {
	case KindJP, KindCALL:
		return fmt.Sprintf("$%03X", ins.NNN)
	case KindJPV0:
		return fmt.Sprintf("V0, $%03X", ins.NNN)
	case KindSEByte, KindSNEByte, KindLDByte, KindADDByte, KindRND:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case KindSEReg, KindSNEReg, KindLDReg, KindOR, KindAND, KindXOR, KindADDReg, KindSUB, KindSUBN:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case KindSHR, KindSHL, KindSKP, KindSKNP:
		return fmt.Sprintf("V%X", ins.X)
	case KindLDI:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case KindDRW:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case KindLDVxDT:
		return fmt.Sprintf("V%X, DT", ins.X)
	case KindLDVxK:
		return fmt.Sprintf("V%X, K", ins.X)
	case KindLDDTVx:
		return fmt.Sprintf("DT, V%X", ins.X)
	case KindLDSTVx:
		return fmt.Sprintf("ST, V%X", ins.X)
	case KindADDI:
		return fmt.Sprintf("I, V%X", ins.X)
	case KindLDF:
		return fmt.Sprintf("F, V%X", ins.X)
	case KindLDB:
		return fmt.Sprintf("B, V%X", ins.X)
	case KindLDStore:
		return fmt.Sprintf("[I], V%X", ins.X)
	case KindLDLoad:
		return fmt.Sprintf("V%X, [I]", ins.X)
	case KindUnknown:
		return fmt.Sprintf("$%04X", ins.Opcode)
	}
	return ""
}

// reference looks the opcode up in the retrogolib CHIP-8 opcode table.
func (ins Instruction) reference() *chip8.Instruction {
	firstNibble := (ins.Opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&ins.Opcode == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// IsSkip returns true if the instruction conditionally skips the next one.
func (ins Instruction) IsSkip() bool {
	if ref := ins.reference(); ref != nil {
		return chip8.SkipInstructions.Contains(ref.Name)
	}
	switch ins.Kind {
	case KindSEByte, KindSNEByte, KindSEReg, KindSNEReg, KindSKP, KindSKNP:
		return true
	default:
		return false
	}
}

// IsCanonical returns true if the opcode is the encoding listed in the
// technical reference. Aliases accepted by the interpreter, such as 0000 for
// CLS, are not canonical.
func (ins Instruction) IsCanonical() bool {
	ref := ins.reference()
	if ref == nil || ins.Kind == KindUnknown {
		return false
	}
	return strings.EqualFold(ref.Name, ins.Kind.Mnemonic())
}

// Disassemble returns one listing line per 2-byte word of a program image that
// is loaded at base. A trailing odd byte is listed as data. Conditional skips
// and opcodes that are not the canonical encoding get a trailing comment.
func Disassemble(data []byte, base uint16) []string {
	lines := make([]string, 0, len(data)/2+1)
	for i := 0; i+1 < len(data); i += 2 {
		opcode := uint16(data[i])<<8 | uint16(data[i+1])
		ins := Decode(opcode)
		text := ins.String()
		if ins.Kind == KindUnknown {
			text = fmt.Sprintf(".word $%04X", opcode)
		} else if notes := ins.notes(); len(notes) > 0 {
			text += " ; " + strings.Join(notes, ", ")
		}
		lines = append(lines, fmt.Sprintf("$%03X  %04X  %s", int(base)+i, opcode, text))
	}
	if len(data)%2 == 1 {
		last := len(data) - 1
		lines = append(lines, fmt.Sprintf("$%03X  %02X    .byte $%02X", int(base)+last, data[last], data[last]))
	}
	return lines
}

func (ins Instruction) notes() []string {
	var notes []string
	if !ins.IsCanonical() {
		notes = append(notes, "alias")
	}
	if ins.IsSkip() {
		notes = append(notes, "skip")
	}
	return notes
}
