package internal

// Kind identifies a CHIP-8 instruction. SYS nnn is not decoded, 0nnn
// opcodes are either CLS, RET or unknown.
type Kind uint8

// Instruction kinds, named after the mnemonics of the technical reference.
const (
	KindUnknown Kind = iota
	KindCLS          // 00E0
	KindRET          // 00EE
	KindJP           // 1nnn
	KindCALL         // 2nnn
	KindSEByte       // 3xkk
	KindSNEByte      // 4xkk
	KindSEReg        // 5xy0
	KindLDByte       // 6xkk
	KindADDByte      // 7xkk
	KindLDReg        // 8xy0
	KindOR           // 8xy1
	KindAND          // 8xy2
	KindXOR          // 8xy3
	KindADDReg       // 8xy4
	KindSUB          // 8xy5
	KindSHR          // 8xy6
	KindSUBN         // 8xy7
	KindSHL          // 8xyE
	KindSNEReg       // 9xy0
	KindLDI          // Annn
	KindJPV0         // Bnnn
	KindRND          // Cxkk
	KindDRW          // Dxyn
	KindSKP          // Ex9E
	KindSKNP         // ExA1
	KindLDVxDT       // Fx07
	KindLDVxK        // Fx0A
	KindLDDTVx       // Fx15
	KindLDSTVx       // Fx18
	KindADDI         // Fx1E
	KindLDF          // Fx29
	KindLDB          // Fx33
	KindLDStore      // Fx55
	KindLDLoad       // Fx65
)

var kindMnemonics = [...]string{
	KindUnknown: "???",
	KindCLS:     "CLS",
	KindRET:     "RET",
	KindJP:      "JP",
	KindCALL:    "CALL",
	KindSEByte:  "SE",
	KindSNEByte: "SNE",
	KindSEReg:   "SE",
	KindLDByte:  "LD",
	KindADDByte: "ADD",
	KindLDReg:   "LD",
	KindOR:      "OR",
	KindAND:     "AND",
	KindXOR:     "XOR",
	KindADDReg:  "ADD",
	KindSUB:     "SUB",
	KindSHR:     "SHR",
	KindSUBN:    "SUBN",
	KindSHL:     "SHL",
	KindSNEReg:  "SNE",
	KindLDI:     "LD",
	KindJPV0:    "JP",
	KindRND:     "RND",
	KindDRW:     "DRW",
	KindSKP:     "SKP",
	KindSKNP:    "SKNP",
	KindLDVxDT:  "LD",
	KindLDVxK:   "LD",
	KindLDDTVx:  "LD",
	KindLDSTVx:  "LD",
	KindADDI:    "ADD",
	KindLDF:     "LD",
	KindLDB:     "LD",
	KindLDStore: "LD",
	KindLDLoad:  "LD",
}

// Mnemonic returns the assembler mnemonic of the instruction kind.
func (k Kind) Mnemonic() string {
	if int(k) >= len(kindMnemonics) {
		return kindMnemonics[KindUnknown]
	}
	return kindMnemonics[k]
}

// Instruction is a decoded opcode with all operand fields extracted.
type Instruction struct {
	Kind   Kind
	Opcode uint16
	X      uint8  // the lower 4 bits of the high byte of the instruction
	Y      uint8  // the upper 4 bits of the low byte of the instruction
	N      uint8  // the lowest 4 bits of the instruction
	NN     uint8  // the lowest 8 bits of the instruction
	NNN    uint16 // the lowest 12 bits of the instruction
}

// Decode splits an opcode into its operand fields and identifies the instruction.
// Opcodes that do not match any instruction decode to KindUnknown.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8((opcode >> 8) & 0x000F),
		Y:      uint8((opcode >> 4) & 0x000F),
		N:      uint8(opcode & 0x000F),
		NN:     uint8(opcode & 0x00FF),
		NNN:    opcode & 0x0FFF,
	}
	ins.Kind = decodeKind(opcode, ins.N, ins.NN)
	return ins
}

func decodeKind(opcode uint16, n, nn uint8) Kind {
	switch opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch n {
		case 0x0:
			return KindCLS
		case 0xE:
			return KindRET
		}
	case 0x1000:
		return KindJP
	case 0x2000:
		return KindCALL
	case 0x3000:
		return KindSEByte
	case 0x4000:
		return KindSNEByte
	case 0x5000:
		return KindSEReg
	case 0x6000:
		return KindLDByte
	case 0x7000:
		return KindADDByte
	case 0x8000:
		switch n {
		case 0x0:
			return KindLDReg
		case 0x1:
			return KindOR
		case 0x2:
			return KindAND
		case 0x3:
			return KindXOR
		case 0x4:
			return KindADDReg
		case 0x5:
			return KindSUB
		case 0x6:
			return KindSHR
		case 0x7:
			return KindSUBN
		case 0xE:
			return KindSHL
		}
	case 0x9000:
		return KindSNEReg
	case 0xA000:
		return KindLDI
	case 0xB000:
		return KindJPV0
	case 0xC000:
		return KindRND
	case 0xD000:
		return KindDRW
	case 0xE000:
		switch nn {
		case 0x9E:
			return KindSKP
		case 0xA1:
			return KindSKNP
		}
	case 0xF000:
		switch nn {
		case 0x07:
			return KindLDVxDT
		case 0x0A:
			return KindLDVxK
		case 0x15:
			return KindLDDTVx
		case 0x18:
			return KindLDSTVx
		case 0x1E:
			return KindADDI
		case 0x29:
			return KindLDF
		case 0x33:
			return KindLDB
		case 0x55:
			return KindLDStore
		case 0x65:
			return KindLDLoad
		}
	}
	return KindUnknown
}
