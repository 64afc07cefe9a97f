package internal

import (
	"github.com/retroenv/retrogolib/log"
)

// Execute runs a single decoded instruction against the machine state.
// Every handler advances the program counter itself, timers are not touched.
func (vm *C8VM) Execute(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.Kind {
	case KindCLS: // CLS
		vm.NullifyPixels()
		vm.clearFlag = true
		vm.pc += 2
	case KindRET: // RET
		if vm.sp == 0 {
			return vm.stackError(ErrStackUnderflow, ins)
		}
		vm.sp--
		vm.pc = vm.stack[vm.sp] + 2
	case KindJP: // JP nnn
		vm.pc = ins.NNN
	case KindCALL: // CALL nnn
		if vm.sp == stackDepth {
			return vm.stackError(ErrStackOverflow, ins)
		}
		vm.stack[vm.sp] = vm.pc
		vm.sp++
		vm.pc = ins.NNN
	case KindSEByte: // SE Vx, kk
		vm.skipIf(vm.regV[x] == ins.NN)
	case KindSNEByte: // SNE Vx, kk
		vm.skipIf(vm.regV[x] != ins.NN)
	case KindSEReg: // SE Vx, Vy
		vm.skipIf(vm.regV[x] == vm.regV[y])
	case KindLDByte: // LD Vx, kk
		vm.regV[x] = ins.NN
		vm.pc += 2
	case KindADDByte: // ADD Vx, kk
		vm.regV[x] += ins.NN
		vm.pc += 2
	case KindLDReg, KindOR, KindAND, KindXOR, KindADDReg, KindSUB, KindSHR, KindSUBN, KindSHL:
		vm.executeALU(ins.Kind, x, y)
		vm.pc += 2
	case KindSNEReg: // SNE Vx, Vy
		vm.skipIf(vm.regV[x] != vm.regV[y])
	case KindLDI: // LD I, nnn
		vm.regI = ins.NNN
		vm.pc += 2
	case KindJPV0: // JP V0, nnn
		vm.pc = ins.NNN + uint16(vm.regV[0])
	case KindRND: // RND Vx, kk
		vm.regV[x] = uint8(vm.rnd.Intn(256)) & ins.NN
		vm.pc += 2
	case KindDRW: // DRW Vx, Vy, n
		vm.drawSprite(vm.regV[x], vm.regV[y], ins.N)
		vm.drawFlag = true
		vm.pc += 2
	case KindSKP: // SKP Vx
		vm.skipIf(vm.issetKeymask(vm.regV[x]))
	case KindSKNP: // SKNP Vx
		vm.skipIf(!vm.issetKeymask(vm.regV[x]))
	case KindLDVxK: // LD Vx, K
		code, pressed := vm.lastPressedKey()
		if !pressed {
			return nil // execute the same instruction again next cycle
		}
		vm.regV[x] = code
		vm.pc += 2
	case KindLDVxDT, KindLDDTVx, KindLDSTVx, KindADDI, KindLDF, KindLDB, KindLDStore, KindLDLoad:
		vm.executeMisc(ins.Kind, x)
		vm.pc += 2
	default:
		return vm.unknownOpcode(ins)
	}
	return nil
}

// skipIf always moves past the current instruction and skips the next one
// when cond holds.
func (vm *C8VM) skipIf(cond bool) {
	vm.pc += 2
	if cond {
		vm.pc += 2
	}
}

func (vm *C8VM) executeALU(kind Kind, x, y uint8) {
	switch kind {
	case KindLDReg: // LD Vx, Vy
		vm.regV[x] = vm.regV[y]
	case KindOR: // OR Vx, Vy
		vm.regV[x] |= vm.regV[y]
	case KindAND: // AND Vx, Vy
		vm.regV[x] &= vm.regV[y]
	case KindXOR: // XOR Vx, Vy
		vm.regV[x] ^= vm.regV[y]
	case KindADDReg: // ADD Vx, Vy
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = flag(sum > 0xFF)
	case KindSUB: // SUB Vx, Vy
		notBorrow := vm.regV[x] >= vm.regV[y]
		vm.regV[x] -= vm.regV[y]
		vm.regV[0xF] = flag(notBorrow)
	case KindSHR: // SHR Vx {, Vy}
		lsb := vm.regV[x] & 0x01
		vm.regV[x] >>= 1
		vm.regV[0xF] = lsb
	case KindSUBN: // SUBN Vx, Vy
		notBorrow := vm.regV[y] >= vm.regV[x]
		vm.regV[x] = vm.regV[y] - vm.regV[x]
		vm.regV[0xF] = flag(notBorrow)
	case KindSHL: // SHL Vx {, Vy}
		// VF receives the least significant bit, as the reference interpreter does.
		lsb := vm.regV[x] & 0x01
		vm.regV[x] <<= 1
		vm.regV[0xF] = lsb
	}
}

func (vm *C8VM) executeMisc(kind Kind, x uint8) {
	switch kind {
	case KindLDVxDT: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case KindLDDTVx: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case KindLDSTVx: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case KindADDI: // ADD I, Vx
		sum := vm.regI + uint16(vm.regV[x])
		vm.regI = sum
		vm.regV[0xF] = flag(sum > 0xFFF)
	case KindLDF: // LD F, Vx
		vm.regI = uint16(vm.regV[x]) * fontGlyphSize
	case KindLDB: // LD B, Vx
		value := vm.regV[x]
		vm.writeMemory(vm.regI, value/100)
		vm.writeMemory(vm.regI+1, (value/10)%10)
		vm.writeMemory(vm.regI+2, value%10)
	case KindLDStore: // LD [I], Vx
		for i := uint16(0); i <= uint16(x); i++ {
			vm.writeMemory(vm.regI+i, vm.regV[i])
		}
		vm.regI += uint16(x) + 1
	case KindLDLoad: // LD Vx, [I]
		for i := uint16(0); i <= uint16(x); i++ {
			vm.regV[i] = vm.readMemory(vm.regI + i)
		}
		vm.regI += uint16(x) + 1
	}
}

func (vm *C8VM) unknownOpcode(ins Instruction) error {
	vm.logger.Warn("Unknown opcode",
		log.Hex("opcode", ins.Opcode),
		log.Hex("pc", vm.pc))
	return &UnknownOpcodeError{Opcode: ins.Opcode, PC: vm.pc}
}

func (vm *C8VM) stackError(err error, ins Instruction) error {
	vm.logger.Warn("Stack error",
		log.Err(err),
		log.Hex("opcode", ins.Opcode),
		log.Hex("pc", vm.pc))
	return err
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
