package internal

// SetKeymask sets the respective bit in the key
func (vm *C8VM) SetKeymask(code uint8) {
	vm.key |= 1 << (code & 0xF)
}

// UnsetKeymask unsets the respective bit in the key
func (vm *C8VM) UnsetKeymask(code uint8) {
	vm.key &^= 1 << (code & 0xF)
}

// SetKeys replaces the whole keypad state, pressed[k] reports key k.
func (vm *C8VM) SetKeys(pressed [NumKeys]bool) {
	vm.key = 0
	for k, down := range pressed {
		if down {
			vm.key |= 1 << uint(k)
		}
	}
}

// IsKeyPressed returns whether key code is currently held down
func (vm *C8VM) IsKeyPressed(code uint8) bool {
	return vm.issetKeymask(code)
}

func (vm *C8VM) issetKeymask(code uint8) bool {
	mask := uint16(1) << (code & 0xF)
	return vm.key&mask == mask
}

// lastPressedKey scans the keypad from 0 to F and returns the highest pressed key.
func (vm *C8VM) lastPressedKey() (uint8, bool) {
	var found bool
	var code uint8
	for i := uint8(0); i < NumKeys; i++ {
		if vm.issetKeymask(i) {
			code = i
			found = true
		}
	}
	return code, found
}
