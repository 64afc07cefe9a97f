package internal

const spriteWidth = 8

// drawSprite XORs an 8 x n sprite read from memory at I onto the display with
// its top left corner at x, y. Coordinates wrap around the display edges.
// VF is set when any lit pixel gets switched off.
func (vm *C8VM) drawSprite(x uint8, y uint8, n uint8) {
	vm.regV[0xF] = 0
	for row := uint8(0); row < n; row++ {
		spriteByte := vm.readMemory(vm.regI + uint16(row))
		py := (int(y) + int(row)) % ScreenHeight
		for col := 0; col < spriteWidth; col++ {
			bit := (spriteByte >> (7 - uint(col))) & 0x1
			if bit == 0 {
				continue
			}
			px := &vm.pixels[(int(x)+col)%ScreenWidth][py]
			if *px == 1 {
				vm.regV[0xF] = 1
			}
			*px ^= 1
		}
	}
}
