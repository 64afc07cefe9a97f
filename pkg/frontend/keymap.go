package frontend

import "unicode"

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var qwertyKeypad = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyFromQWERTY returns the keypad code for a keyboard character.
func KeyFromQWERTY(r rune) (uint8, bool) {
	code, ok := qwertyKeypad[unicode.ToLower(r)]
	return code, ok
}

// QWERTYKeys returns the keyboard characters in keypad order, index k holds the
// character mapped to key k.
func QWERTYKeys() [16]rune {
	var keys [16]rune
	for r, code := range qwertyKeypad {
		keys[code] = r
	}
	return keys
}
