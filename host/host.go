// Package host holds what the presentation hosts share: where the keypad and
// the meta keys are on the host keyboard.
package host

import (
	"unicode"

	"github.com/mpingram/chip8vm/cpu"
	"github.com/mpingram/chip8vm/loop"
)

// Keypad maps each keypad key to the host key at the same position of the
// left hand block of a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var Keypad = [cpu.NumKeys]rune{
	0x1: '1', 0x2: '2', 0x3: '3', 0xc: '4',
	0x4: 'q', 0x5: 'w', 0x6: 'e', 0xd: 'r',
	0x7: 'a', 0x8: 's', 0x9: 'd', 0xe: 'f',
	0xa: 'z', 0x0: 'x', 0xb: 'c', 0xf: 'v',
}

// Meta keys.
const (
	KeyQuit   rune = 0x1b // escape
	KeyPause  rune = 'p'
	KeyResume rune = '['
	KeyStep   rune = ']'
	KeyDump   rune = 'o'
)

// KeypadKey returns the keypad key that the host key is mapped to.
func KeypadKey(key rune) (byte, bool) {
	key = unicode.ToLower(key)
	for k, r := range Keypad {
		if r == key {
			return byte(k), true
		}
	}
	return 0, false
}

// Controls builds the loop controls from a function reporting whether a host
// key is held down.
func Controls(isDown func(key rune) bool) loop.Controls {
	var ctl loop.Controls
	for k, r := range Keypad {
		ctl.Keys[k] = isDown(r)
	}
	ctl.Quit = isDown(KeyQuit)
	ctl.Pause = isDown(KeyPause)
	ctl.Resume = isDown(KeyResume)
	ctl.Step = isDown(KeyStep)
	ctl.Dump = isDown(KeyDump)
	return ctl
}
