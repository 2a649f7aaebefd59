package cpu

import (
	"fmt"
	"strings"
)

// State is a read-only snapshot of the Chip8 registers, stack, memory and
// screen.
type State struct {
	PC         uint16
	I          uint16
	V          [NumRegisters]byte
	DT         byte
	ST         byte
	Stack      []uint16
	Memory     [MemorySize]byte
	Screen     Framebuffer
	Keys       [NumKeys]bool
	DrawNeeded bool
	Current    Instruction
}

// Snapshot returns a static copy of the Chip8 at the moment the method is called.
func (c *Chip8) Snapshot() State {
	stack := make([]uint16, c.sp)
	copy(stack, c.stack[:c.sp])
	return State{
		PC:         c.pc,
		I:          c.i,
		V:          c.v,
		DT:         c.dt,
		ST:         c.st,
		Stack:      stack,
		Memory:     c.memory,
		Screen:     c.screen,
		Keys:       c.keys,
		DrawNeeded: c.drawNeeded,
		Current:    c.current,
	}
}

// Registers formats the registers, timers and stack on a few lines.
func (s State) Registers() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PC=%04x I=%04x DT=%02x ST=%02x (%s)\n", s.PC, s.I, s.DT, s.ST, s.Current)
	for x, v := range s.V {
		if x > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "V%X=%02x", x, v)
	}
	b.WriteByte('\n')
	b.WriteString("stack:")
	for _, addr := range s.Stack {
		fmt.Fprintf(&b, " %04x", addr)
	}
	b.WriteByte('\n')
	return b.String()
}
