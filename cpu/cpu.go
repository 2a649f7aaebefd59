// Package cpu implements the CHIP-8 interpreter core: memory, registers,
// stack, timers, keypad latches and the 64x32 framebuffer, stepped one
// instruction at a time by whoever owns it.
package cpu

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Memory layout and machine dimensions.
const (
	MemorySize   = 4096
	ProgramStart = 0x200
	MaxAddress   = MemorySize - 1
	// MaxProgramSize is the largest program image that fits between
	// ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - ProgramStart

	NumRegisters = 16
	NumKeys      = 16
	StackDepth   = 16

	ScreenWidth  = 64
	ScreenHeight = 32
	ScreenSize   = ScreenWidth * ScreenHeight
)

// Chip8 represents an emulated Chip-8 CPU. Not that the Chip-8 was ever a real physical
// computer with a CPU, but it's fun to pretend.
//
// A Chip8 is driven from the outside: the owner writes the keypad state once per
// frame with SetKeys, calls Step for every instruction it wants executed and
// TickTimers sixty times a second, and reads the screen back with Framebuffer
// whenever DrawNeeded reports a change. Nothing in here blocks, sleeps or spawns
// goroutines, so a Chip8 must only ever be used from one goroutine at a time.
type Chip8 struct {
	// program counter
	pc uint16
	// address register
	i uint16
	// data registers
	v [NumRegisters]byte
	// delay and sound timers.
	// Both delay and sound timers are registers that are decremented at 60hz once set.
	dt byte
	st byte

	stack [StackDepth]uint16
	sp    int

	memory [MemorySize]byte
	screen Framebuffer

	// keys is written by SetKeys only. Index 0x0 is key '0', index 0xF is key 'F'.
	keys [NumKeys]bool

	// the instruction most recently fetched
	current Instruction

	drawNeeded bool

	random func() byte
	logger *log.Logger
	trace  bool
}

// Option configures a Chip8 at construction.
type Option func(*Chip8)

// WithLogger sets the logger used for instruction tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Chip8) {
		c.logger = logger
	}
}

// WithTrace logs every executed instruction at debug level. It has no effect
// without WithLogger.
func WithTrace(trace bool) Option {
	return func(c *Chip8) {
		c.trace = trace
	}
}

// WithRandom replaces the random byte source used by RND.
func WithRandom(random func() byte) Option {
	return func(c *Chip8) {
		c.random = random
	}
}

// New returns a Chip8 in its power-on state, ready for a program to be
// loaded with Load.
func New(opts ...Option) *Chip8 {
	c := &Chip8{}
	for _, opt := range opts {
		opt(c)
	}
	if c.random == nil {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		c.random = func() byte {
			return byte(rnd.Intn(256))
		}
	}
	c.Reset()
	return c
}

// Reset puts the Chip8 back into its power-on state: memory, registers, stack,
// timers and screen are cleared, the font is copied to address 0 and the
// program counter points at the start of program memory. The loaded program is
// gone after a reset.
func (c *Chip8) Reset() {
	c.pc = ProgramStart
	c.i = 0
	c.v = [NumRegisters]byte{}
	c.dt = 0
	c.st = 0
	c.stack = [StackDepth]uint16{}
	c.sp = 0
	c.memory = [MemorySize]byte{}
	c.screen = Framebuffer{}
	c.keys = [NumKeys]bool{}
	c.current = Instruction{}

	loadFontSprites(&c.memory, FontAddress)

	// render the blank screen first
	c.drawNeeded = true
}

// Load copies a program image verbatim into memory starting at ProgramStart.
// Programs that do not fit are rejected and memory is left untouched.
func (c *Chip8) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(c.memory[ProgramStart:], program)
	return nil
}

// LoadFrom reads a whole program image from r and loads it. If r cannot be
// read the Chip8 is left as it was.
func (c *Chip8) LoadFrom(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, MaxProgramSize+1)); err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return c.Load(buf.Bytes())
}

// SetKeys latches the state of the 16 keypad keys. The Chip8 never changes
// the latched state itself.
func (c *Chip8) SetKeys(keys [NumKeys]bool) {
	c.keys = keys
}

// Framebuffer returns a copy of the screen.
func (c *Chip8) Framebuffer() Framebuffer {
	return c.screen
}

// DrawNeeded is true when the screen has changed since the last call to
// ClearDrawNeeded.
func (c *Chip8) DrawNeeded() bool {
	return c.drawNeeded
}

// ClearDrawNeeded acknowledges that the current screen has been rendered.
func (c *Chip8) ClearDrawNeeded() {
	c.drawNeeded = false
}

// PC returns the program counter.
func (c *Chip8) PC() uint16 {
	return c.pc
}

// I returns the address register.
func (c *Chip8) I() uint16 {
	return c.i
}

// V returns data register Vx. Only the low nibble of x is used.
func (c *Chip8) V(x int) byte {
	return c.v[x&0xf]
}

// DelayTimer returns the current value of the delay timer.
func (c *Chip8) DelayTimer() byte {
	return c.dt
}

// SoundTimer returns the current value of the sound timer.
func (c *Chip8) SoundTimer() byte {
	return c.st
}

// Current returns the instruction most recently fetched by Step.
func (c *Chip8) Current() Instruction {
	return c.current
}

// ReadMemory returns the byte at addr.
func (c *Chip8) ReadMemory(addr uint16) (byte, error) {
	if err := checkRange(addr, 1); err != nil {
		return 0, err
	}
	return c.memory[addr], nil
}

// checkRange returns ErrAddressFault unless all n bytes starting at addr are
// inside memory.
func checkRange(addr uint16, n int) error {
	if int(addr)+n > MemorySize {
		return fmt.Errorf("%w: %d bytes at %04x", ErrAddressFault, n, addr)
	}
	return nil
}
