package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		op     uint16
		vx, vy byte
		want   byte
		wantVF byte
	}{
		{"ADD no carry", 0x8014, 5, 5, 10, 0},
		{"ADD carry wraps", 0x8014, 0xff, 0x01, 0x00, 1},
		{"ADD carry keeps remainder", 0x8014, 0xf0, 0x20, 0x10, 1},
		{"SUB no borrow", 0x8015, 10, 3, 7, 1},
		{"SUB borrow wraps", 0x8015, 3, 10, 0xf9, 0},
		{"SUB equal operands", 0x8015, 5, 5, 0, 0},
		{"SHR low bit set", 0x8016, 0x03, 0, 0x01, 1},
		{"SHR low bit clear", 0x8016, 0x02, 0, 0x01, 0},
		{"SUBN no borrow", 0x8017, 3, 10, 7, 1},
		{"SUBN borrow wraps", 0x8017, 10, 3, 0xf9, 0},
		{"SHL high bit set", 0x801e, 0x81, 0, 0x02, 1},
		{"SHL high bit clear", 0x801e, 0x41, 0, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, 0x6000|uint16(tt.vx), 0x6100|uint16(tt.vy), tt.op)
			stepN(t, c, 3)

			assert.Equal(t, tt.want, c.V(0))
			assert.Equal(t, tt.wantVF, c.V(0xf))
			assert.Equal(t, uint16(0x206), c.PC())
		})
	}
}

func TestArithmetic_FlagRegisterAsOperand(t *testing.T) {
	// VF + V1 = 0x100: the carry flag is written after the sum
	c := newTestChip8(t, 0x6fff, 0x6101, 0x8f14)
	stepN(t, c, 3)
	assert.Equal(t, byte(1), c.V(0xf))
}

func TestLogic(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
		want byte
	}{
		{"LD", 0x8010, 0x0f},
		{"OR", 0x8011, 0x3f},
		{"AND", 0x8012, 0x0c},
		{"XOR", 0x8013, 0x33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, 0x603c, 0x610f, 0x6f07, tt.op)
			stepN(t, c, 4)

			assert.Equal(t, tt.want, c.V(0))
			// logic instructions leave VF alone
			assert.Equal(t, byte(0x07), c.V(0xf))
		})
	}
}

func TestAddByte_Wraps(t *testing.T) {
	c := newTestChip8(t, 0x60ff, 0x6f09, 0x7002)
	stepN(t, c, 3)
	assert.Equal(t, byte(0x01), c.V(0))
	assert.Equal(t, byte(0x09), c.V(0xf))
}

func TestProgram_AddTwoRegisters(t *testing.T) {
	// LD V0, 5; LD V1, 5; ADD V0, V1
	c := newTestChip8(t, 0x6005, 0x6105, 0x8014)
	stepN(t, c, 3)

	assert.Equal(t, byte(10), c.V(0))
	assert.Equal(t, byte(0), c.V(0xf))
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name  string
		op    uint16
		vx    byte
		vy    byte
		keys  [NumKeys]bool
		delta uint16
	}{
		{"SE byte equal", 0x3042, 0x42, 0, [NumKeys]bool{}, 4},
		{"SE byte not equal", 0x3042, 0x41, 0, [NumKeys]bool{}, 2},
		{"SNE byte not equal", 0x4042, 0x41, 0, [NumKeys]bool{}, 4},
		{"SNE byte equal", 0x4042, 0x42, 0, [NumKeys]bool{}, 2},
		{"SE reg equal", 0x5010, 7, 7, [NumKeys]bool{}, 4},
		{"SE reg not equal", 0x5010, 7, 8, [NumKeys]bool{}, 2},
		{"SNE reg not equal", 0x9010, 7, 8, [NumKeys]bool{}, 4},
		{"SNE reg equal", 0x9010, 7, 7, [NumKeys]bool{}, 2},
		{"SKP pressed", 0xe09e, 0xa, 0, [NumKeys]bool{0xa: true}, 4},
		{"SKP not pressed", 0xe09e, 0xa, 0, [NumKeys]bool{0xb: true}, 2},
		{"SKNP not pressed", 0xe0a1, 0xa, 0, [NumKeys]bool{0xb: true}, 4},
		{"SKNP pressed", 0xe0a1, 0xa, 0, [NumKeys]bool{0xa: true}, 2},
		{"SKP uses low nibble of Vx", 0xe09e, 0x1a, 0, [NumKeys]bool{0xa: true}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, tt.op)
			c.v[0] = tt.vx
			c.v[1] = tt.vy
			c.SetKeys(tt.keys)

			stepN(t, c, 1)
			assert.Equal(t, ProgramStart+tt.delta, c.PC())
		})
	}
}

func TestClearScreen(t *testing.T) {
	// LD I, font 0; DRW V0, V0, 5; CLS
	c := newTestChip8(t, 0xa000, 0xd005, 0x00e0)
	stepN(t, c, 2)
	fb := c.Framebuffer()
	assert.True(t, fb.Count() > 0)
	c.ClearDrawNeeded()

	stepN(t, c, 1)

	fb = c.Framebuffer()
	assert.Equal(t, 0, fb.Count())
	assert.True(t, c.DrawNeeded())
	assert.Equal(t, uint16(0x206), c.PC())
}

func TestJumps(t *testing.T) {
	t.Run("JP", func(t *testing.T) {
		c := newTestChip8(t, 0x1345)
		stepN(t, c, 1)
		assert.Equal(t, uint16(0x345), c.PC())
	})

	t.Run("JP V0", func(t *testing.T) {
		c := newTestChip8(t, 0x6004, 0xb300)
		stepN(t, c, 2)
		assert.Equal(t, uint16(0x304), c.PC())
	})

	t.Run("CALL and RET", func(t *testing.T) {
		// 200: CALL 206; 202: LD V1, 1; 204: JP 204; 206: LD V0, 7; 208: RET
		c := newTestChip8(t, 0x2206, 0x6101, 0x1204, 0x6007, 0x00ee)
		stepN(t, c, 1)
		assert.Equal(t, uint16(0x206), c.PC())
		assert.Equal(t, 1, len(c.Snapshot().Stack))

		stepN(t, c, 2)
		assert.Equal(t, uint16(0x202), c.PC())
		assert.Equal(t, 0, len(c.Snapshot().Stack))

		stepN(t, c, 1)
		assert.Equal(t, byte(7), c.V(0))
		assert.Equal(t, byte(1), c.V(1))
	})
}

func TestStackBounds(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		// CALL 200 forever
		c := newTestChip8(t, 0x2200)
		stepN(t, c, StackDepth)

		err := c.Step()
		var fault *Fault
		assert.True(t, errors.As(err, &fault))
		assert.True(t, errors.Is(err, ErrStackOverflow))
		assert.Equal(t, uint16(0x200), fault.PC)
		assert.Equal(t, uint16(0x2200), fault.Opcode)
		assert.Equal(t, StackDepth, len(c.Snapshot().Stack))
	})

	t.Run("underflow", func(t *testing.T) {
		c := newTestChip8(t, 0x00ee)
		err := c.Step()
		assert.True(t, errors.Is(err, ErrStackUnderflow))
		assert.Equal(t, uint16(ProgramStart), c.PC())
	})
}

func TestUnknownOpcode(t *testing.T) {
	for _, op := range []uint16{0x0000, 0x0123, 0x5121, 0x8008, 0x800f, 0x9011, 0xe0ff, 0xf0ff, 0xf001} {
		c := newTestChip8(t, op)
		err := c.Step()

		assert.True(t, errors.Is(err, ErrUnknownOpcode))
		var fault *Fault
		assert.True(t, errors.As(err, &fault))
		assert.Equal(t, op, fault.Opcode)
		assert.True(t, fault.Fetched)
		assert.Equal(t, uint16(ProgramStart), c.PC())
	}
}

func TestAddressFault(t *testing.T) {
	t.Run("fetch past end of memory", func(t *testing.T) {
		c := newTestChip8(t, 0x1fff)
		stepN(t, c, 1)

		err := c.Step()
		assert.True(t, errors.Is(err, ErrAddressFault))
		var fault *Fault
		assert.True(t, errors.As(err, &fault))
		assert.False(t, fault.Fetched)
		assert.Equal(t, uint16(0xfff), fault.PC)
	})

	t.Run("jump with offset leaves memory", func(t *testing.T) {
		c := newTestChip8(t, 0x60ff, 0xbfff)
		stepN(t, c, 2)
		assert.True(t, errors.Is(c.Step(), ErrAddressFault))
	})

	tests := []struct {
		name string
		prog []uint16
	}{
		{"BCD", []uint16{0xaffe, 0xf033}},
		{"store registers", []uint16{0xaffc, 0xf455}},
		{"load registers", []uint16{0xaffc, 0xf465}},
		{"draw", []uint16{0xaffd, 0xd005}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, tt.prog...)
			stepN(t, c, 1)
			before := c.Snapshot()

			err := c.Step()
			assert.True(t, errors.Is(err, ErrAddressFault))

			after := c.Snapshot()
			assert.True(t, before.Memory == after.Memory)
			assert.Equal(t, before.V, after.V)
			assert.Equal(t, before.I, after.I)
			assert.Equal(t, before.PC, after.PC)
		})
	}
}

func TestRandom(t *testing.T) {
	c := newTestChip8(t, 0xc00f)
	stepN(t, c, 1)
	assert.Equal(t, byte(0x0b), c.V(0))
}

func TestRandom_DefaultSourceIsMasked(t *testing.T) {
	c := New()
	rom := []byte{0xc0, 0x0f}
	assert.NoError(t, c.Load(rom))
	for i := 0; i < 50; i++ {
		c.pc = ProgramStart
		assert.NoError(t, c.Step())
		assert.True(t, c.V(0) <= 0x0f)
	}
}

func TestTimerInstructions(t *testing.T) {
	// LD V0, 30; LD DT, V0; LD ST, V0; LD V1, DT
	c := newTestChip8(t, 0x601e, 0xf015, 0xf018, 0xf107)
	stepN(t, c, 3)
	assert.Equal(t, byte(30), c.DelayTimer())
	assert.Equal(t, byte(30), c.SoundTimer())

	c.TickTimers()
	stepN(t, c, 1)
	assert.Equal(t, byte(29), c.V(1))
}

func TestWaitForKey(t *testing.T) {
	c := newTestChip8(t, 0xf30a)

	for i := 0; i < 5; i++ {
		stepN(t, c, 1)
		assert.Equal(t, uint16(ProgramStart), c.PC())
	}

	c.SetKeys([NumKeys]bool{0x5: true, 0x3: true})
	stepN(t, c, 1)
	assert.Equal(t, byte(3), c.V(3))
	assert.Equal(t, uint16(ProgramStart+2), c.PC())
}

func TestAddToIndex(t *testing.T) {
	t.Run("no overflow", func(t *testing.T) {
		c := newTestChip8(t, 0xa100, 0x6020, 0x6f01, 0xf01e)
		stepN(t, c, 4)
		assert.Equal(t, uint16(0x120), c.I())
		assert.Equal(t, byte(0), c.V(0xf))
	})

	t.Run("overflow past addressable memory", func(t *testing.T) {
		c := newTestChip8(t, 0xafff, 0x6001, 0xf01e)
		stepN(t, c, 3)
		assert.Equal(t, uint16(0x1000), c.I())
		assert.Equal(t, byte(1), c.V(0xf))
	})
}

func TestFontGlyph(t *testing.T) {
	for digit := byte(0); digit < 16; digit++ {
		c := newTestChip8(t, 0x6000|uint16(digit), 0xf029)
		stepN(t, c, 2)
		assert.Equal(t, uint16(digit)*GlyphSize, c.I())
	}
}

func TestBCD(t *testing.T) {
	for value := 0; value < 256; value++ {
		c := newTestChip8(t, 0x6000|uint16(value), 0xa300, 0xf033)
		stepN(t, c, 3)

		s := c.Snapshot()
		h, tens, u := int(s.Memory[0x300]), int(s.Memory[0x301]), int(s.Memory[0x302])
		assert.True(t, h < 10 && tens < 10 && u < 10)
		assert.Equal(t, value, 100*h+10*tens+u)
	}
}

func TestStoreAndLoadRegisters(t *testing.T) {
	for x := 0; x < NumRegisters; x++ {
		c := newTestChip8(t, 0xa400, 0xf055|uint16(x)<<8, 0xa400, 0xf065|uint16(x)<<8)
		want := [NumRegisters]byte{}
		for i := range want {
			want[i] = byte(0x11 * (i + 1))
			c.v[i] = want[i]
		}

		stepN(t, c, 2)
		assert.Equal(t, uint16(0x400+x+1), c.I())
		s := c.Snapshot()
		for i := 0; i <= x; i++ {
			assert.Equal(t, want[i], s.Memory[0x400+i])
		}
		// registers above X are not stored
		assert.Equal(t, byte(0), s.Memory[0x400+x+1])

		c.v = [NumRegisters]byte{}
		stepN(t, c, 2)
		for i := 0; i <= x; i++ {
			assert.Equal(t, want[i], c.V(i))
		}
		for i := x + 1; i < NumRegisters; i++ {
			assert.Equal(t, byte(0), c.V(i))
		}
		assert.Equal(t, uint16(0x400+x+1), c.I())
	}
}
