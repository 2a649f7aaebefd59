package cpu

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Step fetches, decodes and executes exactly one instruction.
//
// A non-nil error is always a *Fault. A faulting instruction changes nothing,
// so calling Step again will fault again at the same address.
//
// LD Vx, K (FX0A) waits for a key by not advancing the program counter while
// no key is pressed: every call to Step polls the latched keys once.
func (c *Chip8) Step() error {
	opcode, err := c.readOpcode(c.pc)
	if err != nil {
		return &Fault{PC: c.pc, Err: err}
	}

	ins := Decode(opcode)
	c.current = ins

	if c.trace && c.logger != nil {
		c.logger.Debug(ins.String(),
			log.Hex("pc", c.pc),
			log.Hex("opcode", opcode))
	}

	if err := c.exec(ins); err != nil {
		return &Fault{PC: c.pc, Opcode: opcode, Fetched: true, Err: err}
	}
	return nil
}

// readOpcode reads the two bytes at addr, stored big-endian.
func (c *Chip8) readOpcode(addr uint16) (uint16, error) {
	if err := checkRange(addr, 2); err != nil {
		return 0, err
	}
	high := c.memory[addr]
	low := c.memory[addr+1]
	return uint16(high)<<8 | uint16(low), nil
}

// skipIf advances the program counter past the next instruction if cond holds
// and to the next instruction otherwise.
func (c *Chip8) skipIf(cond bool) {
	if cond {
		c.pc += 2
	}
	c.pc += 2
}

func (c *Chip8) exec(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpCLS:
		c.screen.clear()
		c.drawNeeded = true
		c.pc += 2

	case OpRET:
		addr, err := c.stackPop()
		if err != nil {
			return err
		}
		// the return address is the CALL itself
		c.pc = addr + 2

	case OpJP:
		c.pc = ins.NNN

	case OpCALL:
		if err := c.stackPush(c.pc); err != nil {
			return err
		}
		c.pc = ins.NNN

	case OpSEByte:
		c.skipIf(c.v[x] == ins.NN)

	case OpSNEByte:
		c.skipIf(c.v[x] != ins.NN)

	case OpSEReg:
		c.skipIf(c.v[x] == c.v[y])

	case OpLDByte:
		c.v[x] = ins.NN
		c.pc += 2

	case OpADDByte:
		// carry flag is not changed
		c.v[x] += ins.NN
		c.pc += 2

	case OpLDReg:
		c.v[x] = c.v[y]
		c.pc += 2

	case OpOR:
		c.v[x] |= c.v[y]
		c.pc += 2

	case OpAND:
		c.v[x] &= c.v[y]
		c.pc += 2

	case OpXOR:
		c.v[x] ^= c.v[y]
		c.pc += 2

	// arithmetic: result and flag are both taken from the operands before
	// either is written. VF is written last so the flag survives X == F.
	case OpADDReg:
		sum := uint16(c.v[x]) + uint16(c.v[y])
		c.setWithFlag(x, byte(sum), sum > 0xff)
		c.pc += 2

	case OpSUB:
		c.setWithFlag(x, c.v[x]-c.v[y], c.v[x] > c.v[y])
		c.pc += 2

	case OpSHR:
		c.setWithFlag(x, c.v[x]>>1, c.v[x]&0x01 != 0)
		c.pc += 2

	case OpSUBN:
		c.setWithFlag(x, c.v[y]-c.v[x], c.v[y] > c.v[x])
		c.pc += 2

	case OpSHL:
		c.setWithFlag(x, c.v[x]<<1, c.v[x]&0x80 != 0)
		c.pc += 2

	case OpSNEReg:
		c.skipIf(c.v[x] != c.v[y])

	case OpLDI:
		c.i = ins.NNN
		c.pc += 2

	case OpJPV0:
		c.pc = ins.NNN + uint16(c.v[0])

	case OpRND:
		c.v[x] = c.random() & ins.NN
		c.pc += 2

	case OpDRW:
		if err := checkRange(c.i, int(ins.N)); err != nil {
			return err
		}
		sprite := c.memory[c.i : c.i+uint16(ins.N)]
		collided := c.drawSprite(sprite, c.v[x], c.v[y])
		c.v[0xf] = 0
		if collided {
			c.v[0xf] = 1
		}
		c.pc += 2

	case OpSKP:
		c.skipIf(c.keyIsPressed(c.v[x]))

	case OpSKNP:
		c.skipIf(!c.keyIsPressed(c.v[x]))

	case OpLDVxDT:
		c.v[x] = c.dt
		c.pc += 2

	case OpLDVxK:
		// if no key is pressed, do NOT advance the program counter.
		// the same instruction runs again on the next Step.
		if key, ok := c.pressedKey(); ok {
			c.v[x] = key
			c.pc += 2
		}

	case OpLDDTVx:
		c.dt = c.v[x]
		c.pc += 2

	case OpLDSTVx:
		c.st = c.v[x]
		c.pc += 2

	case OpADDI:
		sum := c.i + uint16(c.v[x])
		c.v[0xf] = 0
		if sum > MaxAddress {
			c.v[0xf] = 1
		}
		c.i = sum
		c.pc += 2

	case OpLDF:
		// each glyph is five bytes and the glyphs are stored in increasing order
		c.i = FontAddress + uint16(c.v[x])*GlyphSize
		c.pc += 2

	case OpLDB:
		if err := checkRange(c.i, 3); err != nil {
			return err
		}
		c.memory[c.i] = c.v[x] / 100
		c.memory[c.i+1] = c.v[x] / 10 % 10
		c.memory[c.i+2] = c.v[x] % 10
		c.pc += 2

	case OpLDIVx:
		n := int(x) + 1
		if err := checkRange(c.i, n); err != nil {
			return err
		}
		copy(c.memory[c.i:], c.v[:n])
		c.i += uint16(n)
		c.pc += 2

	case OpLDVxI:
		n := int(x) + 1
		if err := checkRange(c.i, n); err != nil {
			return err
		}
		copy(c.v[:n], c.memory[c.i:])
		c.i += uint16(n)
		c.pc += 2

	default:
		return fmt.Errorf("%w: %04x", ErrUnknownOpcode, ins.Opcode)
	}

	return nil
}

// setWithFlag writes an arithmetic result to Vx and then the flag to VF.
func (c *Chip8) setWithFlag(x byte, result byte, flag bool) {
	c.v[x] = result
	c.v[0xf] = 0
	if flag {
		c.v[0xf] = 1
	}
}

func (c *Chip8) keyIsPressed(key byte) bool {
	return c.keys[key&0x0f]
}

// pressedKey returns the lowest numbered key that is currently pressed.
func (c *Chip8) pressedKey() (byte, bool) {
	for i, pressed := range c.keys {
		if pressed {
			return byte(i), true
		}
	}
	return 0, false
}
