package cpu

func (c *Chip8) stackPush(addr uint16) error {
	if c.sp >= StackDepth {
		return ErrStackOverflow
	}
	c.stack[c.sp] = addr
	c.sp++
	return nil
}

func (c *Chip8) stackPop() (uint16, error) {
	if c.sp == 0 {
		return 0, ErrStackUnderflow
	}
	c.sp--
	return c.stack[c.sp], nil
}
