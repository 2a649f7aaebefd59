package cpu

// TickTimers decrements the delay and sound timers by one if they are not
// already zero. It must be called sixty times a second, however many
// instructions were executed in between.
//
// The return value is true when the sound timer ran out on this tick, which is
// the moment the owner should play the beep.
func (c *Chip8) TickTimers() (sound bool) {
	if c.dt > 0 {
		c.dt--
	}
	if c.st > 0 {
		sound = c.st == 1
		c.st--
	}
	return sound
}
