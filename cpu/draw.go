package cpu

// drawSprite XORs the sprite onto the screen with its top-left corner at x, y.
//
// Each byte of the sprite is one 8 pixel row, highest bit leftmost. Pixels
// that fall off the right or bottom edge wrap around to the opposite edge,
// and x and y themselves are taken modulo the screen size.
//
// drawSprite returns true if any sprite pixel landed on a pixel that was
// already lit, which turns that pixel off.
func (c *Chip8) drawSprite(sprite []byte, x, y byte) bool {
	var collided bool
	for row, spriteByte := range sprite {
		yOffset := (int(y) + row) % ScreenHeight
		for col := 0; col < 8; col++ {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			xOffset := (int(x) + col) % ScreenWidth
			if c.screen.flip(xOffset, yOffset) {
				collided = true
			}
		}
	}

	// should update screen
	c.drawNeeded = true
	return collided
}
