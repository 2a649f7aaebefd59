package cpu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDraw_Collision(t *testing.T) {
	// LD I, 300; DRW V0, V1, 1 twice
	c := newTestChip8(t, 0xa300, 0xd011, 0xd011)
	c.memory[0x300] = 0xff
	c.v[0], c.v[1] = 8, 4

	stepN(t, c, 2)
	fb := c.Framebuffer()
	assert.Equal(t, 8, fb.Count())
	assert.Equal(t, byte(0), c.V(0xf))
	for x := 8; x < 16; x++ {
		assert.True(t, fb.At(x, 4))
	}

	stepN(t, c, 1)
	fb = c.Framebuffer()
	assert.Equal(t, 0, fb.Count())
	assert.Equal(t, byte(1), c.V(0xf))
}

func TestDraw_FlagClearedWithoutCollision(t *testing.T) {
	c := newTestChip8(t, 0xa300, 0xd011, 0xd011, 0xd011)
	c.memory[0x300] = 0x80

	stepN(t, c, 3)
	assert.Equal(t, byte(1), c.V(0xf))

	stepN(t, c, 1)
	assert.Equal(t, byte(0), c.V(0xf))
	fb := c.Framebuffer()
	assert.True(t, fb.At(0, 0))
}

func TestDraw_Wrap(t *testing.T) {
	tests := []struct {
		name   string
		x, y   byte
		sprite []byte
		lit    [][2]int
	}{
		{
			name:   "right edge",
			x:      63,
			sprite: []byte{0xff},
			lit:    [][2]int{{63, 0}, {0, 0}, {1, 0}, {6, 0}},
		},
		{
			name:   "bottom edge",
			x:      10,
			y:      31,
			sprite: []byte{0x80, 0x80},
			lit:    [][2]int{{10, 31}, {10, 0}},
		},
		{
			name:   "start coordinates past the screen",
			x:      ScreenWidth + 2,
			y:      ScreenHeight + 3,
			sprite: []byte{0x80},
			lit:    [][2]int{{2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			collided := c.drawSprite(tt.sprite, tt.x, tt.y)
			assert.False(t, collided)

			fb := c.Framebuffer()
			for _, p := range tt.lit {
				assert.True(t, fb.At(p[0], p[1]))
			}
			lit := 0
			for _, row := range tt.sprite {
				for b := row; b != 0; b &= b - 1 {
					lit++
				}
			}
			assert.Equal(t, lit, fb.Count())
		})
	}
}

func TestDraw_FontGlyph(t *testing.T) {
	// LD V2, 0; LD F, V2; DRW V0, V1, 5
	c := newTestChip8(t, 0x6200, 0xf229, 0xd015)
	c.ClearDrawNeeded()
	stepN(t, c, 3)

	fb := c.Framebuffer()
	assert.True(t, c.DrawNeeded())
	assert.Equal(t, 14, fb.Count())
	assert.Equal(t, []string{"****", "*  *", "*  *", "*  *", "****"}, []string{
		fb.Rows()[0][:4], fb.Rows()[1][:4], fb.Rows()[2][:4], fb.Rows()[3][:4], fb.Rows()[4][:4],
	})
}
