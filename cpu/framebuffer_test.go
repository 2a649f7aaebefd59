package cpu

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// testFramebuffer has the top-left pixel, the pixel below it and the
// bottom-right pixel lit.
func testFramebuffer() Framebuffer {
	var fb Framebuffer
	fb.flip(0, 0)
	fb.flip(0, 1)
	fb.flip(ScreenWidth-1, ScreenHeight-1)
	return fb
}

func TestFramebuffer_At(t *testing.T) {
	fb := testFramebuffer()
	assert.True(t, fb.At(0, 0))
	assert.True(t, fb.At(ScreenWidth-1, ScreenHeight-1))
	assert.False(t, fb.At(1, 0))
	assert.False(t, fb.At(-1, 0))
	assert.False(t, fb.At(ScreenWidth, 0))
	assert.True(t, fb.Lit(ScreenWidth))
	assert.False(t, fb.Lit(ScreenSize))
	assert.Equal(t, 3, fb.Count())
}

func TestFramebuffer_Flip(t *testing.T) {
	var fb Framebuffer
	assert.False(t, fb.flip(3, 4))
	assert.True(t, fb.At(3, 4))
	assert.True(t, fb.flip(3, 4))
	assert.False(t, fb.At(3, 4))

	fb.flip(5, 5)
	fb.clear()
	assert.Equal(t, 0, fb.Count())
}

func TestFramebuffer_Cells(t *testing.T) {
	fb := testFramebuffer()

	cells := fb.Cells(PixelOn)
	assert.Equal(t, ScreenSize, len(cells))
	assert.Equal(t, byte(PixelOn), cells[0])
	assert.Equal(t, byte(PixelOn), cells[ScreenWidth])
	assert.Equal(t, byte(0), cells[1])
	assert.Equal(t, byte(PixelOn), cells[ScreenSize-1])

	rgb := fb.RGB332(0xe0, 0x03)
	assert.Equal(t, byte(0xe0), rgb[0])
	assert.Equal(t, byte(0x03), rgb[1])
}

func TestFramebuffer_Text(t *testing.T) {
	fb := testFramebuffer()

	rows := fb.Rows()
	assert.Equal(t, ScreenHeight, len(rows))
	assert.Equal(t, "*"+strings.Repeat(" ", ScreenWidth-1), rows[0])
	assert.Equal(t, strings.Repeat(" ", ScreenWidth-1)+"*", rows[ScreenHeight-1])

	lines := fb.HalfBlocks()
	assert.Equal(t, ScreenHeight/2, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "█ "))
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], " ▄"))

	s := fb.String()
	lines = strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	assert.Equal(t, ScreenHeight+2, len(lines))
	assert.Equal(t, "+"+strings.Repeat("-", ScreenWidth)+"+", lines[0])
	assert.Equal(t, "|*"+strings.Repeat(" ", ScreenWidth-1)+"|", lines[1])
}
