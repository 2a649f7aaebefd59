package cpu

import "strings"

// PixelOn is the intensity byte used for a lit pixel by Cells(PixelOn).
const PixelOn = 0xff

// Framebuffer is the 64x32 monochrome screen. Coordinates have their origin
// in the top-left corner. Pixels are either lit or not; turning them into
// something a display understands is done by one of the serialization
// methods.
type Framebuffer struct {
	pixels [ScreenSize]bool
}

// At returns whether the pixel at x, y is lit. Coordinates outside the
// screen are never lit.
func (fb Framebuffer) At(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return fb.pixels[y*ScreenWidth+x]
}

// Lit returns whether the pixel with row-major index i is lit.
func (fb Framebuffer) Lit(i int) bool {
	if i < 0 || i >= ScreenSize {
		return false
	}
	return fb.pixels[i]
}

// Count returns the number of lit pixels.
func (fb Framebuffer) Count() int {
	n := 0
	for _, px := range fb.pixels {
		if px {
			n++
		}
	}
	return n
}

// flip toggles the pixel at x, y and returns true if it was lit before.
func (fb *Framebuffer) flip(x, y int) bool {
	i := y*ScreenWidth + x
	was := fb.pixels[i]
	fb.pixels[i] = !was
	return was
}

func (fb *Framebuffer) clear() {
	fb.pixels = [ScreenSize]bool{}
}

// Cells returns one byte per pixel in row-major order: 0 for an unlit pixel
// and on for a lit one.
func (fb Framebuffer) Cells(on byte) []byte {
	cells := make([]byte, ScreenSize)
	for i, px := range fb.pixels {
		if px {
			cells[i] = on
		}
	}
	return cells
}

// RGB332 returns the screen as 8-bit packed RRRGGGBB pixels, row-major.
func (fb Framebuffer) RGB332(on, off byte) []byte {
	cells := make([]byte, ScreenSize)
	for i, px := range fb.pixels {
		if px {
			cells[i] = on
		} else {
			cells[i] = off
		}
	}
	return cells
}

// Rows returns one string per screen row with '*' for lit pixels and ' ' for
// unlit ones.
func (fb Framebuffer) Rows() []string {
	rows := make([]string, ScreenHeight)
	var b strings.Builder
	for y := 0; y < ScreenHeight; y++ {
		b.Reset()
		for x := 0; x < ScreenWidth; x++ {
			if fb.pixels[y*ScreenWidth+x] {
				b.WriteByte('*')
			} else {
				b.WriteByte(' ')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// HalfBlocks returns the screen as ScreenHeight/2 lines of text, each
// character covering two pixel rows with the unicode half block characters.
func (fb Framebuffer) HalfBlocks() []string {
	lines := make([]string, ScreenHeight/2)
	var b strings.Builder
	for line := range lines {
		b.Reset()
		for x := 0; x < ScreenWidth; x++ {
			top := fb.pixels[(line*2)*ScreenWidth+x]
			bottom := fb.pixels[(line*2+1)*ScreenWidth+x]
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
		lines[line] = b.String()
	}
	return lines
}

// String draws the screen inside a box, one text line per pixel row.
func (fb Framebuffer) String() string {
	var b strings.Builder
	border := "+" + strings.Repeat("-", ScreenWidth) + "+\n"
	b.WriteString(border)
	for _, row := range fb.Rows() {
		b.WriteString("|")
		b.WriteString(row)
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}
