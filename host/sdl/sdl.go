// Package sdl is a presentation host on SDL2. The framebuffer is streamed
// into an RGB332 texture that the renderer scales to the window.
package sdl

import (
	"fmt"

	"github.com/mpingram/chip8vm/cpu"
	"github.com/mpingram/chip8vm/host"
	"github.com/mpingram/chip8vm/loop"
	"github.com/veandco/go-sdl2/sdl"
)

// RGB332 pixel colors.
const (
	colorOn  = 0xff
	colorOff = 0x00
)

// Host is an SDL window with keyboard input. All methods must be called from
// the thread that called New.
type Host struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	scancodes map[rune]sdl.Scancode
	quit      bool
}

// New opens a window of ScreenWidth*scale by ScreenHeight*scale pixels.
func New(title string, scale int) (*Host, error) {
	if scale < 1 {
		scale = 1
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	h := &Host{}
	var err error
	h.window, err = sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cpu.ScreenWidth*scale), int32(cpu.ScreenHeight*scale), sdl.WINDOW_SHOWN)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	h.renderer, err = sdl.CreateRenderer(h.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	h.texture, err = h.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB332), int(sdl.TEXTUREACCESS_STREAMING),
		cpu.ScreenWidth, cpu.ScreenHeight)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	h.scancodes = map[rune]sdl.Scancode{}
	for _, r := range host.Keypad {
		h.scancodes[r] = sdl.GetScancodeFromKey(sdl.Keycode(r))
	}
	for _, r := range []rune{host.KeyQuit, host.KeyPause, host.KeyResume, host.KeyStep, host.KeyDump} {
		h.scancodes[r] = sdl.GetScancodeFromKey(sdl.Keycode(r))
	}
	return h, nil
}

// Poll implements loop.Input.
func (h *Host) Poll() loop.Controls {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			h.quit = true
		}
	}

	state := sdl.GetKeyboardState()
	ctl := host.Controls(func(key rune) bool {
		code, ok := h.scancodes[key]
		return ok && int(code) < len(state) && state[code] != 0
	})
	ctl.Quit = ctl.Quit || h.quit
	return ctl
}

// Render implements loop.Display.
func (h *Host) Render(fb cpu.Framebuffer) error {
	pixels, pitch, err := h.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("locking texture: %w", err)
	}
	rgb := fb.RGB332(colorOn, colorOff)
	for y := 0; y < cpu.ScreenHeight; y++ {
		copy(pixels[y*pitch:], rgb[y*cpu.ScreenWidth:(y+1)*cpu.ScreenWidth])
	}
	h.texture.Unlock()

	if err := h.renderer.Clear(); err != nil {
		return fmt.Errorf("clearing renderer: %w", err)
	}
	if err := h.renderer.Copy(h.texture, nil, nil); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	h.renderer.Present()
	return nil
}

// Close destroys the window and shuts SDL down.
func (h *Host) Close() error {
	if h.texture != nil {
		_ = h.texture.Destroy()
		h.texture = nil
	}
	if h.renderer != nil {
		_ = h.renderer.Destroy()
		h.renderer = nil
	}
	if h.window != nil {
		_ = h.window.Destroy()
		h.window = nil
	}
	sdl.Quit()
	return nil
}
