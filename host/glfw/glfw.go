// Package glfw is a presentation host on a GLFW window with an OpenGL 2.1
// context. The framebuffer is uploaded as a luminance image and zoomed to
// the window size.
package glfw

import (
	"fmt"
	"unicode"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/mpingram/chip8vm/cpu"
	"github.com/mpingram/chip8vm/host"
	"github.com/mpingram/chip8vm/loop"
)

// Host is a GLFW window with keyboard input. All methods must be called
// from the main thread, runtime.LockOSThread must be in effect.
type Host struct {
	window *glfw.Window
	scale  int
}

// New opens a window of ScreenWidth*scale by ScreenHeight*scale pixels.
func New(title string, scale int) (*Host, error) {
	if scale < 1 {
		scale = 1
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	window, err := glfw.CreateWindow(cpu.ScreenWidth*scale, cpu.ScreenHeight*scale, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	// rows are uploaded top row first, OpenGL draws bottom up
	gl.PixelZoom(float32(scale), -float32(scale))

	return &Host{window: window, scale: scale}, nil
}

// glfwKey returns the GLFW key for a host key rune. Printable GLFW keys use
// the upper case ASCII code.
func glfwKey(r rune) glfw.Key {
	if r == host.KeyQuit {
		return glfw.KeyEscape
	}
	return glfw.Key(unicode.ToUpper(r))
}

// Poll implements loop.Input.
func (h *Host) Poll() loop.Controls {
	glfw.PollEvents()

	ctl := host.Controls(func(key rune) bool {
		return h.window.GetKey(glfwKey(key)) == glfw.Press
	})
	if ctl.Quit {
		h.window.SetShouldClose(true)
	}
	ctl.Quit = h.window.ShouldClose()
	return ctl
}

// Render implements loop.Display.
func (h *Host) Render(fb cpu.Framebuffer) error {
	cells := fb.Cells(cpu.PixelOn)

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.RasterPos2f(-1, 1)
	gl.DrawPixels(cpu.ScreenWidth, cpu.ScreenHeight, gl.LUMINANCE, gl.UNSIGNED_BYTE, gl.Ptr(cells))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("drawing pixels: OpenGL error 0x%04x", code)
	}

	h.window.SwapBuffers()
	return nil
}

// Close destroys the window and terminates GLFW.
func (h *Host) Close() error {
	if h.window != nil {
		h.window.Destroy()
		h.window = nil
	}
	glfw.Terminate()
	return nil
}
