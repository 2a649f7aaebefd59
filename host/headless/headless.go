// Package headless is a presentation host without any output. It runs a
// fixed number of frames and keeps the last rendered one, for automated runs
// and benchmarking.
package headless

import (
	"github.com/mpingram/chip8vm/cpu"
	"github.com/mpingram/chip8vm/loop"
)

// Host runs the loop for a fixed number of frames.
type Host struct {
	frames  int
	polls   int
	renders int
	keys    [cpu.NumKeys]bool
	last    cpu.Framebuffer
}

// New returns a Host that asks the loop to quit once frames frames have run.
// The loop must be driven by a loop.VirtualClock, which makes every poll
// after the first one run exactly one frame. A frames value of zero or less
// never quits.
func New(frames int) *Host {
	return &Host{frames: frames}
}

// Press holds keypad keys down for all following polls.
func (h *Host) Press(keys [cpu.NumKeys]bool) {
	h.keys = keys
}

// Poll implements loop.Input.
func (h *Host) Poll() loop.Controls {
	h.polls++
	return loop.Controls{
		Keys: h.keys,
		Quit: h.frames > 0 && h.polls > h.frames,
	}
}

// Render implements loop.Display.
func (h *Host) Render(fb cpu.Framebuffer) error {
	h.last = fb
	h.renders++
	return nil
}

// Last returns the most recently rendered frame.
func (h *Host) Last() cpu.Framebuffer {
	return h.last
}

// Renders returns the number of frames rendered.
func (h *Host) Renders() int {
	return h.renders
}

// Close does nothing.
func (h *Host) Close() error {
	return nil
}
