// Package term is a presentation host for a text terminal. The screen is
// drawn with unicode half blocks, two pixel rows per text line, and the
// keyboard is read in raw mode.
package term

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mpingram/chip8vm/cpu"
	"github.com/mpingram/chip8vm/host"
	"github.com/mpingram/chip8vm/loop"
	rawterm "github.com/pkg/term"
	"github.com/retroenv/retrogolib/log"
)

// HoldTime is how long a keystroke keeps its key down. A terminal reports
// key presses but no releases, auto repeat keeps a held key alive.
const HoldTime = 150 * time.Millisecond

const (
	ctrlC       = 0x03
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Host draws into a terminal and reads keystrokes from it.
type Host struct {
	tty    *rawterm.Term
	out    io.Writer
	logger *log.Logger
	now    func() time.Time

	mu    sync.Mutex
	latch keyLatch
	done  chan struct{}
	err   error
}

// New opens the controlling terminal in raw mode.
func New(logger *log.Logger) (*Host, error) {
	tty, err := rawterm.Open("/dev/tty", rawterm.RawMode)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}

	h := newHost(tty, tty, logger, time.Now)
	h.tty = tty
	if _, err := io.WriteString(h.out, clearScreen+hideCursor); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("writing to terminal: %w", err)
	}
	return h, nil
}

func newHost(in io.Reader, out io.Writer, logger *log.Logger, now func() time.Time) *Host {
	h := &Host{
		out:    out,
		logger: logger,
		now:    now,
		latch:  newKeyLatch(),
		done:   make(chan struct{}),
	}
	go h.read(in)
	return h
}

// read feeds keystrokes into the latch until in fails.
func (h *Host) read(in io.Reader) {
	defer close(h.done)

	buf := make([]byte, 32)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			h.mu.Lock()
			h.latch.feed(buf[:n], h.now())
			h.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.mu.Lock()
				h.err = err
				h.mu.Unlock()
			}
			return
		}
	}
}

// Poll implements loop.Input.
func (h *Host) Poll() loop.Controls {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		h.logger.Error("Reading terminal failed", log.Err(h.err))
		h.err = nil
		h.latch.quit = true
	}
	return h.latch.controls(h.now())
}

// Render implements loop.Display.
func (h *Host) Render(fb cpu.Framebuffer) error {
	var b strings.Builder
	b.WriteString(cursorHome)
	// raw mode output needs explicit carriage returns
	b.WriteString(strings.Join(fb.HalfBlocks(), "\r\n"))
	if _, err := io.WriteString(h.out, b.String()); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	return nil
}

// Close restores the terminal.
func (h *Host) Close() error {
	if h.tty == nil {
		return nil
	}
	_, _ = io.WriteString(h.out, showCursor+"\r\n")
	if err := h.tty.Restore(); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	if err := h.tty.Close(); err != nil {
		return fmt.Errorf("closing terminal: %w", err)
	}
	h.tty = nil
	return nil
}

// keyLatch turns a stream of keystrokes into held keys.
type keyLatch struct {
	until map[rune]time.Time
	quit  bool
}

func newKeyLatch() keyLatch {
	return keyLatch{until: map[rune]time.Time{}}
}

// feed registers the keystrokes of one read. A lone escape is the quit key,
// an escape followed by more bytes is a control sequence and is ignored.
func (k *keyLatch) feed(data []byte, now time.Time) {
	if data[0] == byte(host.KeyQuit) {
		if len(data) == 1 {
			k.quit = true
		}
		return
	}
	for _, c := range data {
		if c == ctrlC {
			k.quit = true
			return
		}
		k.until[rune(c)] = now.Add(HoldTime)
		if lower := rune(c) | 0x20; c >= 'A' && c <= 'Z' {
			k.until[lower] = now.Add(HoldTime)
		}
	}
}

func (k *keyLatch) controls(now time.Time) loop.Controls {
	ctl := host.Controls(func(key rune) bool {
		until, ok := k.until[key]
		return ok && now.Before(until)
	})
	ctl.Quit = k.quit
	return ctl
}
