// Package loop drives a cpu.Chip8 in real time: it polls a host for input,
// runs a fixed batch of instructions per 60 Hz frame, ticks the timers,
// forwards the sound cue and hands changed frames to the host for display.
package loop

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mpingram/chip8vm/cpu"
	"github.com/retroenv/retrogolib/log"
)

// Config holds the timing of the driver loop.
type Config struct {
	// CyclesPerFrame is the number of instructions executed per frame.
	CyclesPerFrame int
	// FrameDuration is the length of one frame. The timers tick once per frame.
	FrameDuration time.Duration
}

// DefaultConfig returns the timing used by the COSMAC VIP era interpreters:
// 10 instructions per 60 Hz frame.
func DefaultConfig() Config {
	return Config{
		CyclesPerFrame: 10,
		FrameDuration:  16666600 * time.Nanosecond,
	}
}

// maxFrameLag bounds how many frames are run back to back to catch up
// after the process was stalled.
const maxFrameLag = 10

// Controls is the state of the host input at one poll.
type Controls struct {
	// Keys holds the hexadecimal keypad, index 0x0 is key '0'.
	Keys [cpu.NumKeys]bool

	Quit   bool
	Pause  bool
	Resume bool
	Step   bool
	Dump   bool
}

// Input is a source of keypad and meta key state.
type Input interface {
	Poll() Controls
}

// Display shows a frame.
type Display interface {
	Render(fb cpu.Framebuffer) error
}

// Speaker plays the sound cue.
type Speaker interface {
	Beep() error
}

// Loop owns a Chip8 and steps it against a clock.
type Loop struct {
	cpu     *cpu.Chip8
	input   Input
	display Display
	speaker Speaker
	cfg     Config
	logger  *log.Logger

	clock Clock
	dump  io.Writer

	paused bool
	// meta key state of the previous poll, meta keys act on press only
	previous Controls
	frames   uint64
}

// Option configures a Loop at construction.
type Option func(*Loop)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(l *Loop) {
		l.clock = clock
	}
}

// WithDumpWriter sets where the dump meta key writes the machine state.
// Defaults to os.Stdout.
func WithDumpWriter(w io.Writer) Option {
	return func(l *Loop) {
		l.dump = w
	}
}

// New returns a Loop driving c. A nil speaker disables sound.
func New(c *cpu.Chip8, in Input, out Display, spk Speaker, cfg Config, logger *log.Logger, opts ...Option) *Loop {
	l := &Loop{
		cpu:     c,
		input:   in,
		display: out,
		speaker: spk,
		cfg:     cfg,
		logger:  logger,
		clock:   SystemClock{},
		dump:    os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cfg.CyclesPerFrame <= 0 {
		l.cfg.CyclesPerFrame = DefaultConfig().CyclesPerFrame
	}
	if l.cfg.FrameDuration <= 0 {
		l.cfg.FrameDuration = DefaultConfig().FrameDuration
	}
	return l
}

// Frames returns the number of frames completed.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Paused reports whether execution is paused.
func (l *Loop) Paused() bool {
	return l.paused
}

// Frame polls the input once and runs one frame. Meta keys are ignored.
func (l *Loop) Frame() error {
	ctl := l.input.Poll()
	l.cpu.SetKeys(ctl.Keys)
	return l.frame()
}

// frame runs CyclesPerFrame instructions, ticks the timers once, plays the
// sound cue and renders if the screen changed. It stops at the first fault.
func (l *Loop) frame() error {
	for range l.cfg.CyclesPerFrame {
		if err := l.cpu.Step(); err != nil {
			return err
		}
	}

	if l.cpu.TickTimers() && l.speaker != nil {
		if err := l.speaker.Beep(); err != nil {
			l.logger.Warn("Playing sound failed", log.Err(err))
		}
	}

	if l.cpu.DrawNeeded() {
		if err := l.display.Render(l.cpu.Framebuffer()); err != nil {
			return fmt.Errorf("rendering frame: %w", err)
		}
		l.cpu.ClearDrawNeeded()
	}

	l.frames++
	return nil
}

// Run executes frames at the configured rate until the input requests to
// quit, ctx is cancelled or the program faults. Quitting and cancellation
// return nil.
//
// Elapsed time is accumulated and consumed in whole frames, so the rate
// stays fixed however long a single poll or render takes.
func (l *Loop) Run(ctx context.Context) error {
	// show the blank screen before the first frame
	if err := l.display.Render(l.cpu.Framebuffer()); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	l.cpu.ClearDrawNeeded()

	last := l.clock.Now()
	var accumulator time.Duration

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("Driver loop cancelled", log.Int("frames", int(l.frames)))
			return nil
		default:
		}

		ctl := l.input.Poll()
		if ctl.Quit {
			l.logger.Debug("Quit requested", log.Int("frames", int(l.frames)))
			return nil
		}
		l.cpu.SetKeys(ctl.Keys)

		step, err := l.handleMeta(ctl)
		if err != nil {
			return err
		}

		now := l.clock.Now()
		accumulator += now.Sub(last)
		last = now

		switch {
		case l.paused:
			accumulator = 0
			if step {
				if err := l.runFrame(); err != nil {
					return err
				}
			}

		default:
			if accumulator > maxFrameLag*l.cfg.FrameDuration {
				l.logger.Debug("Dropping frames", log.String("behind", accumulator.String()))
				accumulator = maxFrameLag * l.cfg.FrameDuration
			}
			for accumulator >= l.cfg.FrameDuration {
				if err := l.runFrame(); err != nil {
					return err
				}
				accumulator -= l.cfg.FrameDuration
			}
		}

		l.clock.Sleep(l.cfg.FrameDuration - accumulator)
	}
}

func (l *Loop) runFrame() error {
	if err := l.frame(); err != nil {
		l.logger.Error("Program stopped",
			log.Hex("pc", l.cpu.PC()),
			log.Stringer("instruction", l.cpu.Current()),
			log.Err(err))
		return err
	}
	return nil
}

// handleMeta acts on meta keys that went down since the previous poll and
// returns whether a single step was requested while paused.
func (l *Loop) handleMeta(ctl Controls) (bool, error) {
	prev := l.previous
	l.previous = ctl

	var step bool
	switch {
	case ctl.Pause && !prev.Pause && !l.paused:
		l.paused = true
		l.logger.Info("Paused", log.Hex("pc", l.cpu.PC()))

	case ctl.Resume && !prev.Resume && l.paused:
		l.paused = false
		l.logger.Info("Resumed")

	case ctl.Step && !prev.Step && l.paused:
		step = true
	}

	if ctl.Dump && !prev.Dump {
		if err := l.Dump(); err != nil {
			return false, err
		}
	}
	return step, nil
}

// Dump writes the registers, stack and screen to the dump writer.
func (l *Loop) Dump() error {
	s := l.cpu.Snapshot()
	if _, err := fmt.Fprintf(l.dump, "%s%s", s.Registers(), s.Screen); err != nil {
		return fmt.Errorf("writing state dump: %w", err)
	}
	return nil
}
