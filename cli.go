package main

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mpingram/chip8vm/loop"
	"github.com/mpingram/chip8vm/statsview"
)

// Presentation hosts.
const (
	hostSDL      = "sdl"
	hostGLFW     = "glfw"
	hostTerm     = "term"
	hostHeadless = "headless"
)

// Sound outputs.
const (
	audioSDL  = "sdl"
	audioBell = "bell"
	audioNone = "none"
)

var (
	validHosts  = []string{hostSDL, hostGLFW, hostTerm, hostHeadless}
	validAudios = []string{audioSDL, audioBell, audioNone}
)

type options struct {
	rom string

	host   string
	scale  int
	cycles int
	frames int

	audio string
	sound string

	trace bool
	debug bool
	quiet bool

	statsview bool
	memviz    string
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and the flag defaults to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: chip8vm [options] <program.ch8>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(w)
		e.flags.PrintDefaults()
	}
	fmt.Fprintln(w)
}

func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options
	flags.StringVar(&opts.host, "host", hostSDL, "presentation host ("+strings.Join(validHosts, "/")+")")
	flags.IntVar(&opts.scale, "scale", 10, "window pixels per screen pixel")
	flags.IntVar(&opts.cycles, "cycles", loop.DefaultConfig().CyclesPerFrame, "instructions executed per 60 Hz frame")
	flags.IntVar(&opts.frames, "frames", 600, "number of frames to run with the headless host, 0 runs forever")
	flags.StringVar(&opts.audio, "audio", audioSDL, "sound output ("+strings.Join(validAudios, "/")+")")
	flags.StringVar(&opts.sound, "sound", "", "name of a .wav or .mp3 file to play as beep, a square wave is played if not given")
	flags.BoolVar(&opts.trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.statsview, "statsview", false, "serve runtime statistics on "+statsview.URL(statsview.DefaultAddress))
	flags.StringVar(&opts.memviz, "memviz", "", "name of a graphviz .dot file to write the final machine state to")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return opts, &UsageError{flags: flags}
	}
	for _, arg := range rest[1:] {
		if strings.HasPrefix(arg, "-") {
			return opts, &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("argument %s found after the program file, please pass the program file as last argument", arg),
			}
		}
	}
	if len(rest) > 1 {
		return opts, &UsageError{flags: flags, msg: "only one program file can be run"}
	}
	opts.rom = rest[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// normalizeOptions normalizes and validates option values.
func normalizeOptions(opts *options) error {
	opts.host = strings.ToLower(opts.host)
	if !slices.Contains(validHosts, opts.host) {
		return fmt.Errorf("unsupported host: %s. Valid options: %s", opts.host, strings.Join(validHosts, ", "))
	}

	opts.audio = strings.ToLower(opts.audio)
	if !slices.Contains(validAudios, opts.audio) {
		return fmt.Errorf("unsupported audio output: %s. Valid options: %s", opts.audio, strings.Join(validAudios, ", "))
	}

	if opts.cycles < 1 {
		return fmt.Errorf("cycles per frame must be at least 1, got %d", opts.cycles)
	}
	if opts.scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", opts.scale)
	}
	if opts.frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", opts.frames)
	}

	// a headless run has nobody listening
	if opts.host == hostHeadless {
		opts.audio = audioNone
	}
	return nil
}
