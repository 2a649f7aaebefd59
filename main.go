// Package main implements the entry point of a CHIP-8 virtual machine.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/bradleyjkemp/memviz"
	"github.com/mpingram/chip8vm/cpu"
	"github.com/mpingram/chip8vm/host/headless"
	"github.com/mpingram/chip8vm/loop"
	"github.com/mpingram/chip8vm/statsview"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL and OpenGL require all calls from the main thread
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		logger := createLogger(opts.debug, opts.quiet)
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage(os.Stderr)
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := createLogger(opts.debug, opts.quiet)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts, os.Stdout); err != nil {
		logger.Error("Running program failed", log.String("file", opts.rom), log.Err(err))
		os.Exit(1)
	}
}

// createLogger creates a logger with appropriate settings.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func printBanner(logger *log.Logger, opts options) {
	if opts.quiet {
		return
	}
	logger.Info("chip8vm", log.String("version", buildinfo.Version(version, commit, date)))
}

// run loads the program and drives it on the selected host until it quits,
// faults or ctx is cancelled.
func run(ctx context.Context, logger *log.Logger, opts options, stdout io.Writer) error {
	// read before opening any window so a bad path fails fast
	rom, err := loop.ReadROM(opts.rom)
	if err != nil {
		return err
	}

	c := cpu.New(cpu.WithLogger(logger), cpu.WithTrace(opts.trace))
	if err := c.Load(rom); err != nil {
		return err
	}
	logger.Debug("Program loaded", log.String("file", opts.rom), log.Int("size", len(rom)))

	h, err := openHost(opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			logger.Warn("Closing host failed", log.Err(err))
		}
	}()

	spk, err := openSpeaker(opts, logger)
	if err != nil {
		return err
	}
	defer func() { _ = spk.Close() }()

	if opts.statsview {
		url := statsview.Launch(statsview.DefaultAddress)
		logger.Info("Stats server available", log.String("url", url))
	}

	cfg := loop.DefaultConfig()
	cfg.CyclesPerFrame = opts.cycles
	loopOpts := []loop.Option{loop.WithDumpWriter(stdout)}
	if opts.host == hostHeadless {
		loopOpts = append(loopOpts, loop.WithClock(loop.NewVirtualClock()))
	}

	l := loop.New(c, h, h, spk, cfg, logger, loopOpts...)
	runErr := l.Run(ctx)
	logger.Debug("Stopped", log.Int("frames", int(l.Frames())))

	if hl, ok := h.(*headless.Host); ok {
		fmt.Fprint(stdout, hl.Last())
	}

	if opts.memviz != "" {
		if err := writeMemviz(opts.memviz, c.Snapshot()); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// writeMemviz writes the machine state as a graphviz graph.
func writeMemviz(path string, state cpu.State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating memviz file: %w", err)
	}
	memviz.Map(f, &state)
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing memviz file: %w", err)
	}
	return nil
}
