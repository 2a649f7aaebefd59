package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mpingram/chip8vm/audio"
	"github.com/mpingram/chip8vm/audio/sdlaudio"
	"github.com/mpingram/chip8vm/host/glfw"
	"github.com/mpingram/chip8vm/host/headless"
	"github.com/mpingram/chip8vm/host/sdl"
	"github.com/mpingram/chip8vm/host/term"
	"github.com/mpingram/chip8vm/loop"
	"github.com/retroenv/retrogolib/log"
)

const windowTitle = "Chip-8"

// beep parameters of the synthesized sound cue
const (
	beepFrequency = 440
	beepDuration  = 100 * time.Millisecond
)

// presenter is a presentation host: input, display and a window or terminal
// to give back.
type presenter interface {
	loop.Input
	loop.Display
	Close() error
}

func openHost(opts options, logger *log.Logger) (presenter, error) {
	switch opts.host {
	case hostSDL:
		return sdl.New(windowTitle, opts.scale)
	case hostGLFW:
		return glfw.New(windowTitle, opts.scale)
	case hostTerm:
		return term.New(logger)
	case hostHeadless:
		return headless.New(opts.frames), nil
	default:
		return nil, fmt.Errorf("unsupported host: %s", opts.host)
	}
}

// openSpeaker returns the sound output. Failing to open the SDL audio device
// is not fatal, the program runs silently then.
func openSpeaker(opts options, logger *log.Logger) (audio.Speaker, error) {
	switch opts.audio {
	case audioNone:
		return audio.Silent{}, nil

	case audioBell:
		return audio.Bell(os.Stdout), nil

	case audioSDL:
		clip, err := loadBeep(opts.sound, logger)
		if err != nil {
			return nil, err
		}
		spk, err := sdlaudio.New(clip)
		if err != nil {
			logger.Warn("Sound disabled", log.Err(err))
			return audio.Silent{}, nil
		}
		return spk, nil

	default:
		return nil, fmt.Errorf("unsupported audio output: %s", opts.audio)
	}
}

func loadBeep(path string, logger *log.Logger) (audio.Clip, error) {
	if path == "" {
		return audio.Tone(audio.DefaultSampleRate, beepFrequency, beepDuration), nil
	}

	clip, err := audio.LoadClip(path)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("loading sound '%s': %w", path, err)
	}
	logger.Debug("Loaded sound",
		log.String("file", path),
		log.Int("sample_rate", clip.SampleRate),
		log.String("duration", clip.Duration().String()))
	return clip, nil
}
