// Package sdlaudio plays the sound cue through an SDL audio device.
package sdlaudio

import (
	"fmt"

	"github.com/mpingram/chip8vm/audio"
	"github.com/veandco/go-sdl2/sdl"
)

// samples is the size of the device buffer in sample frames. The precise
// value is not critical, it only adds latency.
const samples = 512

// Speaker queues a clip on an SDL audio device.
type Speaker struct {
	id   sdl.AudioDeviceID
	clip []uint8
}

// New opens the default audio device for unsigned 8-bit mono playback of
// clip.
func New(clip audio.Clip) (*Speaker, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initializing SDL audio: %w", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(clip.SampleRate),
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  samples,
	}

	// with no allowed changes SDL converts to the requested format itself
	var obtained sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &obtained, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	s := &Speaker{
		id:   id,
		clip: clip.Data,
	}
	sdl.PauseAudioDevice(id, false)
	return s, nil
}

// Beep restarts the clip. A beep still playing is cut short.
func (s *Speaker) Beep() error {
	sdl.ClearQueuedAudio(s.id)
	if err := sdl.QueueAudio(s.id, s.clip); err != nil {
		return fmt.Errorf("queueing audio: %w", err)
	}
	return nil
}

// Close closes the audio device.
func (s *Speaker) Close() error {
	sdl.CloseAudioDevice(s.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
