// Package audio provides the sound cue of the virtual machine: a short clip
// played whenever the sound timer runs out.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// Errors returned by the clip loaders.
var (
	ErrUnsupportedFormat = errors.New("unsupported sound format")
	ErrInvalidClip       = errors.New("invalid sound file")
)

// DefaultSampleRate is the sample rate of synthesized clips.
const DefaultSampleRate = 22050

// Clip is unsigned 8-bit mono PCM, silence at 0x80.
type Clip struct {
	SampleRate int
	Data       []uint8
}

// Duration returns the play time of the clip.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Data)) * time.Second / time.Duration(c.SampleRate)
}

// LoadClip loads a .wav or .mp3 file. Stereo sources are reduced to their
// first channel.
func LoadClip(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("opening sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return DecodeWAV(f)
	case ".mp3":
		return DecodeMP3(f)
	default:
		return Clip{}, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, ext)
	}
}

// DecodeWAV decodes a PCM wave file.
func DecodeWAV(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("wav: %w", ErrInvalidClip)
	}

	// load all data at once
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("wav: %w", err)
	}
	if buf.SourceBitDepth == 0 {
		buf.SourceBitDepth = int(dec.BitDepth)
	}
	return clipFromIntBuffer(buf)
}

// DecodeMP3 decodes an MP3 stream.
func DecodeMP3(r io.Reader) (Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Clip{}, fmt.Errorf("mp3: %w", err)
	}

	clip := Clip{SampleRate: dec.SampleRate()}
	chunk := make([]byte, 4096)
	for {
		n, err := dec.Read(chunk)
		// the decoded stream is always 16 bit little endian stereo, a
		// sample frame is 4 bytes and the left channel comes first
		for i := 0; i+1 < n; i += 4 {
			sample := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			clip.Data = append(clip.Data, uint8(sample>>8)+0x80)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Clip{}, fmt.Errorf("mp3: %w", err)
		}
	}
	return clip, nil
}

// Tone synthesizes a square wave of the given frequency and duration.
func Tone(sampleRate, freq int, d time.Duration) Clip {
	n := int(time.Duration(sampleRate) * d / time.Second)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, n),
		SourceBitDepth: 8,
	}

	halfPeriod := 1
	if freq > 0 {
		halfPeriod = max(sampleRate/(2*freq), 1)
	}
	for i := range buf.Data {
		if (i/halfPeriod)%2 == 0 {
			buf.Data[i] = 0xc0
		} else {
			buf.Data[i] = 0x40
		}
	}

	clip, _ := clipFromIntBuffer(buf)
	return clip
}

// clipFromIntBuffer converts the first channel of buf to unsigned 8-bit.
// 8-bit sources are unsigned already, wider ones are signed.
func clipFromIntBuffer(buf *audio.IntBuffer) (Clip, error) {
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return Clip{}, fmt.Errorf("%w: no channels", ErrInvalidClip)
	}
	depth := buf.SourceBitDepth
	if depth != 8 && depth != 16 && depth != 24 && depth != 32 {
		return Clip{}, fmt.Errorf("%w: %d bit samples", ErrInvalidClip, depth)
	}

	channels := buf.Format.NumChannels
	clip := Clip{
		SampleRate: buf.Format.SampleRate,
		Data:       make([]uint8, 0, len(buf.Data)/channels),
	}
	for i := 0; i < len(buf.Data); i += channels {
		sample := buf.Data[i]
		if depth == 8 {
			clip.Data = append(clip.Data, uint8(sample))
			continue
		}
		clip.Data = append(clip.Data, uint8(sample>>(depth-8))+0x80)
	}
	return clip, nil
}
