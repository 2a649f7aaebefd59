package audio

import (
	"fmt"
	"io"
)

// Speaker plays the sound cue.
type Speaker interface {
	Beep() error
	Close() error
}

// Silent is a Speaker that plays nothing.
type Silent struct{}

// Beep does nothing.
func (Silent) Beep() error { return nil }

// Close does nothing.
func (Silent) Close() error { return nil }

// BellSpeaker rings the terminal bell.
type BellSpeaker struct {
	w io.Writer
}

// Bell returns a Speaker that writes the ASCII BEL character to w.
func Bell(w io.Writer) *BellSpeaker {
	return &BellSpeaker{w: w}
}

// Beep writes BEL.
func (b *BellSpeaker) Beep() error {
	if _, err := b.w.Write([]byte{'\a'}); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}

// Close does nothing, the writer is owned by the caller.
func (b *BellSpeaker) Close() error {
	return nil
}
