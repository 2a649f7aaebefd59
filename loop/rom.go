package loop

import (
	"fmt"
	"os"

	"github.com/mpingram/chip8vm/cpu"
)

// ReadROM reads a program image from disk without loading it anywhere.
func ReadROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cpu.ErrLoad, err)
	}
	if len(data) > cpu.MaxProgramSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, at most %d fit", cpu.ErrProgramTooLarge, path, len(data), cpu.MaxProgramSize)
	}
	return data, nil
}

// LoadROM resets c to its power-on state and loads the program at path.
// The file is read first, so a missing or oversized file leaves c unchanged.
func LoadROM(c *cpu.Chip8, path string) error {
	data, err := ReadROM(path)
	if err != nil {
		return err
	}
	c.Reset()
	return c.Load(data)
}
