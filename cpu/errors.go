package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad is returned when a program image cannot be read.
	ErrLoad = errors.New("program could not be read")
	// ErrProgramTooLarge is returned when a program image does not fit in memory.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrAddressFault is returned when an instruction reaches outside memory.
	ErrAddressFault = errors.New("address fault")
	// ErrUnknownOpcode is returned for opcodes that do not decode to an instruction.
	ErrUnknownOpcode = errors.New("unknown instruction")
	// ErrStackOverflow is returned by CALL when the stack already holds StackDepth addresses.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by RET with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// Fault is returned by Step when an instruction cannot be executed. The
// instruction has no effect: PC still points at it.
type Fault struct {
	PC     uint16
	Opcode uint16
	// Fetched is false when the fault happened before the opcode could be read.
	Fetched bool
	Err     error
}

func (f *Fault) Error() string {
	if !f.Fetched {
		return fmt.Sprintf("fetch at %04x: %v", f.PC, f.Err)
	}
	return fmt.Sprintf("%04x at %04x: %v", f.Opcode, f.PC, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
