package cpu

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies a decoded instruction.
type Op uint8

// Decoded instructions. The comment on each is its opcode pattern.
const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEByte     // 3XNN
	OpSNEByte    // 4XNN
	OpSEReg      // 5XY0
	OpLDByte     // 6XNN
	OpADDByte    // 7XNN
	OpLDReg      // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADDReg     // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEReg     // 9XY0
	OpLDI        // ANNN
	OpJPV0       // BNNN
	OpRND        // CXNN
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxK      // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDI       // FX1E
	OpLDF        // FX29
	OpLDB        // FX33
	OpLDIVx      // FX55
	OpLDVxI      // FX65
)

// mnemonics maps each Op to its instruction in the CHIP-8 instruction set
// description.
var mnemonics = map[Op]*chip8.Instruction{
	OpCLS:     chip8.Cls,
	OpRET:     chip8.Ret,
	OpJP:      chip8.Jp,
	OpCALL:    chip8.Call,
	OpSEByte:  chip8.Se,
	OpSNEByte: chip8.Sne,
	OpSEReg:   chip8.Se,
	OpLDByte:  chip8.Ld,
	OpADDByte: chip8.Add,
	OpLDReg:   chip8.Ld,
	OpOR:      chip8.Or,
	OpAND:     chip8.And,
	OpXOR:     chip8.Xor,
	OpADDReg:  chip8.Add,
	OpSUB:     chip8.Sub,
	OpSHR:     chip8.Shr,
	OpSUBN:    chip8.Subn,
	OpSHL:     chip8.Shl,
	OpSNEReg:  chip8.Sne,
	OpLDI:     chip8.Ld,
	OpJPV0:    chip8.Jp,
	OpRND:     chip8.Rnd,
	OpDRW:     chip8.Drw,
	OpSKP:     chip8.Skp,
	OpSKNP:    chip8.Sknp,
	OpLDVxDT:  chip8.Ld,
	OpLDVxK:   chip8.Ld,
	OpLDDTVx:  chip8.Ld,
	OpLDSTVx:  chip8.Ld,
	OpADDI:    chip8.Add,
	OpLDF:     chip8.Ld,
	OpLDB:     chip8.Ld,
	OpLDIVx:   chip8.Ld,
	OpLDVxI:   chip8.Ld,
}

// Mnemonic returns the assembler name of the instruction, or "???" for
// OpUnknown.
func (op Op) Mnemonic() string {
	ins, ok := mnemonics[op]
	if !ok || ins == nil {
		return "???"
	}
	return strings.ToUpper(ins.Name)
}

// Instruction is a decoded opcode.
//
// key:
// ------
// NNN - low 12 bits of opcode
// NN - opcode's low byte
// N - low 4 bits of opcode
// X - low 4 bits of opcode's high byte
// Y - high 4 bits of opcode's low byte
type Instruction struct {
	Op     Op
	Opcode uint16
	NNN    uint16
	NN     byte
	N      byte
	X      byte
	Y      byte
}

// Decode splits an opcode into its fields and identifies the instruction.
// Opcodes that are not part of the instruction set decode with Op set to
// OpUnknown.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode: opcode,
		NNN:    opcode & 0x0fff,
		NN:     byte(opcode & 0x00ff),
		N:      byte(opcode & 0x000f),
		X:      byte(opcode & 0x0f00 >> 8),
		Y:      byte(opcode & 0x00f0 >> 4),
	}
	ins.Op = decodeOp(opcode, ins.NN, ins.N)
	return ins
}

func decodeOp(opcode uint16, nn, n byte) Op {
	switch first := opcode & 0xf000 >> 12; first {
	case 0x0:
		switch opcode {
		case 0x00e0:
			return OpCLS
		case 0x00ee:
			return OpRET
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEByte
	case 0x4:
		return OpSNEByte
	case 0x5:
		if n == 0x0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDByte
	case 0x7:
		return OpADDByte
	case 0x8:
		switch n {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xe:
			return OpSHL
		}
	case 0x9:
		if n == 0x0 {
			return OpSNEReg
		}
	case 0xa:
		return OpLDI
	case 0xb:
		return OpJPV0
	case 0xc:
		return OpRND
	case 0xd:
		return OpDRW
	case 0xe:
		switch nn {
		case 0x9e:
			return OpSKP
		case 0xa1:
			return OpSKNP
		}
	case 0xf:
		switch nn {
		case 0x07:
			return OpLDVxDT
		case 0x0a:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1e:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDIVx
		case 0x65:
			return OpLDVxI
		}
	}
	return OpUnknown
}

// String disassembles the instruction, for example "DRW V0, V1, 5".
func (ins Instruction) String() string {
	name := ins.Op.Mnemonic()
	switch ins.Op {
	case OpCLS, OpRET:
		return name
	case OpJP, OpCALL:
		return fmt.Sprintf("%s %03X", name, ins.NNN)
	case OpJPV0:
		return fmt.Sprintf("%s V0, %03X", name, ins.NNN)
	case OpLDI:
		return fmt.Sprintf("%s I, %03X", name, ins.NNN)
	case OpSEByte, OpSNEByte, OpLDByte, OpADDByte, OpRND:
		return fmt.Sprintf("%s V%X, %02X", name, ins.X, ins.NN)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("%s V%X, V%X", name, ins.X, ins.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("%s V%X", name, ins.X)
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %X", name, ins.X, ins.Y, ins.N)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", name, ins.X)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", name, ins.X)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", name, ins.X)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", name, ins.X)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", name, ins.X)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", name, ins.X)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", name, ins.X)
	case OpLDIVx:
		return fmt.Sprintf("%s [I], V%X", name, ins.X)
	case OpLDVxI:
		return fmt.Sprintf("%s V%X, [I]", name, ins.X)
	}
	return fmt.Sprintf("DW %04X", ins.Opcode)
}
