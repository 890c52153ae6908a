// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

// Opcode selects the operation of an instruction. It is the value of the
// instruction cell modulo 100.
type Opcode int64

const (
	OpAdd        Opcode = 1
	OpMultiply   Opcode = 2
	OpInput      Opcode = 3
	OpOutput     Opcode = 4
	OpJumpTrue   Opcode = 5
	OpJumpFalse  Opcode = 6
	OpLessThan   Opcode = 7
	OpEquals     Opcode = 8
	OpAdjustBase Opcode = 9
	OpHalt       Opcode = 99
)

// Mode is the addressing mode of a single parameter.
type Mode uint8

const (
	ModePosition  Mode = 0
	ModeImmediate Mode = 1
	ModeRelative  Mode = 2
)

// The widest instruction is an opcode cell followed by three parameters.
const MaxParams = 3

// Valid reports whether op is one of the defined opcodes.
func (op Opcode) Valid() bool {
	switch op {
	case OpAdd, OpMultiply, OpInput, OpOutput, OpJumpTrue, OpJumpFalse,
		OpLessThan, OpEquals, OpAdjustBase, OpHalt:
		return true
	}

	return false
}

// Arity returns the number of parameters that follow the opcode cell, or -1
// for an undefined opcode.
func (op Opcode) Arity() int {
	switch op {
	case OpAdd, OpMultiply, OpLessThan, OpEquals:
		return 3
	case OpJumpTrue, OpJumpFalse:
		return 2
	case OpInput, OpOutput, OpAdjustBase:
		return 1
	case OpHalt:
		return 0
	}

	return -1
}

func (op Opcode) String() string {
	switch op {
	case OpAdd:
		return "ADD"
	case OpMultiply:
		return "MUL"
	case OpInput:
		return "IN"
	case OpOutput:
		return "OUT"
	case OpJumpTrue:
		return "JT"
	case OpJumpFalse:
		return "JF"
	case OpLessThan:
		return "LT"
	case OpEquals:
		return "EQ"
	case OpAdjustBase:
		return "ARB"
	case OpHalt:
		return "HALT"
	}

	return "???"
}

func (m Mode) Valid() bool {
	return m <= ModeRelative
}

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	}

	return "invalid"
}
