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

import (
	"fmt"
	"strings"
)

// Param is a single decoded parameter: its addressing mode and the raw cell
// that follows the opcode.
type Param struct {
	Mode  Mode
	Value int64
}

// Instruction is one decoded instruction. It is built fresh for every cycle
// and captures the relative base in effect when it was decoded.
type Instruction struct {
	Op     Opcode
	Params [MaxParams]Param
	Addr   int64 // address of the opcode cell
	Cell   int64 // raw opcode cell
	Base   int64 // relative base at decode time
}

// Decode reads the instruction at ip. Only the cells the opcode needs are
// fetched, so a Halt at the end of the program never reads past it.
func Decode(mem *Memory, ip int64, base int64) (Instruction, error) {
	cell, err := mem.Read(ip)

	if err != nil {
		return Instruction{}, err
	}

	in := Instruction{
		Op:   Opcode(cell % 100),
		Addr: ip,
		Cell: cell,
		Base: base,
	}

	if !in.Op.Valid() {
		return in, &Error{Errno: InvalidOpcode, IP: ip, Cell: cell}
	}

	// Mode digits are read from the hundreds place upward, one per param.
	// Missing digits are position mode.
	modes := cell / 100

	for i := 0; i < in.Op.Arity(); i++ {
		mode := Mode(modes % 10)
		modes /= 10

		if !mode.Valid() {
			return in, &Error{Errno: InvalidMode, IP: ip, Cell: cell}
		}

		value, err := mem.Read(ip + int64(i) + 1)

		if err != nil {
			return in, err
		}

		in.Params[i] = Param{Mode: mode, Value: value}
	}

	return in, nil
}

// Len returns the number of cells the instruction occupies.
func (in Instruction) Len() int64 {
	return int64(in.Op.Arity() + 1)
}

// Modes returns the addressing mode of each parameter.
func (in Instruction) Modes() []Mode {
	modes := make([]Mode, in.Op.Arity())

	for i := range modes {
		modes[i] = in.Params[i].Mode
	}

	return modes
}

// String formats the instruction as a mnemonic followed by its operands.
// Immediate operands are bare, position operands are bracketed and relative
// operands are written as offsets from the base.
func (in Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(in.Op.String())

	for i := 0; i < in.Op.Arity(); i++ {
		p := in.Params[i]

		switch p.Mode {
		case ModePosition:
			fmt.Fprintf(&sb, " [%d]", p.Value)
		case ModeImmediate:
			fmt.Fprintf(&sb, " %d", p.Value)
		case ModeRelative:
			fmt.Fprintf(&sb, " [rb%+d]", p.Value)
		}
	}

	return sb.String()
}
