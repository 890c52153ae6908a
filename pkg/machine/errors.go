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
	"errors"
	"fmt"
)

// List of machine faults for Errno
const (
	InvalidOpcode = Errno(iota)
	InvalidMode
	InvalidWriteTarget
	InvalidAddress
	EndOfInput
	IOError
)

var strError = []string{
	"invalid opcode",
	"invalid parameter mode",
	"invalid write target",
	"invalid address",
	"end of input",
	"I/O error",
}

// ErrHalted is returned by RunToOutput once the program has executed Halt.
// It signals that the machine is exhausted, not that it failed.
var ErrHalted = errors.New("intcode: machine halted")

// Errno describes the reason for a machine fault.
type Errno int

func (e Errno) Error() string {
	if e < 0 || int(e) >= len(strError) {
		return fmt.Sprintf("fault %d", int(e))
	}

	return strError[e]
}

// Error describes the cause and the context of a machine fault. Every fault
// is fatal to the machine that raised it.
type Error struct {
	Errno Errno // nature of the fault
	Err   error // channel error when Errno is EndOfInput or IOError
	IP    int64 // address of the faulting instruction
	Cell  int64 // raw instruction cell
	Addr  int64 // address when Errno is InvalidAddress
}

func (e *Error) Error() string {
	msg := "intcode: "

	switch e.Errno {
	case InvalidOpcode:
		msg += fmt.Sprintf("%s %d", e.Errno, e.Cell%100)
	case InvalidMode, InvalidWriteTarget:
		msg += fmt.Sprintf("%s in %d", e.Errno, e.Cell)
	case InvalidAddress:
		msg += fmt.Sprintf("%s %d", e.Errno, e.Addr)
	default:
		msg += e.Errno.Error()
	}

	if e.Err != nil && e.Err != e.Errno {
		msg += ": " + e.Err.Error()
	}

	return msg + fmt.Sprintf(" at %d", e.IP)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches an Error against its Errno, so errors.Is(err, EndOfInput)
// holds for a wrapped fault.
func (e *Error) Is(target error) bool {
	errno, ok := target.(Errno)
	return ok && errno == e.Errno
}

// channelError turns a failure reported by a Channel into a machine fault.
// Channels that report an Errno keep it; anything else is an IOError.
func channelError(err error, ip, cell int64) error {
	errno := IOError

	var fault *Error
	var e Errno

	switch {
	case errors.As(err, &fault):
		errno = fault.Errno
	case errors.As(err, &e):
		errno = e
	}

	return &Error{Errno: errno, Err: err, IP: ip, Cell: cell}
}
