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
	"go.uber.org/zap"
)

// Channel is the only path between a machine and its environment.
type Channel interface {
	// Input supplies the next input value. It may block.
	Input() (int64, error)
	// Output accepts the next output value.
	Output(value int64) error
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr int64, mc *Machine)
	Write(addr int64, mc *Machine)
}

// Status is the lifecycle state of a machine.
type Status uint8

const (
	Ready Status = iota
	Running
	Suspended
	Halted
	Faulted
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}

	return "unknown"
}

type MachineState struct {
	IP     int64
	Base   int64
	Status Status
}

type Machine struct {
	Channel  Channel
	Debugger MachineDebugger
	Logger   *zap.Logger
	State    MachineState
	Memory   *Memory

	fault  error
	output int64
}
