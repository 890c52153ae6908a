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

package channel

import (
	"github.com/lassandro/gointcode/pkg/machine"
)

// InputFunc supplies input values for channels that only decode output.
type InputFunc func() (int64, error)

// Grouped buffers outputs until size values have arrived and then passes
// the complete group to Handle. The buffer is owned by the channel and
// cleared after every group.
type Grouped struct {
	Size   int
	Handle func(group []int64) error
	Next   InputFunc

	buffer []int64
}

func NewGrouped(size int, next InputFunc, handle func([]int64) error) *Grouped {
	return &Grouped{
		Size:   size,
		Handle: handle,
		Next:   next,
		buffer: make([]int64, 0, size),
	}
}

// Input asks Next for a value. Without Next the channel has no input.
func (g *Grouped) Input() (int64, error) {
	if g.Next == nil {
		return 0, machine.EndOfInput
	}

	return g.Next()
}

func (g *Grouped) Output(value int64) error {
	g.buffer = append(g.buffer, value)

	if len(g.buffer) < g.Size {
		return nil
	}

	group := g.buffer
	g.buffer = make([]int64, 0, g.Size)
	return g.Handle(group)
}

// Partial returns the number of values buffered towards the next group.
func (g *Grouped) Partial() int {
	return len(g.buffer)
}

// Recorder wraps a channel and keeps a log of every value that crosses it.
type Recorder struct {
	machine.Channel

	Inputs  []int64
	Outputs []int64
}

func NewRecorder(ch machine.Channel) *Recorder {
	return &Recorder{Channel: ch}
}

func (r *Recorder) Input() (int64, error) {
	value, err := r.Channel.Input()

	if err == nil {
		r.Inputs = append(r.Inputs, value)
	}

	return value, err
}

func (r *Recorder) Output(value int64) error {
	r.Outputs = append(r.Outputs, value)
	return r.Channel.Output(value)
}
