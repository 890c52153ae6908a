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
	"errors"

	"github.com/lassandro/gointcode/pkg/machine"
)

var ErrPending = errors.New("channel: signal already pending")

// Sequence feeds a fixed list of inputs and collects every output. It seeds
// a linear pipeline stage with its phase followed by the incoming signal.
type Sequence struct {
	inputs  []int64
	outputs []int64
}

func NewSequence(inputs ...int64) *Sequence {
	return &Sequence{inputs: append([]int64(nil), inputs...)}
}

// Push appends a value to the input queue.
func (s *Sequence) Push(values ...int64) {
	s.inputs = append(s.inputs, values...)
}

func (s *Sequence) Input() (int64, error) {
	if len(s.inputs) == 0 {
		return 0, machine.EndOfInput
	}

	value := s.inputs[0]
	s.inputs = s.inputs[1:]
	return value, nil
}

func (s *Sequence) Output(value int64) error {
	s.outputs = append(s.outputs, value)
	return nil
}

// Outputs returns a copy of every value emitted so far.
func (s *Sequence) Outputs() []int64 {
	return append([]int64(nil), s.outputs...)
}

// Last returns the most recent output.
func (s *Sequence) Last() (int64, bool) {
	if len(s.outputs) == 0 {
		return 0, false
	}

	return s.outputs[len(s.outputs)-1], true
}

// Remaining returns the number of inputs not yet consumed.
func (s *Sequence) Remaining() int {
	return len(s.inputs)
}

// Feedback is the input side of one ring stage. Its first Input returns the
// phase setting; every later Input returns the signal most recently handed
// over with Deliver. Only one signal may be in flight at a time.
type Feedback struct {
	phase   int64
	phased  bool
	signal  int64
	pending bool

	last    int64
	emitted bool
}

func NewFeedback(phase int64) *Feedback {
	return &Feedback{phase: phase}
}

// Deliver hands a signal to the stage. It fails if the previous signal has
// not been consumed.
func (f *Feedback) Deliver(signal int64) error {
	if f.pending {
		return ErrPending
	}

	f.signal = signal
	f.pending = true
	return nil
}

func (f *Feedback) Input() (int64, error) {
	if !f.phased {
		f.phased = true
		return f.phase, nil
	}

	if !f.pending {
		return 0, machine.EndOfInput
	}

	f.pending = false
	return f.signal, nil
}

func (f *Feedback) Output(value int64) error {
	f.last = value
	f.emitted = true
	return nil
}

// Phased reports whether the phase setting has been consumed.
func (f *Feedback) Phased() bool {
	return f.phased
}

// Pending reports whether a delivered signal is waiting to be read.
func (f *Feedback) Pending() bool {
	return f.pending
}

// Last returns the most recent output of the stage.
func (f *Feedback) Last() (int64, bool) {
	return f.last, f.emitted
}
