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

// Package pipeline composes machines into amplifier chains. A Linear chain
// runs each stage to completion before the next; a Ring suspends every
// stage after one output and hands the value around until the last stage
// halts.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lassandro/gointcode/pkg/channel"
	"github.com/lassandro/gointcode/pkg/machine"
)

var (
	ErrNoStages   = errors.New("pipeline: no stages")
	ErrNoSignal   = errors.New("pipeline: stage produced no output")
	ErrPhaseCount = errors.New("pipeline: phase count does not match stages")
)

// StageError reports which stage failed a trial.
type StageError struct {
	Stage int
	Phase int64
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (phase %d): %v", e.Stage, e.Phase, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Linear is a chain of stages, all loaded with the same program. The
// output of stage k is the input signal of stage k+1.
type Linear struct {
	Logger *zap.Logger
	stages []*machine.Machine
}

func NewLinear(program []int64, n int) *Linear {
	return &Linear{Logger: zap.NewNop(), stages: newStages(program, n)}
}

// Stages returns the number of machines in the chain.
func (l *Linear) Stages() int {
	return len(l.stages)
}

// Run resets every stage and pushes signal through the chain, seeding stage
// k with phases[k] followed by the previous stage's last output. A stage
// that never halts is abandoned once ctx is done.
func (l *Linear) Run(ctx context.Context, phases []int64, signal int64) (int64, error) {
	if err := checkPhases(len(l.stages), phases); err != nil {
		return 0, err
	}

	for k, mc := range l.stages {
		mc.Reset()

		seq := channel.NewSequence(phases[k], signal)
		mc.Attach(seq)

		if _, err := mc.RunContext(ctx); err != nil {
			return 0, &StageError{Stage: k, Phase: phases[k], Err: err}
		}

		out, ok := seq.Last()

		if !ok {
			return 0, &StageError{Stage: k, Phase: phases[k], Err: ErrNoSignal}
		}

		l.Logger.Debug("stage done",
			zap.Int("stage", k),
			zap.Int64("phase", phases[k]),
			zap.Int64("signal", out),
			zap.Int("unread", seq.Remaining()),
		)

		signal = out
	}

	return signal, nil
}

// Ring is a closed loop of stages. Each has its own Feedback channel; the
// ring carries a stage's output to the next stage with an explicit Deliver.
type Ring struct {
	Logger *zap.Logger
	stages []*machine.Machine
	links  []*channel.Feedback
}

func NewRing(program []int64, n int) *Ring {
	return &Ring{
		Logger: zap.NewNop(),
		stages: newStages(program, n),
		links:  make([]*channel.Feedback, n),
	}
}

// Stages returns the number of machines in the ring.
func (r *Ring) Stages() int {
	return len(r.stages)
}

// Run resets the ring, delivers signal to the first stage and cycles until
// the last stage halts. The last output of the last stage is returned.
func (r *Ring) Run(ctx context.Context, phases []int64, signal int64) (int64, error) {
	if err := checkPhases(len(r.stages), phases); err != nil {
		return 0, err
	}

	for k, mc := range r.stages {
		mc.Reset()
		r.links[k] = channel.NewFeedback(phases[k])
		mc.Attach(r.links[k])
	}

	if err := r.links[0].Deliver(signal); err != nil {
		return 0, err
	}

	last := len(r.stages) - 1

	for k := 0; ; k = (k + 1) % len(r.stages) {
		out, err := r.stages[k].RunToOutputContext(ctx)

		if errors.Is(err, machine.ErrHalted) {
			if k != last {
				continue
			}

			result, ok := r.links[last].Last()

			if !ok {
				return 0, &StageError{Stage: k, Phase: phases[k], Err: ErrNoSignal}
			}

			return result, nil
		} else if err != nil {
			return 0, &StageError{Stage: k, Phase: phases[k], Err: err}
		}

		next := (k + 1) % len(r.stages)

		if err := r.links[next].Deliver(out); err != nil {
			return 0, &StageError{Stage: next, Phase: phases[next], Err: err}
		}
	}
}

func newStages(program []int64, n int) []*machine.Machine {
	stages := make([]*machine.Machine, n)

	for i := range stages {
		stages[i] = machine.New(program, nil)
	}

	return stages
}

func checkPhases(stages int, phases []int64) error {
	if stages == 0 {
		return ErrNoStages
	}

	if len(phases) != stages {
		return fmt.Errorf("%w: %d phases, %d stages", ErrPhaseCount, len(phases), stages)
	}

	return nil
}
