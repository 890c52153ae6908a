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

package pipeline

import (
	"context"
	"iter"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Topology selects how the stages of a trial are wired.
type Topology uint8

const (
	LinearTopology Topology = iota
	RingTopology
)

func (t Topology) String() string {
	switch t {
	case LinearTopology:
		return "linear"
	case RingTopology:
		return "ring"
	}

	return "unknown"
}

// Config describes a max-signal search.
type Config struct {
	Topology Topology
	Phases   []int64 // the set of phase settings to permute
	Signal   int64   // input signal of the first stage
	Workers  int     // concurrent trials, GOMAXPROCS when zero
	Logger   *zap.Logger
}

// Result is the best trial of a search.
type Result struct {
	Signal int64
	Phases []int64
}

// Permutations yields every ordering of values using Heap's algorithm. Each
// yielded slice is a fresh copy.
func Permutations(values []int64) iter.Seq[[]int64] {
	return func(yield func([]int64) bool) {
		perm := append([]int64(nil), values...)
		counters := make([]int, len(perm))

		if !yield(append([]int64(nil), perm...)) {
			return
		}

		for i := 1; i < len(perm); {
			if counters[i] < i {
				if i%2 == 0 {
					perm[0], perm[i] = perm[i], perm[0]
				} else {
					perm[counters[i]], perm[i] = perm[i], perm[counters[i]]
				}

				if !yield(append([]int64(nil), perm...)) {
					return
				}

				counters[i]++
				i = 1
			} else {
				counters[i] = 0
				i++
			}
		}
	}
}

// MaxSignal runs one trial per permutation of cfg.Phases and returns the
// highest signal. Trials run concurrently, each on machines of its own; the
// stages within a trial stay strictly sequential. The first failing trial
// aborts the search.
func MaxSignal(ctx context.Context, program []int64, cfg Config) (Result, error) {
	logger := cfg.Logger

	if logger == nil {
		logger = zap.NewNop()
	}

	workers := cfg.Workers

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if len(cfg.Phases) == 0 {
		return Result{}, ErrNoStages
	}

	var trials [][]int64
	for perm := range Permutations(cfg.Phases) {
		trials = append(trials, perm)
	}

	signals := make([]int64, len(trials))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, phases := range trials {
		eg.Go(func() error {
			signal, err := runTrial(ctx, program, cfg.Topology, phases, cfg.Signal)

			if err != nil {
				logger.Warn("trial failed",
					zap.Int64s("phases", phases),
					zap.Error(err),
				)
				return err
			}

			logger.Debug("trial",
				zap.Stringer("topology", cfg.Topology),
				zap.Int64s("phases", phases),
				zap.Int64("signal", signal),
			)

			signals[i] = signal
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	best := 0

	for i, signal := range signals {
		if signal > signals[best] {
			best = i
		}
	}

	return Result{Signal: signals[best], Phases: trials[best]}, nil
}

func runTrial(ctx context.Context, program []int64, topology Topology, phases []int64, signal int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch topology {
	case RingTopology:
		return NewRing(program, len(phases)).Run(ctx, phases, signal)
	default:
		return NewLinear(program, len(phases)).Run(ctx, phases, signal)
	}
}
