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

package robot_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/gointcode/pkg/channel"
	"github.com/lassandro/gointcode/pkg/machine"
	"github.com/lassandro/gointcode/pkg/robot"
)

// script builds a program that reads the camera before emitting each pair.
func script(pairs ...[2]int64) []int64 {
	var program []int64

	for _, pair := range pairs {
		program = append(program, 3, 1000, 104, pair[0], 104, pair[1])
	}

	return append(program, 99)
}

var walk = script(
	[2]int64{1, 0},
	[2]int64{0, 0},
	[2]int64{1, 0},
	[2]int64{1, 0},
	[2]int64{0, 1},
	[2]int64{1, 0},
	[2]int64{1, 0},
)

func TestWalk(t *testing.T) {
	r := robot.New(robot.Black)
	rec := channel.NewRecorder(r.Channel())

	_, err := machine.New(walk, rec).Run()
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 0, 0, 0, 1, 0, 0}, rec.Inputs)
	assert.Equal(t, 6, r.Painted())
	assert.Equal(t, robot.Point{X: 0, Y: -1}, r.Position)
	assert.Equal(t, robot.West, r.Facing)

	assert.Equal(t, robot.Black, r.Color(robot.Point{}))
	assert.Equal(t, robot.White, r.Color(robot.Point{X: 1, Y: -1}))

	lo, hi := r.Bounds()
	assert.Equal(t, robot.Point{X: -1, Y: -1}, lo)
	assert.Equal(t, robot.Point{X: 1, Y: 1}, hi)

	var out bytes.Buffer
	require.NoError(t, r.Render(&out))
	assert.Equal(t, "  #\n  #\n## \n", out.String())
}

func TestPaint(t *testing.T) {
	r, err := robot.Paint(walk, robot.Black, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, r.Painted())
}

func TestWhiteStart(t *testing.T) {
	r := robot.New(robot.White)
	rec := channel.NewRecorder(r.Channel())

	// Comes back to the origin after four right turns
	program := script(
		[2]int64{0, 1},
		[2]int64{0, 1},
		[2]int64{0, 1},
		[2]int64{0, 1},
		[2]int64{1, 1},
	)

	_, err := machine.New(program, rec).Run()
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 0, 0, 0, 0}, rec.Inputs)
	assert.Equal(t, robot.White, r.Color(robot.Point{}))
	assert.Equal(t, 4, r.Painted())
}

func TestInvalidCommand(t *testing.T) {
	_, err := robot.Paint(script([2]int64{5, 0}), robot.Black, nil)
	require.ErrorIs(t, err, machine.IOError)

	_, err = robot.Paint(script([2]int64{1, 2}), robot.Black, nil)
	require.ErrorIs(t, err, machine.IOError)
}

func TestPartialCommand(t *testing.T) {
	// One full command, then a color with no turn
	program := append(script([2]int64{1, 0})[:6], 3, 1000, 104, 1, 99)

	r, err := robot.Paint(program, robot.Black, nil)
	require.ErrorIs(t, err, robot.ErrPartialCommand)
	assert.Equal(t, 1, r.Painted())
}

func TestRenderEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, robot.New(robot.Black).Render(&out))
	assert.Empty(t, out.String())
}
