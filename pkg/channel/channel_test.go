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

package channel_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/gointcode/pkg/channel"
	"github.com/lassandro/gointcode/pkg/machine"
)

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	console := channel.NewConsole(strings.NewReader("8\n\n  -3 \n"), &out)
	console.Prompt = "> "

	mc := machine.New([]int64{3, 0, 3, 1, 1, 0, 1, 2, 4, 2, 99}, console)
	_, err := mc.Run()
	require.NoError(t, err)

	assert.Equal(t, "> > 5\n", out.String())
}

func TestConsoleEndOfInput(t *testing.T) {
	var out bytes.Buffer
	console := channel.NewConsole(strings.NewReader("1\n"), &out)

	mc := machine.New([]int64{3, 0, 3, 0, 99}, console)
	_, err := mc.Run()
	require.ErrorIs(t, err, machine.EndOfInput)
}

func TestConsoleBadInput(t *testing.T) {
	console := channel.NewConsole(strings.NewReader("seven\n"), &bytes.Buffer{})

	_, err := console.Input()
	require.Error(t, err)
	assert.NotErrorIs(t, err, machine.EndOfInput)
}

func TestSequence(t *testing.T) {
	seq := channel.NewSequence(4, 5)
	seq.Push(6)
	assert.Equal(t, 3, seq.Remaining())

	for _, want := range []int64{4, 5, 6} {
		value, err := seq.Input()
		require.NoError(t, err)
		assert.Equal(t, want, value)
	}

	assert.Equal(t, 0, seq.Remaining())

	_, err := seq.Input()
	require.ErrorIs(t, err, machine.EndOfInput)

	_, ok := seq.Last()
	assert.False(t, ok)

	require.NoError(t, seq.Output(1))
	require.NoError(t, seq.Output(2))

	last, ok := seq.Last()
	assert.True(t, ok)
	assert.Equal(t, int64(2), last)
	assert.Equal(t, []int64{1, 2}, seq.Outputs())
}

func TestSequenceIsolated(t *testing.T) {
	a := channel.NewSequence()
	b := channel.NewSequence()

	require.NoError(t, a.Output(1))
	assert.Empty(t, b.Outputs())
}

func TestFeedback(t *testing.T) {
	fb := channel.NewFeedback(9)

	assert.False(t, fb.Phased())

	value, err := fb.Input()
	require.NoError(t, err)
	assert.Equal(t, int64(9), value)
	assert.True(t, fb.Phased())

	// Nothing handed over yet
	_, err = fb.Input()
	require.ErrorIs(t, err, machine.EndOfInput)

	require.NoError(t, fb.Deliver(11))
	assert.True(t, fb.Pending())
	require.ErrorIs(t, fb.Deliver(12), channel.ErrPending)

	value, err = fb.Input()
	require.NoError(t, err)
	assert.Equal(t, int64(11), value)
	assert.False(t, fb.Pending())

	_, ok := fb.Last()
	assert.False(t, ok)

	require.NoError(t, fb.Output(30))
	last, ok := fb.Last()
	assert.True(t, ok)
	assert.Equal(t, int64(30), last)
}

func TestGrouped(t *testing.T) {
	var groups [][]int64

	g := channel.NewGrouped(3, nil, func(group []int64) error {
		groups = append(groups, group)
		return nil
	})

	for _, value := range []int64{1, 2, 3, 4, 5, 6, 7} {
		require.NoError(t, g.Output(value))
	}

	assert.Equal(t, [][]int64{{1, 2, 3}, {4, 5, 6}}, groups)
	assert.Equal(t, 1, g.Partial())

	_, err := g.Input()
	require.ErrorIs(t, err, machine.EndOfInput)
}

func TestRecorder(t *testing.T) {
	rec := channel.NewRecorder(channel.NewSequence(3))

	mc := machine.New([]int64{3, 0, 1002, 0, 2, 0, 4, 0, 99}, rec)
	_, err := mc.Run()
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, rec.Inputs)
	assert.Equal(t, []int64{6}, rec.Outputs)
}
