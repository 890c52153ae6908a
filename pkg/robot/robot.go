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

// Package robot drives the hull painting robot. The program reads the color
// of the panel under the robot and answers with a (color, turn) pair, after
// which the robot paints, turns and moves one panel forward.
package robot

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/lassandro/gointcode/pkg/channel"
	"github.com/lassandro/gointcode/pkg/machine"
)

// ErrPartialCommand is returned when the program halts between the color
// and the turn of a command.
var ErrPartialCommand = errors.New("robot: program halted mid-command")

type Color int64

const (
	Black Color = 0
	White Color = 1
)

type Turn int64

const (
	Left  Turn = 0
	Right Turn = 1
)

// Direction is a compass heading, clockwise from Up.
type Direction uint8

const (
	Up Direction = iota
	East
	Down
	West
)

// Point is a panel position. Y grows downwards.
type Point struct {
	X int
	Y int
}

func (d Direction) turn(t Turn) Direction {
	if t == Left {
		return (d + 3) % 4
	}

	return (d + 1) % 4
}

func (p Point) step(d Direction) Point {
	switch d {
	case Up:
		p.Y--
	case Down:
		p.Y++
	case West:
		p.X--
	case East:
		p.X++
	}

	return p
}

type Robot struct {
	Panels   map[Point]Color
	Position Point
	Facing   Direction

	start Color
}

// New returns a robot at the origin facing up. The origin panel starts out
// as start; every other panel starts black.
func New(start Color) *Robot {
	return &Robot{Panels: make(map[Point]Color), start: start}
}

// Channel returns the channel the robot's program should be attached to.
func (r *Robot) Channel() *channel.Grouped {
	return channel.NewGrouped(2, r.camera, r.command)
}

// Color returns the current color of panel p.
func (r *Robot) Color(p Point) Color {
	if color, ok := r.Panels[p]; ok {
		return color
	}

	if p == (Point{}) {
		return r.start
	}

	return Black
}

func (r *Robot) camera() (int64, error) {
	return int64(r.Color(r.Position)), nil
}

func (r *Robot) command(group []int64) error {
	color, turn := Color(group[0]), Turn(group[1])

	if color != Black && color != White {
		return fmt.Errorf("robot: invalid color %d", group[0])
	}

	if turn != Left && turn != Right {
		return fmt.Errorf("robot: invalid turn %d", group[1])
	}

	r.Panels[r.Position] = color
	r.Facing = r.Facing.turn(turn)
	r.Position = r.Position.step(r.Facing)
	return nil
}

// Painted returns how many panels were painted at least once.
func (r *Robot) Painted() int {
	return len(r.Panels)
}

// Bounds returns the corners of the smallest box holding every painted panel.
func (r *Robot) Bounds() (lo, hi Point) {
	first := true

	for p := range r.Panels {
		if first {
			lo, hi = p, p
			first = false
			continue
		}

		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}

	return lo, hi
}

// Render draws the hull, # for white and a space for black.
func (r *Robot) Render(w io.Writer) error {
	if len(r.Panels) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	lo, hi := r.Bounds()

	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			if r.Color(Point{x, y}) == White {
				bw.WriteByte('#')
			} else {
				bw.WriteByte(' ')
			}
		}

		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// Paint runs program on a new robot until it halts.
func Paint(program []int64, start Color, logger *zap.Logger) (*Robot, error) {
	r := New(start)
	ch := r.Channel()
	mc := machine.New(program, ch)

	if logger != nil {
		mc.Logger = logger
	}

	if _, err := mc.Run(); err != nil {
		return r, err
	}

	if ch.Partial() != 0 {
		return r, ErrPartialCommand
	}

	return r, nil
}
