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

// Package arcade runs the breakout cabinet. The program draws the screen
// with (x, y, tile) triples and reports the score with (-1, 0, score); in
// free play it reads the joystick position before each frame.
package arcade

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/lassandro/gointcode/pkg/channel"
	"github.com/lassandro/gointcode/pkg/machine"
)

type Tile int64

const (
	Empty  Tile = 0
	Wall   Tile = 1
	Block  Tile = 2
	Paddle Tile = 3
	Ball   Tile = 4
)

// ErrPartialDraw is returned when the program halts partway through a triple.
var ErrPartialDraw = errors.New("arcade: program halted mid-draw")

// Writing 2 to address 0 inserts the quarters for free play.
const (
	QuarterAddr  = 0
	FreePlayCell = 2
)

func (t Tile) glyph() byte {
	switch t {
	case Wall:
		return '|'
	case Block:
		return 'x'
	case Paddle:
		return '_'
	case Ball:
		return 'o'
	}

	return '.'
}

type Point struct {
	X int64
	Y int64
}

// The score is reported as a draw at this position.
var scorePoint = Point{X: -1, Y: 0}

type Screen struct {
	Tiles  map[Point]Tile
	Score  int64
	Ball   Point
	Paddle Point
}

func NewScreen() *Screen {
	return &Screen{Tiles: make(map[Point]Tile)}
}

// Draw applies one (x, y, tile) triple.
func (s *Screen) Draw(group []int64) error {
	p := Point{X: group[0], Y: group[1]}

	if p == scorePoint {
		s.Score = group[2]
		return nil
	}

	tile := Tile(group[2])

	switch tile {
	case Empty, Wall, Block:
	case Paddle:
		s.Paddle = p
	case Ball:
		s.Ball = p
	default:
		return fmt.Errorf("arcade: invalid tile %d at (%d, %d)", group[2], p.X, p.Y)
	}

	s.Tiles[p] = tile
	return nil
}

// Count returns the number of tiles of the given kind on screen.
func (s *Screen) Count(tile Tile) int {
	n := 0

	for _, t := range s.Tiles {
		if t == tile {
			n++
		}
	}

	return n
}

func (s *Screen) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if len(s.Tiles) > 0 {
		var lo, hi Point
		first := true

		for p := range s.Tiles {
			if first {
				lo, hi = p, p
				first = false
				continue
			}

			lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
			hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
		}

		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				bw.WriteByte(s.Tiles[Point{x, y}].glyph())
			}

			bw.WriteString("\r\n")
		}
	}

	fmt.Fprintf(bw, "Score: %d\r\n", s.Score)
	return bw.Flush()
}

// Joystick decides the paddle movement for the next frame: -1 left,
// 0 neutral, 1 right.
type Joystick interface {
	Move(s *Screen) (int64, error)
}

// Autopilot keeps the paddle under the ball.
type Autopilot struct{}

func (Autopilot) Move(s *Screen) (int64, error) {
	switch {
	case s.Ball.X < s.Paddle.X:
		return -1, nil
	case s.Ball.X > s.Paddle.X:
		return 1, nil
	}

	return 0, nil
}

// Keypad reads single keystrokes: a or h for left, d or l for right and
// s, j or space for neutral. Other keys are ignored. If Display is set the
// screen is drawn before every read.
type Keypad struct {
	Keys    io.ByteReader
	Display io.Writer
}

func (k *Keypad) Move(s *Screen) (int64, error) {
	if k.Display != nil {
		// Home and clear before each frame
		fmt.Fprint(k.Display, "\033[H\033[2J")

		if err := s.Render(k.Display); err != nil {
			return 0, err
		}
	}

	for {
		key, err := k.Keys.ReadByte()

		if err == io.EOF {
			return 0, machine.EndOfInput
		} else if err != nil {
			return 0, err
		}

		switch key {
		case 'a', 'h':
			return -1, nil
		case 'd', 'l':
			return 1, nil
		case 's', 'j', ' ':
			return 0, nil
		case 'q', 0x03:
			return 0, machine.EndOfInput
		}
	}
}

type Cabinet struct {
	Screen   *Screen
	Joystick Joystick
}

// Channel returns the channel the cabinet's program should be attached to.
// Without a joystick every input request fails with machine.EndOfInput.
func (c *Cabinet) Channel() *channel.Grouped {
	var next channel.InputFunc

	if c.Joystick != nil {
		next = func() (int64, error) {
			return c.Joystick.Move(c.Screen)
		}
	}

	return channel.NewGrouped(3, next, c.Screen.Draw)
}

// Boot runs the program as loaded, which draws the attract screen and halts.
func Boot(program []int64, logger *zap.Logger) (*Screen, error) {
	return run(program, nil, false, logger)
}

// Play inserts quarters and runs the game to completion with joystick.
func Play(program []int64, joystick Joystick, logger *zap.Logger) (*Screen, error) {
	return run(program, joystick, true, logger)
}

func run(program []int64, joystick Joystick, free bool, logger *zap.Logger) (*Screen, error) {
	cab := &Cabinet{Screen: NewScreen(), Joystick: joystick}
	ch := cab.Channel()
	mc := machine.New(program, ch)

	if logger != nil {
		mc.Logger = logger
	}

	if free {
		if err := mc.Poke(QuarterAddr, FreePlayCell); err != nil {
			return cab.Screen, err
		}
	}

	if _, err := mc.Run(); err != nil {
		return cab.Screen, err
	}

	if ch.Partial() != 0 {
		return cab.Screen, ErrPartialDraw
	}

	return cab.Screen, nil
}
