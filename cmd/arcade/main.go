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

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lassandro/gointcode/pkg/arcade"
	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

var helpvar bool
var playvar bool
var autovar bool
var tracevar bool

const usage = "arcade [-play [-auto]] [-trace] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&playvar, "play", false, "Inserts quarters and plays a game")
	flag.BoolVar(&autovar, "auto", false, "Lets the autopilot hold the joystick")
	flag.BoolVar(&tracevar, "trace", false, "Logs every executed instruction")
	flag.Parse()
}

func play(program []int64, logger *zap.Logger) (*arcade.Screen, error) {
	if autovar {
		return arcade.Play(program, arcade.Autopilot{}, logger)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("interactive play needs a terminal, try -auto")
	}

	if err := enterRawTerm(); err != nil {
		return nil, err
	}

	defer exitRawTerm()

	keypad := &arcade.Keypad{
		Keys:    bufio.NewReader(os.Stdin),
		Display: os.Stdout,
	}

	return arcade.Play(program, keypad, logger)
}

func arcadeMain() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	program, err := encoding.ParseProgram(file)
	file.Close()

	if err != nil {
		log.Println(err)
		return 1
	}

	logger := zap.NewNop()

	if tracevar {
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Println(err)
			return 1
		}

		defer logger.Sync()
	}

	if !playvar {
		screen, err := arcade.Boot(program, logger)

		if err != nil {
			log.Println(err)
			return 1
		}

		fmt.Printf("Blocks on screen: %d\n", screen.Count(arcade.Block))
		return 0
	}

	screen, err := play(program, logger)

	if errors.Is(err, machine.EndOfInput) {
		fmt.Println("Game abandoned")
	} else if err != nil {
		log.Println(err)
		return 1
	}

	if screen != nil {
		fmt.Printf("Score: %d\n", screen.Score)
		fmt.Printf("Blocks left: %d\n", screen.Count(arcade.Block))
	}

	return 0
}

func main() {
	os.Exit(arcadeMain())
}
