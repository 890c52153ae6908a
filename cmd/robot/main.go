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
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/robot"
)

var helpvar bool
var tracevar bool
var startvar string

const usage = "robot [-start black|white] [-trace] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&tracevar, "trace", false, "Logs every executed instruction")
	flag.StringVar(
		&startvar, "start", "black",
		"Color of the panel the robot starts on (black|white)",
	)
	flag.Parse()
}

func robotMain() int {
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

	var start robot.Color

	switch startvar {
	case "b", "black":
		start = robot.Black
	case "w", "white":
		start = robot.White
	default:
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

	r, err := robot.Paint(program, start, logger)

	if err != nil {
		log.Println(err)
		return 1
	}

	fmt.Printf("Painted %d panels\n\n", r.Painted())

	if err := r.Render(os.Stdout); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(robotMain())
}
