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
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/pipeline"
)

var helpvar bool
var loopvar bool
var tracevar bool
var phasesvar string
var signalvar int64

const usage = "amplifier [-loop] [-phases 0,1,2,3,4] [-signal 0] [-trace] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&loopvar, "loop", false,
		"Wires the amplifiers into a feedback loop instead of a chain",
	)
	flag.BoolVar(&tracevar, "trace", false, "Logs every trial")
	flag.StringVar(
		&phasesvar, "phases", "",
		"Phase settings to permute, 0,1,2,3,4 by default or 5,6,7,8,9 "+
			"with -loop",
	)
	flag.Int64Var(&signalvar, "signal", 0, "Input signal of the first amplifier")
	flag.Parse()
}

func amplifier() int {
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

	cfg := pipeline.Config{
		Topology: pipeline.LinearTopology,
		Phases:   []int64{0, 1, 2, 3, 4},
		Signal:   signalvar,
		Logger:   zap.NewNop(),
	}

	if loopvar {
		cfg.Topology = pipeline.RingTopology
		cfg.Phases = []int64{5, 6, 7, 8, 9}
	}

	if phasesvar != "" {
		if cfg.Phases, err = encoding.ParseList(phasesvar); err != nil {
			log.Println(err)
			return 1
		}
	}

	if tracevar {
		if cfg.Logger, err = zap.NewDevelopment(); err != nil {
			log.Println(err)
			return 1
		}

		defer cfg.Logger.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := pipeline.MaxSignal(ctx, program, cfg)

	if err != nil {
		log.Println(err)
		return 1
	}

	fmt.Println(result.Signal)

	if tracevar {
		cfg.Logger.Info("best trial",
			zap.Int64s("phases", result.Phases),
			zap.Int64("signal", result.Signal),
		)
	}

	return 0
}

func main() {
	os.Exit(amplifier())
}
