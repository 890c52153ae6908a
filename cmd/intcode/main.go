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
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lassandro/gointcode/pkg/channel"
	"github.com/lassandro/gointcode/pkg/debugger"
	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

var helpvar bool
var debugvar bool
var tracevar bool
var setvar string
var shouldexit bool

var stdin *bufio.Reader
var patches []encoding.Patch

const usage = "intcode [-debug] [-trace] [-set addr=value,...] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(&tracevar, "trace", false, "Logs every executed instruction")
	flag.StringVar(
		&setvar, "set", "",
		"Patches memory before the program starts, e.g. 1=12,2=2",
	)
	flag.Parse()
}

func intcode() int {
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

	patches, err = encoding.ParsePatches(setvar)

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

	stdin = bufio.NewReader(os.Stdin)
	console := channel.NewConsole(stdin, os.Stdout)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		console.Prompt = "Enter input: "
	}

	mc := machine.New(program, console)
	mc.Logger = logger

	for _, patch := range patches {
		if err := mc.Poke(patch.Addr, patch.Value); err != nil {
			log.Println(err)
			return 1
		}
	}

	if debugvar {
		var dbg debugger.Debugger
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		mc.Debugger = &dbg

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		defer signal.Stop(c)
		go func() {
			for range c {
				fmt.Println()
				dbg.Break.Store(true)
			}
		}()

		debugREPL(&dbg, mc)
	}

	for !shouldexit {
		op, err := mc.Step()

		if err != nil {
			log.Println(err)
			return 1
		}

		if op == machine.OpHalt {
			break
		}
	}

	return 0
}

func main() {
	os.Exit(intcode())
}
