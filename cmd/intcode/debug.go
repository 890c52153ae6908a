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
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/lassandro/gointcode/pkg/debugger"
	"github.com/lassandro/gointcode/pkg/encoding"
	"github.com/lassandro/gointcode/pkg/machine"
)

var lastcmd []string

func debugBreak(dbg *debugger.Debugger, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeAddr(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%d]\n", addr)
		}

	case "l", "ls", "list":
		const usage = "break list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%d\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if !dbg.RemoveBreakpoint(i) {
			log.Println("Invalid breakpoint number")
			return
		}

		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [addr] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeAddr(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%d] (%s)\n", addr, wtype)
		}

	case "l", "ls", "list":
		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%d %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchpoint.Type)
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if !dbg.RemoveWatchpoint(i) {
			log.Println("Invalid watchpoint number")
			return
		}

		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "register [IP|RB] [value]"

	if len(args) == 0 {
		dbg.PrintState(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeInt(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	switch strings.ToUpper(args[0]) {
	case "IP", "PC":
		mc.State.IP = value
	case "RB", "BASE":
		mc.State.Base = value
	default:
		log.Println("Invalid register")
		return
	}

	dbg.PrintState(mc)
}

// Parses [addr] [count] with the count alone also accepted
func debugRange(mc *machine.Machine, args []string, size int64) (int64, int64, bool) {
	const usage = "[addr] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return 0, 0, false
	}

	addr := mc.State.IP

	if len(args) > 0 {
		value, err := encoding.DecodeAddr(args[0])

		if err != nil {
			log.Println(err)
			return 0, 0, false
		}

		if len(args) == 1 && !strings.ContainsAny(args[0], "xX") {
			// A lone decimal is a count from the IP
			size = value
		} else {
			addr = value
		}
	}

	if len(args) > 1 {
		value, err := encoding.DecodeInt(args[1])

		if err != nil {
			log.Println(err)
			return 0, 0, false
		}

		size = value
	}

	return addr, size, true
}

func debugSource(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	if addr, size, ok := debugRange(mc, args, 3); ok {
		dbg.PrintSource(mc, addr, int(size))
	}
}

func debugMemory(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	if addr, size, ok := debugRange(mc, args, 1); ok {
		dbg.PrintMem(mc, addr, size)
	}
}

func debugJump(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "jump [addr]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	addr, err := encoding.DecodeAddr(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	mc.State.IP = addr
	fmt.Printf("\033[1mIP:\033[0m %d\n", addr)
}

func debugSet(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "set [addr] [value]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := encoding.DecodeAddr(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeInt(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if err := mc.Poke(addr, value); err != nil {
		log.Println(err)
		return
	}

	dbg.PrintMem(mc, addr, 1)
}

func debugReset(mc *machine.Machine) {
	mc.Reset()

	for _, patch := range patches {
		mc.Poke(patch.Addr, patch.Value)
	}

	fmt.Println("Machine reset")
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		line, err := stdin.ReadString('\n')

		if err != nil && len(line) == 0 {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, mc, args)

		case "s", "src", "source":
			debugSource(dbg, mc, args)

		case "j", "jmp", "jump":
			debugJump(dbg, mc, args)

		case "m", "mem", "memory":
			debugMemory(dbg, mc, args)

		case "set":
			debugSet(dbg, mc, args)

		case "c", "continue":
			dbg.Break.Store(false)
			return

		case "n", "next":
			dbg.Break.Store(true)
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			debugReset(mc)

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break.Load() {
		fmt.Println()
		fmt.Println("Program stopped")
	}

	if mc.State.Status == machine.Halted {
		fmt.Println("Program halted")
	}

	dbg.PrintSource(mc, mc.State.IP, 1)
	debugREPL(dbg, mc)
}

func handleRead(addr int64, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped (read)")
	dbg.PrintMem(mc, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr int64, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped (write)")
	dbg.PrintMem(mc, addr, 1)
	debugREPL(dbg, mc)
}
