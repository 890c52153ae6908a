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

package debugger

import (
	"fmt"
	"io"
	"os"

	"github.com/lassandro/gointcode/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break.Load() {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.IP == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr int64, mc *machine.Machine) {
	if dbg.HandleRead == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr int64, mc *machine.Machine) {
	if dbg.HandleWrite == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// AddBreakpoint reports whether a new breakpoint was added at addr.
func (dbg *Debugger) AddBreakpoint(addr int64) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{Addr: addr})
	return true
}

// AddWatchpoint reports whether a new watchpoint was added at addr.
func (dbg *Debugger) AddWatchpoint(addr int64, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})
	return true
}

func (dbg *Debugger) RemoveBreakpoint(i int) bool {
	if i < 0 || i >= len(dbg.Breakpoints) {
		return false
	}

	dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
	dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
	return true
}

func (dbg *Debugger) RemoveWatchpoint(i int) bool {
	if i < 0 || i >= len(dbg.Watchpoints) {
		return false
	}

	dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
	dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
	return true
}

// PrintSource lists count instructions starting at addr. Cells that do not
// decode are shown raw and the listing advances by one cell.
func (dbg *Debugger) PrintSource(mc *machine.Machine, addr int64, count int) {
	w := dbg.out()

	for i := 0; i < count; i++ {
		in, err := machine.Decode(mc.Memory, addr, mc.State.Base)

		marker := " "
		if addr == mc.State.IP {
			marker = ">"
		}

		if err != nil {
			cell, _ := mc.Memory.Read(addr)
			fmt.Fprintf(w, "%s\033[1m[%d]\033[0m \033[1;30m%d\033[0m\n", marker, addr, cell)
			addr++
			continue
		}

		fmt.Fprintf(w, "%s\033[1m[%d]\033[0m %s\n", marker, addr, in)

		addr += in.Len()
	}
}

func (dbg *Debugger) PrintMem(mc *machine.Machine, addr int64, count int64) {
	w := dbg.out()

	for i := addr; i < addr+count; i++ {
		if i == addr {
			fmt.Fprintf(w, "\033[1m[%d]\033[0m ", i)
		} else if (i-addr)%8 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%d]\033[0m ", i)
		}

		result, err := mc.Memory.Read(i)

		if err != nil {
			fmt.Fprintln(w, err)
			return
		}

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%d\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%d ", result)
		}
	}

	fmt.Fprintln(w)
}

func (dbg *Debugger) PrintState(mc *machine.Machine) {
	fmt.Fprintf(
		dbg.out(),
		"\033[1mIP:\033[0m %d\t\033[1mRB:\033[0m %d\t\033[1mST:\033[0m %s\n",
		mc.State.IP,
		mc.State.Base,
		mc.State.Status,
	)
}
