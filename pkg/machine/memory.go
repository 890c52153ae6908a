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

package machine

import (
	"cmp"
	"slices"
)

// Memory is the address space of a machine. Addresses below the length of
// the loaded program live in a dense slice; anything above spills into a
// sparse map. Both regions read as zero until written.
type Memory struct {
	image    []int64
	base     []int64
	overflow map[int64]int64
}

// NewMemory copies program into a fresh address space. The caller may reuse
// or modify program afterwards.
func NewMemory(program []int64) *Memory {
	mem := &Memory{
		image: append([]int64(nil), program...),
		base:  make([]int64, len(program)),
	}

	mem.Reset()
	return mem
}

// Reset restores the program image and drops every cell written beyond it.
func (mem *Memory) Reset() {
	copy(mem.base, mem.image)
	mem.overflow = make(map[int64]int64)
}

// Len returns the length of the loaded program.
func (mem *Memory) Len() int64 {
	return int64(len(mem.base))
}

// Extent returns one past the highest address that holds storage, either
// from the program image or from a write beyond it.
func (mem *Memory) Extent() int64 {
	extent := mem.Len()

	for addr := range mem.overflow {
		if addr >= extent {
			extent = addr + 1
		}
	}

	return extent
}

func (mem *Memory) Read(addr int64) (int64, error) {
	if addr < 0 {
		return 0, &Error{Errno: InvalidAddress, Addr: addr}
	}

	if addr < mem.Len() {
		return mem.base[addr], nil
	}

	return mem.overflow[addr], nil
}

func (mem *Memory) Write(addr int64, value int64) error {
	if addr < 0 {
		return &Error{Errno: InvalidAddress, Addr: addr}
	}

	if addr < mem.Len() {
		mem.base[addr] = value
	} else {
		mem.overflow[addr] = value
	}

	return nil
}

// Cell is one written address outside the program image.
type Cell struct {
	Addr  int64
	Value int64
}

// Dump returns a copy of the program region and every cell written beyond
// it, ordered by address. Far-off writes never widen the image.
func (mem *Memory) Dump() ([]int64, []Cell) {
	image := append([]int64(nil), mem.base...)
	cells := make([]Cell, 0, len(mem.overflow))

	for addr, value := range mem.overflow {
		cells = append(cells, Cell{Addr: addr, Value: value})
	}

	slices.SortFunc(cells, func(a, b Cell) int {
		return cmp.Compare(a.Addr, b.Addr)
	})

	return image, cells
}
