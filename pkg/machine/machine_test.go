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

package machine_test

import (
	"testing"

	"github.com/lassandro/gointcode/pkg/channel"
	"github.com/lassandro/gointcode/pkg/machine"
)

type testMachineState struct {
	IP     int64
	Base   int64
	Memory map[int64]int64
}

type testCase struct {
	Name    string
	Steps   uint // zero runs to halt
	Program []int64
	Inputs  []int64
	Outputs []int64
	Input   testMachineState
	Output  testMachineState
}

func testMachineSuccess(t *testing.T, test *testCase) {
	seq := channel.NewSequence(test.Inputs...)
	mc := machine.New(test.Program, seq)

	mc.State.IP = test.Input.IP
	mc.State.Base = test.Input.Base

	for addr, value := range test.Input.Memory {
		mc.Poke(addr, value)
	}

	if test.Steps == 0 {
		if _, err := mc.Run(); err != nil {
			t.Fatalf("Unexpected fault\nhave:%v", err)
		}
	} else {
		for i := uint(0); i < test.Steps; i++ {
			if _, err := mc.Step(); err != nil {
				t.Fatalf("Unexpected fault at step %d\nhave:%v", i, err)
			}
		}
	}

	if mc.State.IP != test.Output.IP {
		t.Errorf(
			"Instruction pointer mismatch"+
				"\nwant:%d (test.Output.IP)\nhave:%d",
			test.Output.IP,
			mc.State.IP,
		)
	}

	if mc.State.Base != test.Output.Base {
		t.Errorf(
			"Relative base mismatch"+
				"\nwant:%d (test.Output.Base)\nhave:%d",
			test.Output.Base,
			mc.State.Base,
		)
	}

	for addr, want := range test.Output.Memory {
		have, err := mc.Peek(addr)

		if err != nil {
			t.Fatal(err)
		}

		if have != want {
			t.Errorf(
				"Memory value mismatch"+
					"\nwant:%d (test.Output.Memory[%d])\nhave:%d",
				want,
				addr,
				have,
			)
		}
	}

	have := seq.Outputs()

	if len(have) != len(test.Outputs) {
		t.Fatalf(
			"Output count mismatch"+
				"\nwant:%v (test.Outputs)\nhave:%v",
			test.Outputs,
			have,
		)
	}

	for i := range have {
		if have[i] != test.Outputs[i] {
			t.Errorf(
				"Output mismatch"+
					"\nwant:%d (test.Outputs[%d])\nhave:%d",
				test.Outputs[i],
				i,
				have[i],
			)
		}
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

// ADD  |a|b|dest|  mem[dest] = a + b
func TestAdd(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "ADD Self Modifying",
			Program: []int64{1, 0, 0, 0, 99},
			Output: testMachineState{
				IP:     4,
				Memory: map[int64]int64{0: 2, 1: 0, 2: 0, 3: 0, 4: 99},
			},
		},
		{
			Name:    "ADD Immediate",
			Program: []int64{1101, 100, -1, 4, 0},
			Output: testMachineState{
				IP:     4,
				Memory: map[int64]int64{4: 99},
			},
		},
		{
			Name:    "ADD Chained",
			Program: []int64{1, 1, 1, 4, 99, 5, 6, 0, 99},
			Output: testMachineState{
				IP: 8,
				Memory: map[int64]int64{
					0: 30, 1: 1, 2: 1, 3: 4, 4: 2, 5: 5, 6: 6, 7: 0, 8: 99,
				},
			},
		},
		{
			Name:    "ADD Relative",
			Steps:   1,
			Program: []int64{22201, 0, 1, 2},
			Input: testMachineState{
				Base:   10,
				Memory: map[int64]int64{10: 7, 11: 35},
			},
			Output: testMachineState{
				IP:     4,
				Base:   10,
				Memory: map[int64]int64{12: 42},
			},
		},
	})
}

// MUL  |a|b|dest|  mem[dest] = a * b
func TestMultiply(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "MUL Position",
			Program: []int64{2, 3, 0, 3, 99},
			Output: testMachineState{
				IP:     4,
				Memory: map[int64]int64{3: 6},
			},
		},
		{
			Name:    "MUL Square",
			Program: []int64{2, 4, 4, 5, 99, 0},
			Output: testMachineState{
				IP:     4,
				Memory: map[int64]int64{5: 9801},
			},
		},
		{
			Name:    "MUL Mixed Modes",
			Program: []int64{1002, 4, 3, 4, 33},
			Output: testMachineState{
				IP:     4,
				Memory: map[int64]int64{4: 99},
			},
		},
		{
			Name:    "MUL Large",
			Program: []int64{1102, 34915192, 34915192, 7, 4, 7, 99, 0},
			Outputs: []int64{1219070632396864},
			Output: testMachineState{
				IP: 6,
			},
		},
	})
}

// IN   |dest|  mem[dest] = input
// OUT  |a|  output a
func TestInputOutput(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "IN OUT Echo",
			Program: []int64{3, 0, 4, 0, 99},
			Inputs:  []int64{-17},
			Outputs: []int64{-17},
			Output: testMachineState{
				IP:     4,
				Memory: map[int64]int64{0: -17},
			},
		},
		{
			Name:    "OUT Immediate",
			Program: []int64{104, 1125899906842624, 99},
			Outputs: []int64{1125899906842624},
			Output: testMachineState{
				IP: 2,
			},
		},
		{
			Name:    "IN Relative Beyond Program",
			Steps:   1,
			Program: []int64{203, 5},
			Inputs:  []int64{12},
			Input: testMachineState{
				Base: 995,
			},
			Output: testMachineState{
				IP:     2,
				Base:   995,
				Memory: map[int64]int64{1000: 12},
			},
		},
		{
			Name:    "OUT Relative",
			Steps:   1,
			Program: []int64{204, -34},
			Outputs: []int64{42},
			Input: testMachineState{
				Base:   2000,
				Memory: map[int64]int64{1966: 42},
			},
			Output: testMachineState{
				IP:   2,
				Base: 2000,
			},
		},
	})
}

// JT   |a|ip|  jump if a != 0
// JF   |a|ip|  jump if a == 0
func TestJump(t *testing.T) {
	positional := []int64{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}
	immediate := []int64{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1}

	testSuccess(t, []testCase{
		{
			Name:    "JF Position Zero",
			Program: positional,
			Inputs:  []int64{0},
			Outputs: []int64{0},
			Output:  testMachineState{IP: 11},
		},
		{
			Name:    "JF Position Nonzero",
			Program: positional,
			Inputs:  []int64{5},
			Outputs: []int64{1},
			Output:  testMachineState{IP: 11},
		},
		{
			Name:    "JT Immediate Zero",
			Program: immediate,
			Inputs:  []int64{0},
			Outputs: []int64{0},
			Output:  testMachineState{IP: 11},
		},
		{
			Name:    "JT Immediate Nonzero",
			Program: immediate,
			Inputs:  []int64{5},
			Outputs: []int64{1},
			Output:  testMachineState{IP: 11},
		},
		{
			Name:    "JT Not Taken",
			Steps:   1,
			Program: []int64{1105, 0, 7},
			Output:  testMachineState{IP: 3},
		},
		{
			Name:    "JF Taken",
			Steps:   1,
			Program: []int64{1106, 0, 7},
			Output:  testMachineState{IP: 7},
		},
	})
}

// LT   |a|b|dest|  mem[dest] = a < b
// EQ   |a|b|dest|  mem[dest] = a == b
func TestCompare(t *testing.T) {
	compare := []int64{
		3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
		1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
		999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99,
	}

	testSuccess(t, []testCase{
		{
			Name:    "EQ Position Equal",
			Program: []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8},
			Inputs:  []int64{8},
			Outputs: []int64{1},
			Output:  testMachineState{IP: 8},
		},
		{
			Name:    "EQ Immediate Unequal",
			Program: []int64{3, 3, 1108, -1, 8, 3, 4, 3, 99},
			Inputs:  []int64{9},
			Outputs: []int64{0},
			Output:  testMachineState{IP: 8},
		},
		{
			Name:    "LT Position Less",
			Program: []int64{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8},
			Inputs:  []int64{5},
			Outputs: []int64{1},
			Output:  testMachineState{IP: 8},
		},
		{
			Name:    "LT Immediate Equal",
			Program: []int64{3, 3, 1107, -1, 8, 3, 4, 3, 99},
			Inputs:  []int64{8},
			Outputs: []int64{0},
			Output:  testMachineState{IP: 8},
		},
		{
			Name:    "Compare Below",
			Program: compare,
			Inputs:  []int64{7},
			Outputs: []int64{999},
			Output:  testMachineState{IP: 46},
		},
		{
			Name:    "Compare Equal",
			Program: compare,
			Inputs:  []int64{8},
			Outputs: []int64{1000},
			Output:  testMachineState{IP: 46},
		},
		{
			Name:    "Compare Above",
			Program: compare,
			Inputs:  []int64{9},
			Outputs: []int64{1001},
			Output:  testMachineState{IP: 46},
		},
	})
}

// ARB  |a|  base += a
func TestAdjustBase(t *testing.T) {
	quine := []int64{
		109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99,
	}

	testSuccess(t, []testCase{
		{
			Name:    "ARB Immediate",
			Steps:   1,
			Program: []int64{109, 19},
			Input:   testMachineState{Base: 2000},
			Output:  testMachineState{IP: 2, Base: 2019},
		},
		{
			Name:    "ARB Negative",
			Steps:   2,
			Program: []int64{109, 10, 109, -4},
			Output:  testMachineState{IP: 4, Base: 6},
		},
		{
			Name:    "ARB Relative",
			Steps:   1,
			Program: []int64{209, 3, 99},
			Input: testMachineState{
				Base:   2,
				Memory: map[int64]int64{5: -2},
			},
			Output: testMachineState{IP: 2, Base: 0},
		},
		{
			Name:    "ARB Quine",
			Program: quine,
			Outputs: quine,
			Output: testMachineState{
				IP:     15,
				Base:   16,
				Memory: map[int64]int64{100: 16, 101: 1},
			},
		},
	})
}

// HALT
func TestHalt(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "HALT Last Cell",
			Program: []int64{99},
			Output:  testMachineState{IP: 0},
		},
		{
			Name:    "HALT Repeated Step",
			Steps:   3,
			Program: []int64{1101, 1, 1, 5, 99},
			Output: testMachineState{
				IP:     4,
				Memory: map[int64]int64{5: 2},
			},
		},
	})
}
