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
	"context"
	"errors"

	"go.uber.org/zap"
)

var errNoChannel = errors.New("no channel attached")

// Number of instructions executed between context checks.
const pollSteps = 1024

// New loads program into a fresh machine that talks to ch. The program is
// copied, so one parsed program can back any number of machines.
func New(program []int64, ch Channel) *Machine {
	return &Machine{
		Channel: ch,
		Logger:  zap.NewNop(),
		Memory:  NewMemory(program),
	}
}

// Reset returns the machine to its just-loaded state. The attached channel
// and debugger are kept.
func (mc *Machine) Reset() {
	mc.Memory.Reset()
	mc.State = MachineState{}
	mc.fault = nil
	mc.output = 0
}

// Attach hands ch to the machine and returns the channel it replaces.
func (mc *Machine) Attach(ch Channel) Channel {
	prev := mc.Channel
	mc.Channel = ch
	return prev
}

// Peek reads a cell without triggering debugger watchpoints.
func (mc *Machine) Peek(addr int64) (int64, error) {
	return mc.Memory.Read(addr)
}

// Poke writes a cell without triggering debugger watchpoints. It is meant
// for patching a program before it runs.
func (mc *Machine) Poke(addr int64, value int64) error {
	return mc.Memory.Write(addr, value)
}

// Err returns the fault that stopped the machine, if any.
func (mc *Machine) Err() error {
	return mc.fault
}

func (mc *Machine) logger() *zap.Logger {
	if mc.Logger == nil {
		mc.Logger = zap.NewNop()
	}

	return mc.Logger
}

func (mc *Machine) read(addr int64) (int64, error) {
	if addr < 0 {
		return 0, &Error{Errno: InvalidAddress, Addr: addr}
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.Memory.Read(addr)
}

func (mc *Machine) write(addr int64, value int64) error {
	if err := mc.Memory.Write(addr, value); err != nil {
		return err
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}

	return nil
}

// load resolves parameter i as a value.
func (mc *Machine) load(in *Instruction, i int) (int64, error) {
	p := in.Params[i]

	switch p.Mode {
	case ModePosition:
		return mc.read(p.Value)
	case ModeImmediate:
		return p.Value, nil
	case ModeRelative:
		return mc.read(in.Base + p.Value)
	}

	return 0, &Error{Errno: InvalidMode}
}

// target resolves parameter i as a write address.
func (mc *Machine) target(in *Instruction, i int) (int64, error) {
	p := in.Params[i]

	switch p.Mode {
	case ModePosition:
		return p.Value, nil
	case ModeRelative:
		return in.Base + p.Value, nil
	case ModeImmediate:
		return 0, &Error{Errno: InvalidWriteTarget}
	}

	return 0, &Error{Errno: InvalidMode}
}

// binary loads the first two parameters and the write address in the third.
func (mc *Machine) binary(in *Instruction) (a, b, dest int64, err error) {
	if a, err = mc.load(in, 0); err != nil {
		return
	}

	if b, err = mc.load(in, 1); err != nil {
		return
	}

	dest, err = mc.target(in, 2)
	return
}

func flag(cond bool) int64 {
	if cond {
		return 1
	}

	return 0
}

// execute applies in and returns the address of the next instruction.
func (mc *Machine) execute(in *Instruction) (int64, error) {
	next := in.Addr + in.Len()

	switch in.Op {
	// ADD  |a|b|dest|  mem[dest] = a + b
	case OpAdd:
		a, b, dest, err := mc.binary(in)

		if err != nil {
			return 0, err
		}

		return next, mc.write(dest, a+b)

	// MUL  |a|b|dest|  mem[dest] = a * b
	case OpMultiply:
		a, b, dest, err := mc.binary(in)

		if err != nil {
			return 0, err
		}

		return next, mc.write(dest, a*b)

	// IN   |dest|  mem[dest] = input
	case OpInput:
		dest, err := mc.target(in, 0)

		if err != nil {
			return 0, err
		}

		if mc.Channel == nil {
			return 0, &Error{Errno: IOError, Err: errNoChannel}
		}

		value, err := mc.Channel.Input()

		if err != nil {
			return 0, channelError(err, in.Addr, in.Cell)
		}

		return next, mc.write(dest, value)

	// OUT  |a|  output a
	case OpOutput:
		value, err := mc.load(in, 0)

		if err != nil {
			return 0, err
		}

		if mc.Channel == nil {
			return 0, &Error{Errno: IOError, Err: errNoChannel}
		}

		if err := mc.Channel.Output(value); err != nil {
			return 0, channelError(err, in.Addr, in.Cell)
		}

		mc.output = value
		return next, nil

	// JT   |a|ip|  jump if a != 0
	case OpJumpTrue:
		cond, err := mc.load(in, 0)

		if err != nil {
			return 0, err
		}

		dest, err := mc.load(in, 1)

		if err != nil {
			return 0, err
		}

		if cond != 0 {
			return dest, nil
		}

		return next, nil

	// JF   |a|ip|  jump if a == 0
	case OpJumpFalse:
		cond, err := mc.load(in, 0)

		if err != nil {
			return 0, err
		}

		dest, err := mc.load(in, 1)

		if err != nil {
			return 0, err
		}

		if cond == 0 {
			return dest, nil
		}

		return next, nil

	// LT   |a|b|dest|  mem[dest] = a < b
	case OpLessThan:
		a, b, dest, err := mc.binary(in)

		if err != nil {
			return 0, err
		}

		return next, mc.write(dest, flag(a < b))

	// EQ   |a|b|dest|  mem[dest] = a == b
	case OpEquals:
		a, b, dest, err := mc.binary(in)

		if err != nil {
			return 0, err
		}

		return next, mc.write(dest, flag(a == b))

	// ARB  |a|  base += a
	case OpAdjustBase:
		offset, err := mc.load(in, 0)

		if err != nil {
			return 0, err
		}

		mc.State.Base += offset
		return next, nil

	// HALT
	case OpHalt:
		return in.Addr, nil
	}

	return 0, &Error{Errno: InvalidOpcode}
}

// fail records err as the fault of in and stops the machine for good.
func (mc *Machine) fail(err error, in Instruction) error {
	var fault *Error

	if errors.As(err, &fault) {
		tagged := *fault
		tagged.IP = in.Addr
		tagged.Cell = in.Cell
		err = &tagged
	}

	mc.State.Status = Faulted
	mc.fault = err

	mc.logger().Debug("fault",
		zap.Int64("ip", in.Addr),
		zap.Int64("cell", in.Cell),
		zap.Error(err),
	)

	return err
}

// Step decodes and executes exactly one instruction and returns its opcode.
// Any error is fatal: later calls return the same error until Reset. On a
// halted machine Step does nothing and reports OpHalt.
func (mc *Machine) Step() (Opcode, error) {
	switch mc.State.Status {
	case Faulted:
		return 0, mc.fault
	case Halted:
		return OpHalt, nil
	}

	mc.State.Status = Running

	in, err := Decode(mc.Memory, mc.State.IP, mc.State.Base)

	if err != nil {
		in.Addr = mc.State.IP
		return in.Op, mc.fail(err, in)
	}

	if ce := mc.logger().Check(zap.DebugLevel, "exec"); ce != nil {
		ce.Write(
			zap.Int64("ip", in.Addr),
			zap.Stringer("insn", in),
			zap.Int64("base", in.Base),
		)
	}

	next, err := mc.execute(&in)

	if err != nil {
		return in.Op, mc.fail(err, in)
	}

	mc.State.IP = next

	if in.Op == OpHalt {
		mc.State.Status = Halted
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return in.Op, nil
}

// Run steps until Halt and returns the channel, which holds whatever state
// the program left in it.
func (mc *Machine) Run() (Channel, error) {
	return mc.RunContext(context.Background())
}

// RunContext is Run, giving up once ctx is done. The context is polled every
// pollSteps instructions; a cancelled machine is left suspended and may be
// resumed.
func (mc *Machine) RunContext(ctx context.Context) (Channel, error) {
	for n := 0; ; n++ {
		if err := mc.poll(ctx, n); err != nil {
			return mc.Channel, err
		}

		op, err := mc.Step()

		if err != nil {
			return mc.Channel, err
		}

		if op == OpHalt {
			return mc.Channel, nil
		}
	}
}

// RunToOutput steps until an Output completes and returns the emitted value.
// The machine is left suspended right after the Output and resumes from there
// on the next call. Once Halt is reached it returns ErrHalted.
func (mc *Machine) RunToOutput() (int64, error) {
	return mc.RunToOutputContext(context.Background())
}

// RunToOutputContext is RunToOutput, giving up once ctx is done.
func (mc *Machine) RunToOutputContext(ctx context.Context) (int64, error) {
	for n := 0; ; n++ {
		if err := mc.poll(ctx, n); err != nil {
			return 0, err
		}

		op, err := mc.Step()

		if err != nil {
			return 0, err
		}

		switch op {
		case OpHalt:
			return 0, ErrHalted
		case OpOutput:
			if mc.State.Status == Running {
				mc.State.Status = Suspended
			}
			return mc.output, nil
		}
	}
}

func (mc *Machine) poll(ctx context.Context, n int) error {
	if n%pollSteps != 0 {
		return nil
	}

	err := ctx.Err()

	if err != nil && mc.State.Status == Running {
		mc.State.Status = Suspended
	}

	return err
}
