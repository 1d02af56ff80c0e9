// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package machine

import (
	"errors"
	"fmt"

	"github.com/consensys/go-tapevm/pkg/vm/instruction"
	"github.com/consensys/go-tapevm/pkg/vm/memory"
)

// ============================================================================
// Machine
// ============================================================================

// Machine executes a given program over a tape.  A machine owns its program,
// tape, loop frames and (optionally) an extension.  Machines are not safe for
// concurrent use, and all I/O performed by a machine blocks the caller.
type Machine struct {
	program *instruction.Program
	tape    *memory.Tape
	loops   *LoopMatcher
	console *Console
	// Handles the extended "@" opcode (if any)
	extension Extension
	// Invoked before every instruction (if set)
	tracer Hook
	// Invoked on every trap instruction (if set)
	breakpoint Hook
	// Radius of tape window captured in snapshots
	radius uint
	// Maximum number of steps (or zero for unlimited)
	limit uint
	// Program counter
	pc int
	// Number of instructions executed
	steps uint
}

// New constructs a machine for a given program with an initially empty tape,
// and a console which neither reads nor writes anything.
func New(program *instruction.Program) Machine {
	return Machine{
		program:    program,
		tape:       memory.NewTape(memory.CHUNK_SIZE),
		loops:      NewLoopMatcher(program),
		console:    NewConsole(nil, nil, EOF_UNCHANGED),
		extension:  nil,
		tracer:     nil,
		breakpoint: nil,
		radius:     DEFAULT_WINDOW,
		limit:      0,
		pc:         0,
		steps:      0,
	}
}

// WithConsole returns a machine updated with the given console, but which is
// otherwise identical to before.
func (p Machine) WithConsole(console *Console) Machine {
	var m = p
	//
	m.console = console
	//
	return m
}

// WithTapeSize returns a machine updated with a fresh tape of the given
// initial size, but which is otherwise identical to before.
func (p Machine) WithTapeSize(size uint) Machine {
	var m = p
	//
	m.tape = memory.NewTape(size)
	//
	return m
}

// WithExtension returns a machine updated with the given extension, but which
// is otherwise identical to before.  The extension is only reachable from a
// program decoded with the extended instruction set.
func (p Machine) WithExtension(ext Extension) Machine {
	var m = p
	//
	m.extension = ext
	//
	return m
}

// WithTracer returns a machine updated with a hook invoked before every
// instruction, but which is otherwise identical to before.
func (p Machine) WithTracer(hook Hook) Machine {
	var m = p
	//
	m.tracer = hook
	//
	return m
}

// WithBreakpoint returns a machine updated with a hook invoked on every trap
// instruction, but which is otherwise identical to before.
func (p Machine) WithBreakpoint(hook Hook) Machine {
	var m = p
	//
	m.breakpoint = hook
	//
	return m
}

// WithWindow returns a machine updated with the given snapshot window radius,
// but which is otherwise identical to before.
func (p Machine) WithWindow(radius uint) Machine {
	var m = p
	//
	m.radius = radius
	//
	return m
}

// WithStepLimit returns a machine which faults after executing the given
// number of steps, but which is otherwise identical to before.  A limit of zero
// means unlimited.
func (p Machine) WithStepLimit(limit uint) Machine {
	var m = p
	//
	m.limit = limit
	//
	return m
}

// Program returns the program being executed by this machine.
func (p *Machine) Program() *instruction.Program {
	return p.program
}

// Tape returns the tape of this machine.
func (p *Machine) Tape() *memory.Tape {
	return p.tape
}

// PC returns the current position within the program.
func (p *Machine) PC() int {
	return p.pc
}

// Steps returns the number of instructions executed so far.
func (p *Machine) Steps() uint {
	return p.steps
}

// Frames returns a copy of the active loop frames, outermost first.
func (p *Machine) Frames() []Frame {
	return p.loops.Frames()
}

// Terminated checks whether execution has reached the end of the program.
func (p *Machine) Terminated() bool {
	return p.pc >= p.program.Len()
}

// Snapshot captures the current state of this machine.
func (p *Machine) Snapshot(reason Reason) Snapshot {
	var op = instruction.NOP
	//
	if !p.Terminated() {
		op = p.program.At(p.pc)
	}
	//
	return Snapshot{
		Reason: reason,
		PC:     p.pc,
		Opcode: op,
		Cursor: p.tape.Cursor(),
		Window: p.tape.Window(p.radius),
		Radius: p.radius,
		Frames: p.loops.Frames(),
		Steps:  p.steps,
	}
}

// Execute the machine for (at most) the given number of instructions,
// returning the actual number executed and an error (if execution failed).
// Comments are skipped and are not counted.  Fewer instructions than requested
// are executed only when the machine terminates or fails.
func (p *Machine) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for nsteps < steps {
		executed, err := p.step()
		//
		if err != nil {
			return nsteps, err
		} else if !executed {
			break
		}
		//
		nsteps++
	}
	//
	return nsteps, nil
}

// Step executes the next instruction, skipping over any comments.  This
// returns false if the machine had already terminated.
func (p *Machine) Step() (bool, error) {
	return p.step()
}

// Close flushes any buffered output and releases all resources held by the
// machine's extension.  This should be called on every exit path, whether
// execution terminated normally or not.
func (p *Machine) Close() error {
	var errs []error
	//
	if err := p.console.Flush(); err != nil {
		errs = append(errs, err)
	}
	//
	if p.extension != nil {
		if err := p.extension.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	//
	return errors.Join(errs...)
}

func (p *Machine) step() (bool, error) {
	var n = p.program.Len()
	// Skip comments
	for p.pc < n && p.program.At(p.pc) == instruction.NOP {
		p.pc++
	}
	//
	if p.pc >= n {
		return false, nil
	} else if p.limit != 0 && p.steps >= p.limit {
		return false, p.fault(ErrStepLimit)
	} else if p.tracer != nil {
		if err := p.tracer(p.Snapshot(STEP)); err != nil {
			return false, p.fault(err)
		}
	}
	// Dispatch
	if err := p.dispatch(p.program.At(p.pc)); err != nil {
		return false, p.fault(err)
	}
	// Advance
	p.pc++
	p.steps++
	//
	return true, nil
}

func (p *Machine) dispatch(op instruction.Opcode) error {
	var err error
	//
	switch op {
	case instruction.NOP:
		// skip
	case instruction.RIGHT:
		p.tape.MoveRight()
	case instruction.LEFT:
		p.tape.MoveLeft()
	case instruction.INC:
		p.tape.Increment()
	case instruction.DEC:
		p.tape.Decrement()
	case instruction.OUTPUT:
		err = p.console.Write(p.tape)
	case instruction.INPUT:
		err = p.console.Read(p.tape)
	case instruction.LOOP:
		p.pc, err = p.loops.Enter(p.pc, !p.tape.IsZero())
	case instruction.END:
		p.pc, err = p.loops.Exit(p.pc, !p.tape.IsZero())
	case instruction.SOCKET:
		err = p.invokeExtension()
	case instruction.TRAP:
		if p.breakpoint != nil {
			err = p.breakpoint(p.Snapshot(BREAKPOINT))
		}
	default:
		err = fmt.Errorf("unknown opcode %d", op)
	}
	//
	return err
}

func (p *Machine) invokeExtension() error {
	if p.extension == nil {
		return errors.New("no extension registered")
	} else if err := p.console.Flush(); err != nil {
		return err
	}
	//
	return p.extension.Invoke(p.tape, p.console)
}

func (p *Machine) fault(err error) error {
	return &Fault{p.pc, err}
}
