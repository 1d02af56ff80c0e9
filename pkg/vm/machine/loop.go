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
	"fmt"

	"github.com/consensys/go-tapevm/pkg/util/collection/stack"
	"github.com/consensys/go-tapevm/pkg/vm/instruction"
)

// Frame delimits the body of a loop currently being iterated.  Specifically,
// Start is the position of its "[" and End the position of the matching "]".
type Frame struct {
	Start int
	End   int
}

func (p Frame) String() string {
	return fmt.Sprintf("(start=%d, end=%d)", p.Start, p.End)
}

// LoopMatcher determines loop bounds and maintains the stack of loops
// currently being iterated.  The frame at depth d always corresponds to the
// d-th innermost active loop.  Frames are cached for the duration of a loop,
// such that returning to the "[" of an active loop does not rescan the
// program.
type LoopMatcher struct {
	program *instruction.Program
	frames  *stack.Stack[Frame]
}

// NewLoopMatcher constructs a matcher for a given program with no active
// loops.
func NewLoopMatcher(program *instruction.Program) *LoopMatcher {
	return &LoopMatcher{program, stack.NewStack[Frame]()}
}

// Frames returns a copy of the active loop frames, outermost first.
func (p *LoopMatcher) Frames() []Frame {
	return p.frames.Items()
}

// Enter handles a "[" at a given position, where nonzero indicates whether the
// current cell is nonzero.  This returns the position of the last instruction
// considered executed, such that execution continues from the position after
// it.  Thus, when entering the loop, pc itself is returned; otherwise, the
// position of the matching "]" is returned and the loop body is skipped.
func (p *LoopMatcher) Enter(pc int, nonzero bool) (int, error) {
	frame, err := p.match(pc)
	//
	if err != nil {
		return pc, err
	} else if nonzero {
		p.frames.Push(frame)
		return pc, nil
	}
	//
	return frame.End, nil
}

// Exit handles a "]" at a given position, where nonzero indicates whether the
// current cell is nonzero.  When the cell is zero the innermost loop is exited
// and pc is returned.  Otherwise, the position just before the loop's "[" is
// returned such that the loop condition is reevaluated.
func (p *LoopMatcher) Exit(pc int, nonzero bool) (int, error) {
	if p.frames.IsEmpty() {
		return pc, ErrUnmatchedClose
	} else if !nonzero {
		p.frames.Pop()
		return pc, nil
	}
	//
	return p.frames.Peek(0).Start - 1, nil
}

// Find the frame for the loop starting at a given position.  When the
// innermost active loop starts at this position, its frame is removed from
// the stack and reused.  Otherwise, the program is scanned forwards for the
// first "]" which returns the bracket depth to the current stack depth.
func (p *LoopMatcher) match(pc int) (Frame, error) {
	if p.program.At(pc) != instruction.LOOP {
		return Frame{}, fmt.Errorf("no loop at position %d", pc)
	} else if !p.frames.IsEmpty() && p.frames.Peek(0).Start == pc {
		return p.frames.Pop(), nil
	}
	//
	var (
		base  = int(p.frames.Len())
		depth = base
	)
	//
	for end := pc; end < p.program.Len(); end++ {
		switch p.program.At(end) {
		case instruction.LOOP:
			depth++
		case instruction.END:
			depth--
			//
			if depth == base {
				return Frame{pc, end}, nil
			}
		}
	}
	//
	return Frame{}, ErrUnmatchedOpen
}
