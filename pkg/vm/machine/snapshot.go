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
	"math/big"

	"github.com/consensys/go-tapevm/pkg/vm/instruction"
)

// Reason identifies why a snapshot was taken.
type Reason uint8

// STEP indicates a snapshot taken immediately before executing an instruction.
const STEP Reason = 0

// BREAKPOINT indicates a snapshot taken upon executing a trap instruction.
const BREAKPOINT Reason = 1

func (p Reason) String() string {
	if p == BREAKPOINT {
		return "breakpoint"
	}
	//
	return "step"
}

// DEFAULT_WINDOW is the default radius of the tape window captured in a
// snapshot.
const DEFAULT_WINDOW = 8

// Snapshot captures the observable state of a machine at a given point of
// execution.  Snapshots are copies, hence they remain unchanged as execution
// continues.
type Snapshot struct {
	// Why this snapshot was taken.
	Reason Reason
	// Position of the instruction about to be (or being) executed.
	PC int
	// Opcode at that position.
	Opcode instruction.Opcode
	// Logical address of the current cell.
	Cursor int
	// Cells from Cursor-Radius to Cursor+Radius inclusive.
	Window []big.Int
	// Radius of the window.
	Radius uint
	// Active loop frames, outermost first.
	Frames []Frame
	// Number of instructions executed so far.
	Steps uint
}

// Current returns the value of the current cell in this snapshot.
func (p *Snapshot) Current() *big.Int {
	return &p.Window[p.Radius]
}

// Hook is a callback invoked with a snapshot of the machine.  Returning an
// error aborts execution.
type Hook func(Snapshot) error
