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
	"github.com/consensys/go-tapevm/pkg/util/collection/stack"
	"github.com/consensys/go-tapevm/pkg/vm/instruction"
)

// Check that every loop bracket in a given program has a matching partner,
// without executing anything.  The first imbalance found is reported as a
// fault: either the first ']' with no enclosing '[', or the outermost '['
// left open when the end of the program is reached.
func Check(program *instruction.Program) error {
	var open = stack.NewStack[int]()
	//
	for pc := 0; pc < program.Len(); pc++ {
		switch program.At(pc) {
		case instruction.LOOP:
			open.Push(pc)
		case instruction.END:
			if open.IsEmpty() {
				return &Fault{pc, ErrUnmatchedClose}
			}
			//
			open.Pop()
		}
	}
	//
	if !open.IsEmpty() {
		return &Fault{open.Bottom(), ErrUnmatchedOpen}
	}
	//
	return nil
}
