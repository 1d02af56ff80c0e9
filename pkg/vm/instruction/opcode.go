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
package instruction

// Opcode identifies a single machine instruction.  The set of opcodes is closed:
// every character of a program decodes to exactly one of the values below,
// with anything unrecognised decoding to NOP.
type Opcode uint8

// NOP is a comment character, which is skipped by the dispatcher.
const NOP Opcode = 0

// RIGHT moves the cursor one cell to the right (">").
const RIGHT Opcode = 1

// LEFT moves the cursor one cell to the left ("<").
const LEFT Opcode = 2

// INC increments the current cell ("+").
const INC Opcode = 3

// DEC decrements the current cell ("-").
const DEC Opcode = 4

// OUTPUT writes the current cell as a single byte (".").
const OUTPUT Opcode = 5

// INPUT reads a single byte into the current cell (",").
const INPUT Opcode = 6

// LOOP marks the start of a loop body ("[").
const LOOP Opcode = 7

// END marks the end of a loop body ("]").
const END Opcode = 8

// SOCKET invokes the socket operation selected by the tape window at the
// cursor ("@").  This is only recognised by the extended instruction set.
const SOCKET Opcode = 9

// TRAP invokes the breakpoint hook ("!").  This is only recognised by the
// extended instruction set.
const TRAP Opcode = 10

// Decode a single program character into its opcode.  The extended flag
// determines whether the socket and trap opcodes are recognised; when it is
// not set, they are treated as comments.
func Decode(c rune, extended bool) Opcode {
	switch c {
	case '>':
		return RIGHT
	case '<':
		return LEFT
	case '+':
		return INC
	case '-':
		return DEC
	case '.':
		return OUTPUT
	case ',':
		return INPUT
	case '[':
		return LOOP
	case ']':
		return END
	case '@':
		if extended {
			return SOCKET
		}
	case '!':
		if extended {
			return TRAP
		}
	}
	//
	return NOP
}

func (p Opcode) String() string {
	switch p {
	case NOP:
		return "nop"
	case RIGHT:
		return ">"
	case LEFT:
		return "<"
	case INC:
		return "+"
	case DEC:
		return "-"
	case OUTPUT:
		return "."
	case INPUT:
		return ","
	case LOOP:
		return "["
	case END:
		return "]"
	case SOCKET:
		return "@"
	case TRAP:
		return "!"
	default:
		return "???"
	}
}
