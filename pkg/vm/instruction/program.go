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

import (
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// Program is an immutable sequence of characters which has been decoded into
// a parallel sequence of opcodes.  Positions in the program (i.e. values of the
// instruction pointer) index both sequences identically.
type Program struct {
	text []rune
	code []Opcode
}

// NewProgram decodes a given program text.  When extended is set, the socket
// and trap opcodes are recognised.  Otherwise, they are simply comments.
func NewProgram(text []rune, extended bool) *Program {
	var code = make([]Opcode, len(text))
	//
	for i, c := range text {
		code[i] = Decode(c, extended)
	}
	//
	return &Program{text, code}
}

// NormaliseNewlines replaces line breaks with spaces, as done when loading a
// program file.  Since line breaks are comments anyway this does not change the
// meaning of a program, though it does ensure each character occupies exactly
// one position.
func NormaliseNewlines(text []rune) []rune {
	var normalised = make([]rune, len(text))
	//
	for i, c := range text {
		if c == '\n' || c == '\r' {
			normalised[i] = ' '
		} else {
			normalised[i] = c
		}
	}
	//
	return normalised
}

// Len returns the number of characters in this program.
func (p *Program) Len() int {
	return len(p.code)
}

// At returns the opcode at a given position.
func (p *Program) At(pc int) Opcode {
	return p.code[pc]
}

// Count returns the number of occurrences of a given opcode in this program.
func (p *Program) Count(op Opcode) uint {
	var n uint
	//
	for _, c := range p.code {
		if c == op {
			n++
		}
	}
	//
	return n
}

// Fingerprint returns a short identifier for this program, computed as the
// base58 encoding of the BLAKE3 hash of its text.
func (p *Program) Fingerprint() string {
	var digest = blake3.Sum256([]byte(string(p.text)))
	//
	return base58.Encode(digest[:])
}

func (p *Program) String() string {
	return string(p.text)
}
