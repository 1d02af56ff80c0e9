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
package memory

import (
	"math/big"
)

// CHUNK_SIZE determines the number of cells added whenever the tape grows in
// either direction.
const CHUNK_SIZE = 1024

// Tape is the addressable memory of a machine.  Conceptually, a tape is an
// infinite sequence of cells in both directions where every cell initially
// holds zero.  Physically, a tape is a finite buffer which grows in chunks
// whenever the cursor moves beyond either end.  Cells hold unbounded integers,
// hence arithmetic never wraps around.
//
// The cursor is a logical address which may become negative as the tape grows
// to the left.  Its physical index in the buffer is the cursor plus the
// accumulated left-extension offset.  After any move, the cursor always
// addresses an allocated cell.
type Tape struct {
	cells  []big.Int
	cursor int
	offset int
}

// NewTape constructs a tape with a given number of initially allocated
// cells, all holding zero, with the cursor at logical address 0.
func NewTape(size uint) *Tape {
	if size == 0 {
		size = CHUNK_SIZE
	}
	//
	return &Tape{make([]big.Int, size), 0, 0}
}

// Cursor returns the logical address of the current cell.
func (p *Tape) Cursor() int {
	return p.cursor
}

// Len returns the number of physically allocated cells.
func (p *Tape) Len() uint {
	return uint(len(p.cells))
}

// Offset returns the accumulated left-extension offset, such that the
// physical index of the cursor is Cursor() + Offset().
func (p *Tape) Offset() int {
	return p.offset
}

// MoveRight moves the cursor one cell to the right, appending a chunk of zero
// cells when the end of the buffer is reached.
func (p *Tape) MoveRight() {
	p.cursor++
	//
	if p.index() >= len(p.cells) {
		p.cells = append(p.cells, make([]big.Int, CHUNK_SIZE)...)
	}
}

// MoveLeft moves the cursor one cell to the left, prepending a chunk of zero
// cells when the start of the buffer is reached.  The offset is shifted by the
// chunk size so that every existing cell retains its logical address.
func (p *Tape) MoveLeft() {
	p.cursor--
	//
	if p.index() < 0 {
		var cells = make([]big.Int, CHUNK_SIZE, CHUNK_SIZE+len(p.cells))
		// NOTE: big.Int must not be shallow copied, but since the old buffer
		// is discarded immediately this is safe.
		p.cells = append(cells, p.cells...)
		p.offset += CHUNK_SIZE
	}
}

// Read returns (a copy of) the value of the current cell.
func (p *Tape) Read() big.Int {
	var val big.Int
	//
	val.Set(&p.cells[p.index()])
	//
	return val
}

// IsZero checks whether the current cell holds zero.
func (p *Tape) IsZero() bool {
	return p.cells[p.index()].Sign() == 0
}

// Write a given value into the current cell, overwriting its previous
// contents.
func (p *Tape) Write(val *big.Int) {
	p.cells[p.index()].Set(val)
}

// WriteInt64 writes a given machine integer into the current cell.
func (p *Tape) WriteInt64(val int64) {
	p.cells[p.index()].SetInt64(val)
}

// Increment the current cell by one.
func (p *Tape) Increment() {
	var cell = &p.cells[p.index()]
	//
	cell.Add(cell, one)
}

// Decrement the current cell by one.
func (p *Tape) Decrement() {
	var cell = &p.cells[p.index()]
	//
	cell.Sub(cell, one)
}

// Peek returns (a copy of) the cell at a given offset from the cursor, without
// moving the cursor or growing the tape.  Cells outside the allocated buffer
// hold zero by definition.
func (p *Tape) Peek(offset int) big.Int {
	var (
		val   big.Int
		index = p.index() + offset
	)
	//
	if index >= 0 && index < len(p.cells) {
		val.Set(&p.cells[index])
	}
	//
	return val
}

// Window returns a copy of the cells from cursor-radius to cursor+radius
// (inclusive).
func (p *Tape) Window(radius uint) []big.Int {
	var (
		r      = int(radius)
		window = make([]big.Int, 2*r+1)
	)
	//
	for i := range window {
		window[i] = p.Peek(i - r)
	}
	//
	return window
}

// physical index of the cursor.
func (p *Tape) index() int {
	return p.cursor + p.offset
}

var one = big.NewInt(1)
