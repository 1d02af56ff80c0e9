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
	"testing"

	"github.com/consensys/go-tapevm/pkg/util/assert"
)

func TestTape_01(t *testing.T) {
	tape := NewTape(0)
	//
	assert.Equal(t, CHUNK_SIZE, tape.Len())
	assert.Equal(t, 0, tape.Cursor())
	assert.True(t, tape.IsZero())
}

func TestTape_02(t *testing.T) {
	tape := NewTape(4)
	// Increments and decrements are unbounded
	for i := 0; i < 300; i++ {
		tape.Increment()
	}
	//
	checkCell(t, tape, 300)
	//
	for i := 0; i < 301; i++ {
		tape.Decrement()
	}
	//
	checkCell(t, tape, -1)
}

func TestTape_03(t *testing.T) {
	tape := NewTape(4)
	// Fill the allocated buffer
	for i := 0; i < 4; i++ {
		tape.WriteInt64(int64(i + 1))
		//
		if i != 3 {
			tape.MoveRight()
		}
	}
	//
	assert.Equal(t, uint(4), tape.Len())
	// Step beyond the far edge
	tape.MoveRight()
	// Exactly one chunk added
	assert.Equal(t, uint(4+CHUNK_SIZE), tape.Len())
	assert.Equal(t, 4, tape.Cursor())
	checkCell(t, tape, 0)
	// Previous values preserved
	for i := 4; i > 0; i-- {
		tape.MoveLeft()
		checkCell(t, tape, int64(i))
	}
	//
	assert.Equal(t, 0, tape.Offset())
}

func TestTape_04(t *testing.T) {
	tape := NewTape(4)
	tape.WriteInt64(42)
	tape.MoveRight()
	tape.WriteInt64(7)
	tape.MoveLeft()
	// Step below logical index 0
	tape.MoveLeft()
	//
	assert.Equal(t, uint(4+CHUNK_SIZE), tape.Len())
	assert.Equal(t, -1, tape.Cursor())
	assert.Equal(t, CHUNK_SIZE, tape.Offset())
	checkCell(t, tape, 0)
	// Values retain their logical addresses
	tape.MoveRight()
	checkCell(t, tape, 42)
	tape.MoveRight()
	checkCell(t, tape, 7)
}

func TestTape_05(t *testing.T) {
	tape := NewTape(2)
	// Grow left twice over
	for i := 0; i < 2*CHUNK_SIZE+1; i++ {
		tape.MoveLeft()
	}
	//
	assert.Equal(t, -(2*CHUNK_SIZE + 1), tape.Cursor())
	assert.Equal(t, uint(2+3*CHUNK_SIZE), tape.Len())
	// Cursor always addresses an allocated cell
	tape.Increment()
	checkCell(t, tape, 1)
}

func TestTape_06(t *testing.T) {
	tape := NewTape(4)
	tape.WriteInt64(1)
	tape.MoveRight()
	tape.WriteInt64(2)
	tape.MoveRight()
	tape.WriteInt64(3)
	tape.MoveLeft()
	//
	assert.Equal(t, int64(1), peek(tape, -1))
	assert.Equal(t, int64(2), peek(tape, 0))
	assert.Equal(t, int64(3), peek(tape, 1))
	// Unallocated cells read as zero without growing
	assert.Equal(t, int64(0), peek(tape, 100))
	assert.Equal(t, int64(0), peek(tape, -100))
	assert.Equal(t, uint(4), tape.Len())
}

func TestTape_07(t *testing.T) {
	tape := NewTape(4)
	tape.WriteInt64(5)
	//
	window := tape.Window(2)
	//
	assert.Equal(t, 5, len(window))
	assert.Equal(t, int64(5), window[2].Int64())
	assert.Equal(t, int64(0), window[0].Int64())
}

func TestTape_08(t *testing.T) {
	tape := NewTape(4)
	tape.WriteInt64(5)
	// Reads are copies
	val := tape.Read()
	val.SetInt64(99)
	//
	checkCell(t, tape, 5)
}

// ==================================================================
// Framework
// ==================================================================

func checkCell(t *testing.T, tape *Tape, expected int64) {
	var actual = tape.Read()
	//
	if actual.Cmp(big.NewInt(expected)) != 0 {
		t.Errorf("cell %d: expected %d, actual %s", tape.Cursor(), expected, actual.String())
	}
}

func peek(tape *Tape, offset int) int64 {
	val := tape.Peek(offset)
	return val.Int64()
}
