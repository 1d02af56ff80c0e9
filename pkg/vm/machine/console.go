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
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/consensys/go-tapevm/pkg/vm/memory"
)

// EOFPolicy determines what is stored into the current cell when a single
// byte read finds the input exhausted.
type EOFPolicy uint8

// EOF_UNCHANGED leaves the current cell untouched at end-of-input.
const EOF_UNCHANGED EOFPolicy = 0

// EOF_ZERO stores zero into the current cell at end-of-input.
const EOF_ZERO EOFPolicy = 1

// EOF_MINUS_ONE stores -1 into the current cell at end-of-input.  Since cells
// are unbounded, this is distinct from every byte value.
const EOF_MINUS_ONE EOFPolicy = 2

// ParseEOFPolicy converts a policy name (as used on the command line) into a
// policy.
func ParseEOFPolicy(name string) (EOFPolicy, error) {
	switch strings.ToLower(name) {
	case "unchanged", "":
		return EOF_UNCHANGED, nil
	case "zero", "0":
		return EOF_ZERO, nil
	case "minus-one", "-1":
		return EOF_MINUS_ONE, nil
	}
	//
	return EOF_UNCHANGED, fmt.Errorf("unknown eof policy \"%s\"", name)
}

// Apply this policy to the current cell of a given tape.
func (p EOFPolicy) Apply(tape *memory.Tape) {
	switch p {
	case EOF_ZERO:
		tape.WriteInt64(0)
	case EOF_MINUS_ONE:
		tape.WriteInt64(-1)
	}
}

func (p EOFPolicy) String() string {
	switch p {
	case EOF_UNCHANGED:
		return "unchanged"
	case EOF_ZERO:
		return "zero"
	case EOF_MINUS_ONE:
		return "minus-one"
	default:
		return "???"
	}
}

// ToByte truncates a cell value to a single byte.  This uses euclidean modulus,
// hence negative values are mapped into the range 0..255 (e.g. -1 becomes 255).
func ToByte(val *big.Int) byte {
	var b big.Int
	//
	return byte(b.Mod(val, byteModulus).Uint64())
}

var byteModulus = big.NewInt(256)

// Console bridges the machine to a pair of byte streams, typically stdin and
// stdout.  Output is buffered, and flushed on newlines, before any blocking
// read and when the console is flushed explicitly.
type Console struct {
	in     io.Reader
	out    *bufio.Writer
	policy EOFPolicy
}

// NewConsole constructs a console over the given streams.  Either may be nil,
// in which case reads find the input exhausted and writes are discarded.
func NewConsole(in io.Reader, out io.Writer, policy EOFPolicy) *Console {
	if in == nil {
		in = strings.NewReader("")
	}
	//
	if out == nil {
		out = io.Discard
	}
	//
	return &Console{in, bufio.NewWriter(out), policy}
}

// Policy returns the end-of-input policy of this console.
func (p *Console) Policy() EOFPolicy {
	return p.policy
}

// Write the current cell of a given tape as a single byte.
func (p *Console) Write(tape *memory.Tape) error {
	var (
		val = tape.Read()
		b   = ToByte(&val)
	)
	//
	if err := p.out.WriteByte(b); err != nil {
		return err
	} else if b == '\n' {
		return p.out.Flush()
	}
	//
	return nil
}

// Read exactly one byte into the current cell of a given tape, blocking until
// it is available.  At end-of-input, the console's EOF policy is applied.
func (p *Console) Read(tape *memory.Tape) error {
	var buf [1]byte
	// Ensure any prompt is visible before blocking
	if err := p.out.Flush(); err != nil {
		return err
	}
	//
	for {
		n, err := p.in.Read(buf[:])
		//
		if n == 1 {
			tape.WriteInt64(int64(buf[0]))
			return nil
		} else if errors.Is(err, io.EOF) {
			p.policy.Apply(tape)
			return nil
		} else if err != nil {
			return err
		}
		// Zero bytes without error is permitted by io.Reader, so just try again.
	}
}

// Flush any buffered output.
func (p *Console) Flush() error {
	return p.out.Flush()
}
