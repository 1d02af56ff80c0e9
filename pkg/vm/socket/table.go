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
package socket

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrUnknownHandle indicates an operation referenced a handle which does not
// identify a live socket.
var ErrUnknownHandle = errors.New("unknown socket handle")

// Table is an arena of live sockets indexed by small non-negative integer
// handles.  The table owns every socket it holds, and closing the table closes
// them all.  Handles are allocated lowest-free-first, starting from zero.
type Table struct {
	conns []Conn
}

// NewTable constructs an empty handle table.
func NewTable() *Table {
	return &Table{nil}
}

// Add a socket to this table, returning its handle.
func (p *Table) Add(conn Conn) uint {
	for i, c := range p.conns {
		if c == nil {
			p.conns[i] = conn
			return uint(i)
		}
	}
	//
	p.conns = append(p.conns, conn)
	//
	return uint(len(p.conns) - 1)
}

// Get the socket identified by a given handle.
func (p *Table) Get(handle uint) (Conn, error) {
	if handle >= uint(len(p.conns)) || p.conns[handle] == nil {
		return nil, fmt.Errorf("%w %d", ErrUnknownHandle, handle)
	}
	//
	return p.conns[handle], nil
}

// Lookup the socket identified by the handle stored in a given cell.  Cells
// which are negative or too large cannot identify a socket.
func (p *Table) Lookup(cell *big.Int) (Conn, error) {
	if cell.Sign() < 0 || !cell.IsInt64() || cell.Int64() > math.MaxInt32 {
		return nil, fmt.Errorf("%w %s", ErrUnknownHandle, cell.String())
	}
	//
	return p.Get(uint(cell.Int64()))
}

// Close the socket identified by a given handle, freeing the handle for reuse.
func (p *Table) Close(handle uint) error {
	conn, err := p.Get(handle)
	//
	if err != nil {
		return err
	}
	//
	p.conns[handle] = nil
	//
	return conn.Close()
}

// Len returns the number of live sockets in this table.
func (p *Table) Len() uint {
	var n uint
	//
	for _, c := range p.conns {
		if c != nil {
			n++
		}
	}
	//
	return n
}

// CloseAll closes every live socket in this table, leaving it empty.  All
// sockets are closed even if some fail, in which case the errors are joined.
func (p *Table) CloseAll() error {
	var errs []error
	//
	for _, c := range p.conns {
		if c != nil {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	//
	p.conns = nil
	//
	return errors.Join(errs...)
}
