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
	"io"
	"net/netip"

	"github.com/consensys/go-tapevm/pkg/vm/machine"
	"github.com/consensys/go-tapevm/pkg/vm/memory"
	log "github.com/sirupsen/logrus"
)

// ErrUnknownOperation indicates the selector cell did not identify a socket
// operation.
var ErrUnknownOperation = errors.New("unknown socket operation")

// BIND creates a new socket and binds it.  The port is read from cells i+2
// (low byte) and i+3 (high byte), whilst the address octets are read from cells
// i+4..i+7 least-significant-first.  The new handle is written to cell i.
const BIND = 0

// LISTEN marks the socket whose handle is in cell i+2 as listening.
const LISTEN = 1

// ACCEPT blocks for a connection on the listening socket whose handle is in
// cell i+2, writing the handle of the connected socket to cell i.
const ACCEPT = 2

// READ receives a single byte from the socket whose handle is in cell i+2,
// writing it to cell i.
const READ = 3

// WRITE sends the byte in cell i to the socket whose handle is in cell i+2.
const WRITE = 4

// Extension maps windows of the tape onto socket operations.  Every
// operation is identified by a selector in the cell following the cursor, and
// reads its arguments from cells at fixed offsets after that.  Any result is
// written back into the current cell.
type Extension struct {
	backend Backend
	table   *Table
}

var _ machine.Extension = &Extension{}

// NewExtension constructs a socket extension over a given backend, with an
// empty handle table.
func NewExtension(backend Backend) *Extension {
	return &Extension{backend, NewTable()}
}

// Table returns the handle table of this extension.
func (p *Extension) Table() *Table {
	return p.table
}

// Invoke implementation for the machine.Extension interface.
func (p *Extension) Invoke(tape *memory.Tape, console *machine.Console) error {
	var selector = tape.Peek(1)
	//
	if !selector.IsInt64() {
		return fmt.Errorf("%w %s", ErrUnknownOperation, selector.String())
	}
	//
	switch selector.Int64() {
	case BIND:
		return p.bind(tape)
	case LISTEN:
		return p.listen(tape)
	case ACCEPT:
		return p.accept(tape)
	case READ:
		return p.read(tape, console.Policy())
	case WRITE:
		return p.write(tape)
	default:
		return fmt.Errorf("%w %s", ErrUnknownOperation, selector.String())
	}
}

// Close implementation for the machine.Extension interface.
func (p *Extension) Close() error {
	if n := p.table.Len(); n > 0 {
		log.Debugf("closing %d socket(s)", n)
	}
	//
	return p.table.CloseAll()
}

func (p *Extension) bind(tape *memory.Tape) error {
	var addr = DecodeAddress(tape)
	//
	conn, err := p.backend.Bind(addr)
	if err != nil {
		return err
	}
	//
	handle := p.table.Add(conn)
	log.Debugf("socket %d bound to %s", handle, addr.String())
	tape.WriteInt64(int64(handle))
	//
	return nil
}

func (p *Extension) listen(tape *memory.Tape) error {
	var handle = tape.Peek(2)
	//
	conn, err := p.table.Lookup(&handle)
	if err != nil {
		return err
	}
	//
	log.Debugf("socket %s listening", handle.String())
	//
	return conn.Listen(BACKLOG)
}

func (p *Extension) accept(tape *memory.Tape) error {
	var handle = tape.Peek(2)
	//
	conn, err := p.table.Lookup(&handle)
	if err != nil {
		return err
	}
	//
	client, err := conn.Accept()
	if err != nil {
		return err
	}
	//
	nhandle := p.table.Add(client)
	log.Debugf("socket %s accepted connection as socket %d", handle.String(), nhandle)
	tape.WriteInt64(int64(nhandle))
	//
	return nil
}

func (p *Extension) read(tape *memory.Tape, policy machine.EOFPolicy) error {
	var (
		handle = tape.Peek(2)
		buf    [1]byte
	)
	//
	conn, err := p.table.Lookup(&handle)
	if err != nil {
		return err
	}
	//
	n, err := io.ReadFull(conn, buf[:])
	//
	switch {
	case n == 1:
		tape.WriteInt64(int64(buf[0]))
	case errors.Is(err, io.EOF):
		policy.Apply(tape)
	default:
		return err
	}
	//
	return nil
}

func (p *Extension) write(tape *memory.Tape) error {
	var (
		handle = tape.Peek(2)
		val    = tape.Read()
	)
	//
	conn, err := p.table.Lookup(&handle)
	if err != nil {
		return err
	}
	//
	_, err = conn.Write([]byte{machine.ToByte(&val)})
	//
	return err
}

// DecodeAddress reads the address argument of a bind operation from the tape
// window at the cursor.  The port is split across cells i+2 (low byte) and i+3
// (high byte).  The four address octets b1..b4 are read from cells i+4..i+7
// and form the address b4.b3.b2.b1, such that cell i+7 holds the first octet.
func DecodeAddress(tape *memory.Tape) netip.AddrPort {
	var octets [4]byte
	//
	for i := range octets {
		octets[3-i] = cellByte(tape, 4+i)
	}
	//
	port := uint16(cellByte(tape, 2)) | uint16(cellByte(tape, 3))<<8
	//
	return netip.AddrPortFrom(netip.AddrFrom4(octets), port)
}

func cellByte(tape *memory.Tape, offset int) byte {
	val := tape.Peek(offset)
	//
	return machine.ToByte(&val)
}
