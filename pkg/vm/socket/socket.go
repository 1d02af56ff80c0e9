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
	"io"
	"net/netip"
)

// ErrUnsupported indicates that raw sockets are not available on this
// platform.
var ErrUnsupported = errors.New("sockets unsupported on this platform")

// BACKLOG is the maximum number of pending connections for a listening socket.
const BACKLOG = 5

// Conn represents a live IPv4 TCP socket.  Depending on how it was obtained,
// a socket is either bound (and possibly listening), or connected.  Reads
// return io.EOF once the peer has closed the connection.
type Conn interface {
	io.ReadWriteCloser
	// Listen marks a bound socket as accepting connections.
	Listen(backlog int) error
	// Accept blocks until a connection arrives on a listening socket,
	// returning the connected socket.
	Accept() (Conn, error)
}

// Backend creates sockets.  This abstracts the underlying operating system.
type Backend interface {
	// Bind creates a new socket bound to a given address.
	Bind(addr netip.AddrPort) (Conn, error)
}
