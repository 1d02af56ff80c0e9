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

//go:build unix

package socket

import (
	"errors"
	"io"
	"net/netip"
	"os"

	"golang.org/x/sys/unix"
)

// OS returns the backend which creates sockets using the operating system's
// socket calls directly.
func OS() Backend {
	return osBackend{}
}

type osBackend struct{}

// Bind implementation for the Backend interface.
func (osBackend) Bind(addr netip.AddrPort) (Conn, error) {
	fd, err := ignoringEINTR(func() (int, error) {
		return unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	})
	//
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	//
	unix.CloseOnExec(fd)
	//
	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd) //nolint:errcheck
		return nil, os.NewSyscallError("setsockopt", err)
	}
	//
	sockaddr := &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.Addr().As4()}
	//
	if err = unix.Bind(fd, sockaddr); err != nil {
		unix.Close(fd) //nolint:errcheck
		return nil, os.NewSyscallError("bind", err)
	}
	//
	return &osConn{fd}, nil
}

// osConn is a socket identified by an operating system file descriptor.
type osConn struct {
	fd int
}

func (p *osConn) Listen(backlog int) error {
	return os.NewSyscallError("listen", unix.Listen(p.fd, backlog))
}

func (p *osConn) Accept() (Conn, error) {
	nfd, err := ignoringEINTR(func() (int, error) {
		nfd, _, err := unix.Accept(p.fd)
		return nfd, err
	})
	//
	if err != nil {
		return nil, os.NewSyscallError("accept", err)
	}
	//
	unix.CloseOnExec(nfd)
	//
	return &osConn{nfd}, nil
}

func (p *osConn) Read(buf []byte) (int, error) {
	n, err := ignoringEINTR(func() (int, error) {
		return unix.Read(p.fd, buf)
	})
	//
	if err != nil {
		return 0, os.NewSyscallError("recv", err)
	} else if n == 0 && len(buf) > 0 {
		return 0, io.EOF
	}
	//
	return n, nil
}

func (p *osConn) Write(buf []byte) (int, error) {
	var written int
	//
	for written < len(buf) {
		n, err := ignoringEINTR(func() (int, error) {
			return unix.Write(p.fd, buf[written:])
		})
		//
		if err != nil {
			return written, os.NewSyscallError("send", err)
		}
		//
		written += n
	}
	//
	return written, nil
}

func (p *osConn) Close() error {
	return os.NewSyscallError("close", unix.Close(p.fd))
}

// Interrupted system calls are restarted, since they indicate a signal
// arrived rather than a failure of the call itself.
func ignoringEINTR(fn func() (int, error)) (int, error) {
	for {
		n, err := fn()
		//
		if !errors.Is(err, unix.EINTR) {
			return n, err
		}
	}
}
