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

//go:build !unix

package socket

import (
	"net/netip"
)

// OS returns the backend which creates sockets using the operating system's
// socket calls directly.  On this platform, every operation fails.
func OS() Backend {
	return osBackend{}
}

type osBackend struct{}

// Bind implementation for the Backend interface.
func (osBackend) Bind(addr netip.AddrPort) (Conn, error) {
	return nil, ErrUnsupported
}
