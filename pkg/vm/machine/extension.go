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
	"github.com/consensys/go-tapevm/pkg/vm/memory"
)

// Extension provides the behaviour of the extended "@" opcode.  An extension
// operates on a window of cells relative to the cursor and typically owns
// resources (e.g. sockets) which must be released when the machine shuts down.
type Extension interface {
	// Invoke the operation described by the tape window at the cursor.  The
	// console is passed to allow blocking operations to honour its end-of-input
	// policy.
	Invoke(tape *memory.Tape, console *Console) error
	// Close releases all resources held by this extension.
	Close() error
}
