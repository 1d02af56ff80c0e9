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
package termio

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// IsTerminal checks whether a given file is connected to a terminal.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// RawInput holds a terminal in raw mode, such that individual key presses are
// delivered immediately (rather than line-by-line) and are not echoed.
type RawInput struct {
	// file descriptor for input.
	fd int
	// Stores original state of terminal so this can be restored.
	state *term.State
}

// NewRawInput moves the terminal connected to a given file into raw mode.
// This fails if the file is not a terminal.
func NewRawInput(file *os.File) (*RawInput, error) {
	fd := int(file.Fd())
	//
	if !term.IsTerminal(fd) {
		return nil, errors.New("invalid terminal")
	}
	// Move terminal into raw mode
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	//
	return &RawInput{fd, state}, nil
}

// Restore terminal to its original state.
func (t *RawInput) Restore() error {
	return term.Restore(t.fd, t.state)
}
