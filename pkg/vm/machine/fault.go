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
	"errors"
	"fmt"
)

// ErrUnmatchedOpen indicates a "[" for which no matching "]" exists.
var ErrUnmatchedOpen = errors.New("found '[' but no matching ']'")

// ErrUnmatchedClose indicates a "]" encountered with no active loop.
var ErrUnmatchedClose = errors.New("found ']' but no matching '['")

// ErrStepLimit indicates execution was aborted after reaching the configured
// maximum number of steps.
var ErrStepLimit = errors.New("step limit reached")

// Fault is a fatal error which arose executing the instruction at a given
// position in the program.  Faults are terminal: there is no way to resume a
// machine after one arises.
type Fault struct {
	// Position of the instruction being executed.
	PC int
	// Underlying cause.
	Err error
}

func (p *Fault) Error() string {
	return fmt.Sprintf("pc %d: %s", p.PC, p.Err.Error())
}

// Unwrap returns the underlying cause of this fault.
func (p *Fault) Unwrap() error {
	return p.Err
}

// IsBracketFault checks whether a given error arose from a mismatched bracket.
func IsBracketFault(err error) bool {
	return errors.Is(err, ErrUnmatchedOpen) || errors.Is(err, ErrUnmatchedClose)
}
