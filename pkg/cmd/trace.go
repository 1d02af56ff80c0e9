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
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/consensys/go-tapevm/pkg/util/termio"
	"github.com/consensys/go-tapevm/pkg/vm/machine"
)

var (
	cursorEscape     = termio.BoldAnsiEscape().FgColour(termio.TERM_CYAN)
	breakpointEscape = termio.BoldAnsiEscape().FgColour(termio.TERM_YELLOW)
	frameEscape      = termio.NewAnsiEscape().FgColour(termio.TERM_MAGENTA)
)

// Construct a hook which prints each snapshot it receives on a line of its
// own.  Printing never blocks for input.
func traceHook(out io.Writer, format termio.Formatter) machine.Hook {
	return func(snapshot machine.Snapshot) error {
		_, err := fmt.Fprintln(out, formatSnapshot(snapshot, format))
		//
		return err
	}
}

// Format a snapshot as a single line, consisting of the step count, program
// counter and opcode, then the tape window (with the current cell bracketed)
// and finally the active loop frames.
func formatSnapshot(snapshot machine.Snapshot, format termio.Formatter) string {
	var builder strings.Builder
	//
	header := fmt.Sprintf("#%d pc=%d %s", snapshot.Steps, snapshot.PC, snapshot.Opcode)
	//
	if snapshot.Reason == machine.BREAKPOINT {
		header = format.Format(breakpointEscape, header+" (breakpoint)")
	}
	//
	builder.WriteString(header)
	builder.WriteString(fmt.Sprintf(" | cursor=%d |", snapshot.Cursor))
	//
	for i := range snapshot.Window {
		cell := snapshot.Window[i].String()
		//
		if i == int(snapshot.Radius) {
			cell = format.Format(cursorEscape, "["+cell+"]")
		}
		//
		builder.WriteString(" ")
		builder.WriteString(cell)
	}
	//
	if len(snapshot.Frames) > 0 {
		builder.WriteString(" |")
		//
		for _, frame := range snapshot.Frames {
			builder.WriteString(" ")
			builder.WriteString(format.Format(frameEscape, frame.String()))
		}
	}
	//
	return builder.String()
}
