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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-tapevm/pkg/util/source"
	"github.com/consensys/go-tapevm/pkg/vm/instruction"
	"github.com/consensys/go-tapevm/pkg/vm/machine"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// ReadProgram reads a given program file (decompressing as necessary) and
// decodes it into a program.  The source file is retained for reporting
// diagnostics.  Any failure to read the file is reported and exits.
func ReadProgram(filename string, extended bool) (*source.File, *instruction.Program) {
	srcfile, program, err := readProgram(filename, extended)
	//
	if err != nil {
		log.Error(err)
		os.Exit(2)
	}
	//
	return srcfile, program
}

func readProgram(filename string, extended bool) (*source.File, *instruction.Program, error) {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	// Newlines are whitespace, hence comments.
	text := instruction.NormaliseNewlines(srcfile.Contents())
	program := instruction.NewProgram(text, extended)
	//
	log.Debugf("loaded %s (%d characters, fingerprint %s)", srcfile.Filename(), program.Len(),
		program.Fingerprint())
	//
	return srcfile, program, nil
}

// Convert a bracket fault into a syntax error over the offending bracket, or
// return nil if the error is not a bracket fault.
func bracketError(srcfile *source.File, err error) *source.SyntaxError {
	var fault *machine.Fault
	//
	if !machine.IsBracketFault(err) || !errors.As(err, &fault) {
		return nil
	}
	//
	return srcfile.SyntaxError(source.NewSpan(fault.PC, fault.PC+1), fault.Err.Error())
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(out io.Writer, err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(0, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Fprintf(out, "%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Fprintln(out)
	// Print line (without any carriage return)
	fmt.Fprintln(out, strings.TrimRight(line.String(), "\r"))
	// Print indent (todo: account for tabs)
	fmt.Fprint(out, strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Fprintln(out, strings.Repeat("^", length))
}
