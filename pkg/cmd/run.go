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

	"github.com/consensys/go-tapevm/pkg/util/termio"
	"github.com/consensys/go-tapevm/pkg/vm/instruction"
	"github.com/consensys/go-tapevm/pkg/vm/machine"
	"github.com/consensys/go-tapevm/pkg/vm/memory"
	"github.com/consensys/go-tapevm/pkg/vm/socket"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program",
	Short: "Execute a tape program.",
	Long: `Execute a tape program, reading from stdin and writing to stdout.  By
default, '@' invokes socket operations and '!' is a breakpoint; with
--no-socket both are treated as comments.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getRunConfig(cmd)
		//
		srcfile, program := ReadProgram(args[0], config.extended)
		//
		if err := executeProgram(program, config); err != nil {
			if synErr := bracketError(srcfile, err); synErr != nil {
				printSyntaxError(os.Stderr, synErr)
			} else {
				log.Error(err)
			}
			//
			os.Exit(4)
		}
	},
}

// Configuration for a single run, as determined from the command line.
type runConfig struct {
	// Decode '@' and '!' as instructions
	extended bool
	// Print a snapshot before every instruction
	debug bool
	// Print a snapshot on every breakpoint
	breakpoints bool
	// Put terminal input into raw mode
	raw bool
	// What happens to the current cell at end-of-input
	policy machine.EOFPolicy
	// Maximum number of instructions (or zero for unlimited)
	maxSteps uint
	// Initial number of cells
	tapeSize uint
}

func getRunConfig(cmd *cobra.Command) runConfig {
	policy, err := machine.ParseEOFPolicy(GetString(cmd, "eof"))
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	return runConfig{
		extended:    !GetFlag(cmd, "no-socket"),
		debug:       GetFlag(cmd, "debug"),
		breakpoints: GetFlag(cmd, "break"),
		raw:         GetFlag(cmd, "raw"),
		policy:      policy,
		maxSteps:    GetUint(cmd, "max-steps"),
		tapeSize:    GetUint(cmd, "tape-size"),
	}
}

// Execute a program against the process's standard streams and the operating
// system's sockets.
func executeProgram(program *instruction.Program, config runConfig) error {
	if config.raw {
		input, err := termio.NewRawInput(os.Stdin)
		//
		if err != nil {
			log.Warnf("raw input unavailable: %s", err)
		} else {
			defer input.Restore() //nolint:errcheck
		}
	}
	//
	format := termio.NewFormatter(os.Stderr)
	//
	_, err := runProgram(program, config, os.Stdin, os.Stdout, os.Stderr, format, socket.OS())
	//
	return err
}

// Run a program to completion (or failure) using the given streams.  Snapshots
// are written to trace, and sockets are created via the given backend.  The
// machine is always closed, regardless of how execution ends.
func runProgram(program *instruction.Program, config runConfig, stdin io.Reader, stdout io.Writer,
	trace io.Writer, format termio.Formatter, backend socket.Backend) (steps uint, err error) {
	//
	m := machine.New(program).
		WithConsole(machine.NewConsole(stdin, stdout, config.policy)).
		WithTapeSize(config.tapeSize).
		WithStepLimit(config.maxSteps)
	//
	if config.extended {
		m = m.WithExtension(socket.NewExtension(backend))
	}
	//
	if config.debug {
		m = m.WithTracer(traceHook(trace, format))
	}
	//
	if config.debug || config.breakpoints {
		m = m.WithBreakpoint(traceHook(trace, format))
	}
	//
	defer func() {
		err = errors.Join(err, m.Close())
	}()
	// Execute machine in chunks of 1K steps
	steps, err = machine.ExecuteAll(&m, 1024)
	//
	log.Debugf("executed %d steps", steps)
	//
	return steps, err
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("debug", false, "print machine state before every instruction")
	runCmd.Flags().Bool("break", false, "print machine state at every breakpoint")
	runCmd.Flags().Bool("no-socket", false, "treat '@' and '!' as comments")
	runCmd.Flags().String("eof", "unchanged", "cell value at end-of-input (unchanged, zero or minus-one)")
	runCmd.Flags().Bool("raw", false, "read terminal input unbuffered and without echo")
	runCmd.Flags().Uint("max-steps", 0, "maximum number of instructions to execute (0 for unlimited)")
	runCmd.Flags().Uint("tape-size", memory.CHUNK_SIZE, "initial number of tape cells")
}
