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
	"os"

	"github.com/consensys/go-tapevm/pkg/util/source"
	"github.com/consensys/go-tapevm/pkg/vm/instruction"
	"github.com/consensys/go-tapevm/pkg/vm/machine"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] program",
	Short: "Check a tape program is well formed.",
	Long: `Check that every loop bracket in a tape program has a matching partner,
without executing the program.  The first imbalance found is reported.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		noSocket := GetFlag(cmd, "no-socket")
		//
		srcfile, program := ReadProgram(args[0], !noSocket)
		//
		if !checkProgram(os.Stderr, srcfile, program) {
			os.Exit(3)
		}
		//
		fmt.Printf("%s: ok\n", srcfile.Filename())
	},
}

// Check a program's brackets are balanced, writing diagnostics for the first
// imbalance (if any) to the given output.
func checkProgram(out io.Writer, srcfile *source.File, program *instruction.Program) bool {
	if err := machine.Check(program); err != nil {
		printSyntaxError(out, bracketError(srcfile, err))
		return false
	}
	//
	for op := instruction.RIGHT; op <= instruction.TRAP; op++ {
		if n := program.Count(op); n > 0 {
			log.Debugf("%s: %d", op, n)
		}
	}
	//
	return true
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("no-socket", false, "treat '@' and '!' as comments")
}
