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
	"bytes"
	"errors"
	"io"
	"math/big"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-tapevm/pkg/util/assert"
	"github.com/consensys/go-tapevm/pkg/util/termio"
	"github.com/consensys/go-tapevm/pkg/vm/instruction"
	"github.com/consensys/go-tapevm/pkg/vm/machine"
	"github.com/consensys/go-tapevm/pkg/vm/socket"
)

func TestRun_01(t *testing.T) {
	stdout, _, err := checkRun(t, "++++++++[>++++++++<-]>.", "", defaultConfig())
	//
	assert.NoError(t, err)
	assert.Equal(t, "@", stdout)
}

func TestRun_02(t *testing.T) {
	config := defaultConfig()
	config.debug = true
	//
	stdout, trace, err := checkRun(t, "+ comment .", "", config)
	//
	assert.NoError(t, err)
	assert.Equal(t, "\x01", stdout)
	// One line per executed instruction
	lines := strings.Split(strings.TrimSpace(trace), "\n")
	assert.Equal(t, 2, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "#0 pc=0 +"))
	assert.True(t, strings.HasPrefix(lines[1], "#1 pc=10 ."))
}

func TestRun_03(t *testing.T) {
	config := defaultConfig()
	config.breakpoints = true
	//
	_, trace, err := checkRun(t, "+!+", "", config)
	//
	assert.NoError(t, err)
	assert.Equal(t, "#1 pc=1 ! (breakpoint) | cursor=0 | 0 0 0 0 0 0 0 0 [1] 0 0 0 0 0 0 0 0\n", trace)
}

func TestRun_04(t *testing.T) {
	config := defaultConfig()
	config.maxSteps = 100
	//
	_, _, err := checkRun(t, "+[]", "", config)
	//
	assert.ErrorIs(t, err, machine.ErrStepLimit)
}

func TestRun_05(t *testing.T) {
	config := defaultConfig()
	config.extended = false
	// Socket and trap characters are comments
	stdout, trace, err := checkRun(t, "+@!.", "", config)
	//
	assert.NoError(t, err)
	assert.Equal(t, "\x01", stdout)
	assert.Equal(t, "", trace)
}

func TestRun_06(t *testing.T) {
	config := defaultConfig()
	config.policy = machine.EOF_MINUS_ONE
	// Echo until end-of-input
	stdout, _, err := checkRun(t, ",+[-.,+]", "abc", config)
	//
	assert.NoError(t, err)
	assert.Equal(t, "abc", stdout)
}

func TestRun_07(t *testing.T) {
	// Bind fails, which is a fault at the socket instruction
	_, _, err := checkRun(t, "+@", "", defaultConfig())
	//
	var fault *machine.Fault
	//
	assert.ErrorIs(t, err, errBind)
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, 1, fault.PC)
}

func TestRun_08(t *testing.T) {
	_, _, err := checkRun(t, "+[", "", defaultConfig())
	//
	assert.ErrorIs(t, err, machine.ErrUnmatchedOpen)
	assert.True(t, machine.IsBracketFault(err))
}

func TestRun_09(t *testing.T) {
	var (
		backend = &recordingBackend{}
		stdout  bytes.Buffer
		// Bind, listen on the new handle, then an unmatched bracket
		program = instruction.NewProgram([]rune("@>+<@]"), true)
	)
	//
	_, err := runProgram(program, defaultConfig(), strings.NewReader(""), &stdout, &stdout,
		termio.PlainFormatter(), backend)
	//
	var fault *machine.Fault
	//
	assert.ErrorIs(t, err, machine.ErrUnmatchedClose)
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, 5, fault.PC)
	// Listening socket released despite the fault
	assert.Equal(t, 1, len(backend.conns))
	assert.True(t, backend.conns[0].listening)
	assert.True(t, backend.conns[0].closed)
}

func TestReadProgram_01(t *testing.T) {
	filename := writeProgram(t, "+\r\n.")
	//
	srcfile, program, err := readProgram(filename, true)
	//
	assert.NoError(t, err)
	assert.Equal(t, filename, srcfile.Filename())
	assert.Equal(t, "+  .", program.String())
	assert.Equal(t, uint(1), program.Count(instruction.INC))
}

func TestReadProgram_02(t *testing.T) {
	_, _, err := readProgram(filepath.Join(t.TempDir(), "missing.b"), true)
	//
	assert.True(t, os.IsNotExist(err))
}

func TestSyntaxError_01(t *testing.T) {
	filename := writeProgram(t, "+\n[>+")
	srcfile, program, err := readProgram(filename, true)
	assert.NoError(t, err)
	//
	synErr := bracketError(srcfile, machine.Check(program))
	assert.True(t, synErr != nil)
	//
	var out bytes.Buffer
	//
	printSyntaxError(&out, synErr)
	//
	expected := filename + ":2:1-2 found '[' but no matching ']'\n\n[>+\n^\n"
	assert.Equal(t, expected, out.String())
}

func TestSyntaxError_02(t *testing.T) {
	srcfile, _, err := readProgram(writeProgram(t, "+"), true)
	assert.NoError(t, err)
	// Only bracket faults have a source location
	assert.True(t, bracketError(srcfile, machine.ErrStepLimit) == nil)
	assert.True(t, bracketError(srcfile, nil) == nil)
}

func TestSyntaxError_03(t *testing.T) {
	filename := writeProgram(t, "[\r\n+")
	srcfile, program, err := readProgram(filename, true)
	assert.NoError(t, err)
	//
	var out bytes.Buffer
	//
	printSyntaxError(&out, bracketError(srcfile, machine.Check(program)))
	// Carriage return is not echoed
	expected := filename + ":1:1-2 found '[' but no matching ']'\n\n[\n^\n"
	assert.Equal(t, expected, out.String())
}

func TestFormatSnapshot_01(t *testing.T) {
	snapshot := machine.Snapshot{
		Reason: machine.STEP,
		PC:     3,
		Opcode: instruction.INC,
		Cursor: 7,
		Window: []big.Int{*big.NewInt(0), *big.NewInt(5), *big.NewInt(-2)},
		Radius: 1,
		Frames: []machine.Frame{{Start: 1, End: 4}},
		Steps:  2,
	}
	//
	assert.Equal(t, "#2 pc=3 + | cursor=7 | 0 [5] -2 | (start=1, end=4)",
		formatSnapshot(snapshot, termio.PlainFormatter()))
}

// ==================================================================
// Framework
// ==================================================================

var errBind = errors.New("bind failed")

type failingBackend struct{}

func (failingBackend) Bind(addr netip.AddrPort) (socket.Conn, error) {
	return nil, errBind
}

type recordingBackend struct {
	conns []*recordingConn
}

func (p *recordingBackend) Bind(addr netip.AddrPort) (socket.Conn, error) {
	conn := &recordingConn{}
	p.conns = append(p.conns, conn)
	//
	return conn, nil
}

type recordingConn struct {
	listening bool
	closed    bool
}

func (p *recordingConn) Read(buf []byte) (int, error) {
	return 0, io.EOF
}

func (p *recordingConn) Write(buf []byte) (int, error) {
	return len(buf), nil
}

func (p *recordingConn) Listen(backlog int) error {
	p.listening = true
	return nil
}

func (p *recordingConn) Accept() (socket.Conn, error) {
	return nil, errors.New("no clients")
}

func (p *recordingConn) Close() error {
	p.closed = true
	return nil
}

func defaultConfig() runConfig {
	return runConfig{extended: true, policy: machine.EOF_UNCHANGED}
}

func checkRun(t *testing.T, source string, input string, config runConfig) (string, string, error) {
	var (
		stdout  bytes.Buffer
		trace   bytes.Buffer
		program = instruction.NewProgram([]rune(source), config.extended)
	)
	//
	_, err := runProgram(program, config, strings.NewReader(input), &stdout, &trace, termio.PlainFormatter(),
		failingBackend{})
	//
	return stdout.String(), trace.String(), err
}

func writeProgram(t *testing.T, contents string) string {
	filename := filepath.Join(t.TempDir(), "prog.b")
	//
	if err := os.WriteFile(filename, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	//
	return filename
}
