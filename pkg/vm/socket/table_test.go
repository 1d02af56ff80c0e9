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
package socket

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/go-tapevm/pkg/util/assert"
)

func TestTable_01(t *testing.T) {
	table := NewTable()
	//
	assert.Equal(t, uint(0), table.Add(&fakeConn{}))
	assert.Equal(t, uint(1), table.Add(&fakeConn{}))
	assert.Equal(t, uint(2), table.Add(&fakeConn{}))
	assert.Equal(t, uint(3), table.Len())
}

func TestTable_02(t *testing.T) {
	var (
		table = NewTable()
		conn  = &fakeConn{}
	)
	//
	table.Add(&fakeConn{})
	table.Add(conn)
	table.Add(&fakeConn{})
	// Closing frees the handle
	assert.NoError(t, table.Close(1))
	assert.True(t, conn.closed)
	assert.Equal(t, uint(2), table.Len())
	//
	_, err := table.Get(1)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	// Lowest free handle is reused
	assert.Equal(t, uint(1), table.Add(&fakeConn{}))
}

func TestTable_03(t *testing.T) {
	table := NewTable()
	table.Add(&fakeConn{})
	//
	for _, v := range []*big.Int{big.NewInt(-1), big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), 100)} {
		_, err := table.Lookup(v)
		assert.ErrorIs(t, err, ErrUnknownHandle)
	}
	//
	conn, err := table.Lookup(big.NewInt(0))
	assert.NoError(t, err)
	assert.True(t, conn != nil)
}

func TestTable_04(t *testing.T) {
	var (
		table   = NewTable()
		failure = errors.New("failed")
		first   = &failingConn{err: failure}
		second  = &fakeConn{}
	)
	//
	table.Add(first)
	table.Add(second)
	// All closed despite failure
	assert.ErrorIs(t, table.CloseAll(), failure)
	assert.True(t, second.closed)
	assert.Equal(t, uint(0), table.Len())
}

type failingConn struct {
	fakeConn
	err error
}

func (p *failingConn) Close() error {
	return p.err
}
