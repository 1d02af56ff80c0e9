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
package file

import (
	"compress/bzip2"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ReadAndUncompress reads a given file, decompressing it as necessary based on
// its extension (".bz2", ".gz" or ".zst").  This returns the filename with any
// compression extension removed, along with the (uncompressed) contents.
func ReadAndUncompress(filename string) (string, []byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return filename, nil, err
	}
	//
	defer file.Close() //nolint:errcheck
	//
	var (
		ext    = path.Ext(filename)
		name   = strings.TrimSuffix(filename, ext)
		reader io.Reader
	)
	//
	switch ext {
	case ".bz2":
		reader = bzip2.NewReader(file)
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			return filename, nil, err
		}
		//
		defer gz.Close() //nolint:errcheck
		//
		reader = gz
	case ".zst":
		zs, err := zstd.NewReader(file)
		if err != nil {
			return filename, nil, err
		}
		//
		defer zs.Close()
		//
		reader = zs
	default:
		bytes, err := io.ReadAll(file)
		return filename, bytes, err
	}
	//
	bytes, err := io.ReadAll(reader)
	//
	return name, bytes, err
}
