// Copyright (c) 2024 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/royalty-labs/royalty-node
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalty-labs/royalty-node/wallet/keyfile"
)

func Test_GenerateKeyfile(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keyfile.yaml")
		var out bytes.Buffer
		require.NoError(t, generateKeyfile(&out, path, false, ""))

		w, err := keyfile.Load(path)
		require.NoError(t, err)
		assert.Contains(t, out.String(), w.Address())
		assert.NotContains(t, out.String(), "QR code")
	})
	t.Run("happy_qr", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "keyfile.yaml")
		qrFile := filepath.Join(dir, "address.png")
		var out bytes.Buffer
		require.NoError(t, generateKeyfile(&out, path, true, qrFile))

		f, err := os.Open(qrFile)
		require.NoError(t, err)
		defer f.Close() // nolint: errcheck
		img, err := png.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, qrImageSize, img.Bounds().Dx())
		assert.Contains(t, out.String(), "QR code written to "+qrFile)
	})
	t.Run("err_file_exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keyfile.yaml")
		require.NoError(t, os.WriteFile(path, []byte("secret_seed: x\n"), 0o600))

		err := generateKeyfile(&bytes.Buffer{}, path, false, "")
		require.Error(t, err)
		t.Log(err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "secret_seed: x\n", string(data))
	})
}
