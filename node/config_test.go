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

package node_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gotest.tools/assert"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/node"
)

var (
	testdataDir       = "testdata"
	validConfigFile   = "valid.yaml"
	invalidConfigFile = "invalid.yaml"
	// test configuration as in the testdata file at testdata/valid.yaml.
	testCfg = royalty.Config{
		LogLevel:            "debug",
		LogFile:             "node.log",
		LedgerURL:           "http://127.0.0.1:8000/rpc",
		ContractID:          "CROYALTYTESTCONTRACT",
		LedgerConnTimeout:   10 * time.Second,
		LedgerCallTimeout:   5 * time.Second,
		InitRetryInterval:   time.Second,
		InitTimeout:         30 * time.Second,
		RecheckInterval:     30 * time.Second,
		RPCRateLimit:        20,
		RPCBurst:            5,
		WalletProbeAttempts: 10,
		WalletProbeInterval: time.Second,
		KeyfilePath:         "./keyfile.yaml",
		SimulatedLatency:    1500 * time.Millisecond,
		WorkCacheSize:       128,
		ListenAddr:          "127.0.0.1:8080",
	}
)

func Test_ParseConfig(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		gotCfg, err := node.ParseConfig(filepath.Join(testdataDir, validConfigFile))
		require.NoError(t, err)
		assert.DeepEqual(t, testCfg, gotCfg)
	})
	t.Run("err_invalid_file", func(t *testing.T) {
		_, err := node.ParseConfig(filepath.Join(testdataDir, invalidConfigFile))
		require.Error(t, err)
		t.Log(err)
	})
	t.Run("err_missingFile", func(t *testing.T) {
		_, err := node.ParseConfig("missing_file")
		require.Error(t, err)
		t.Log(err)
	})
}
