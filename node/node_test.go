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
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/phayes/freeport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/blockchain"
	"github.com/royalty-labs/royalty-node/blockchain/soroban/sorobantest"
	"github.com/royalty-labs/royalty-node/node"
	"github.com/royalty-labs/royalty-node/royaltytest"
	"github.com/royalty-labs/royalty-node/wallet"
	"github.com/royalty-labs/royalty-node/wallet/keyfile"
	"github.com/royalty-labs/royalty-node/wallet/wallettest"
)

func newConfig(ledgerURL string) royalty.Config {
	return royalty.Config{
		LedgerURL:           ledgerURL,
		ContractID:          sorobantest.ContractID,
		LedgerConnTimeout:   200 * time.Millisecond,
		LedgerCallTimeout:   200 * time.Millisecond,
		InitRetryInterval:   20 * time.Millisecond,
		InitTimeout:         2 * time.Second,
		WalletProbeAttempts: 3,
		WalletProbeInterval: 10 * time.Millisecond,
		SimulatedLatency:    time.Millisecond,
	}
}

func ledger(t *testing.T) *sorobantest.Server {
	t.Helper()
	srv, err := sorobantest.NewServer()
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func started(t *testing.T, cfg royalty.Config, r *wallet.Registry) *node.Node {
	t.Helper()
	n, err := node.New(cfg, r, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, n.Close()) })

	state, err := n.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, royalty.Connecting, state)
	return n
}

func awaitState(t *testing.T, n *node.Node, want royalty.ConnectionState) {
	t.Helper()
	require.Eventually(t, func() bool {
		return n.API().GetConnectionStatus() == want
	}, 3*time.Second, 10*time.Millisecond)
}

func awaitDetection(t *testing.T, n *node.Node) wallet.Detection {
	t.Helper()
	select {
	case <-n.Detected():
	case <-time.After(time.Second):
		t.Fatal("wallet detection did not end")
	}
	d, ok := n.WalletDetection()
	require.True(t, ok)
	return d
}

func Test_New(t *testing.T) {
	t.Run("happy_defaults", func(t *testing.T) {
		n, err := node.New(royalty.Config{LedgerURL: "http://127.0.0.1:1", ContractID: "C"}, wallet.NewRegistry(), nil)
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, n.Close()) })

		cfg := n.Config()
		assert.Equal(t, node.ConfigDefault.LedgerConnTimeout, cfg.LedgerConnTimeout)
		assert.Equal(t, node.ConfigDefault.InitTimeout, cfg.InitTimeout)
		assert.Equal(t, node.ConfigDefault.ListenAddr, cfg.ListenAddr)
		assert.Equal(t, 30*time.Second, cfg.RecheckInterval)
		assert.Nil(t, n.Keyfile())
		assert.Equal(t, royalty.Connecting, n.API().GetConnectionStatus())
		_, ok := n.WalletDetection()
		assert.False(t, ok)
	})
	t.Run("happy_keyfile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keyfile.yaml")
		w, err := keyfile.Generate(path)
		require.NoError(t, err)

		cfg := newConfig("http://127.0.0.1:1")
		cfg.KeyfilePath = path
		r := wallet.NewRegistry()
		n, err := node.New(cfg, r, nil)
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, n.Close()) })

		require.NotNil(t, n.Keyfile())
		assert.Equal(t, w.Address(), n.Keyfile().Address())
		installed, _, ok := r.Lookup(wallet.NamespacePrimary)
		require.True(t, ok)
		assert.Same(t, n.Keyfile(), installed)
	})
	t.Run("err_missing_ledger_url", func(t *testing.T) {
		_, err := node.New(royalty.Config{ContractID: "C"}, wallet.NewRegistry(), nil)
		require.Error(t, err)
		t.Log(err)
	})
	t.Run("err_missing_contract_id", func(t *testing.T) {
		_, err := node.New(royalty.Config{LedgerURL: "http://127.0.0.1:1"}, wallet.NewRegistry(), nil)
		require.Error(t, err)
		t.Log(err)
	})
	t.Run("err_keyfile_missing", func(t *testing.T) {
		cfg := newConfig("http://127.0.0.1:1")
		cfg.KeyfilePath = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := node.New(cfg, wallet.NewRegistry(), nil)
		require.Error(t, err)
		t.Log(err)
	})
	t.Run("err_duplicate_metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		cfg := newConfig("http://127.0.0.1:1")
		n, err := node.New(cfg, wallet.NewRegistry(), reg)
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, n.Close()) })

		_, err = node.New(cfg, wallet.NewRegistry(), reg)
		require.Error(t, err)
		t.Log(err)
	})
}

func Test_Node_Live(t *testing.T) {
	srv := ledger(t)
	r := wallet.NewRegistry()
	r.Install(wallet.NamespacePrimary, wallettest.NewProvider())
	n := started(t, newConfig(srv.URL()), r)

	d := awaitDetection(t, n)
	assert.True(t, d.Found)
	assert.Equal(t, wallet.NamespacePrimary, d.Capability.Namespace())
	awaitState(t, n, royalty.Live)

	ctx := context.Background()
	s, apiErr := n.API().Connect(ctx)
	require.NoError(t, apiErr)
	assert.Equal(t, wallettest.SamplePublicKey, s.PublicKey)

	ids, apiErr := n.API().GetCreatorWorks(ctx)
	require.NoError(t, apiErr)
	assert.Empty(t, ids)
	assert.Equal(t, 1, srv.Calls("get_creator_works"))
}

func Test_Node_Offline(t *testing.T) {
	port, err := freeport.GetFreePort()
	require.NoError(t, err)
	cfg := newConfig(fmt.Sprintf("http://127.0.0.1:%d", port))
	cfg.InitTimeout = 100 * time.Millisecond
	r := wallet.NewRegistry()
	r.Install(wallet.NamespaceLegacy, wallettest.NewProvider())
	n := started(t, cfg, r)

	awaitState(t, n, royalty.Offline)
	d := awaitDetection(t, n)
	require.True(t, d.Found)
	assert.Equal(t, wallet.NamespaceLegacy, d.Capability.Namespace())

	ctx := context.Background()
	_, apiErr := n.API().Connect(ctx)
	require.NoError(t, apiErr)
	ids, apiErr := n.API().GetCreatorWorks(ctx)
	require.NoError(t, apiErr)
	assert.Equal(t, []uint64{1, 2, 3}, ids)
}

func Test_Node_DetectedWalletUsed(t *testing.T) {
	srv := ledger(t)
	r := wallet.NewRegistry()
	r.Install(wallet.NamespaceLegacy, wallettest.NewProvider())
	n := started(t, newConfig(srv.URL()), r)

	d := awaitDetection(t, n)
	require.True(t, d.Found)
	require.Equal(t, wallet.NamespaceLegacy, d.Capability.Namespace())

	r.Install(wallet.NamespacePrimary, wallettest.NewProvider(wallettest.WithPublicKey("GLATECOMER")))
	s, apiErr := n.API().Connect(context.Background())
	require.NoError(t, apiErr)
	assert.Equal(t, wallettest.SamplePublicKey, s.PublicKey)
}

func Test_Node_Recheck(t *testing.T) {
	ctx := context.Background()
	goOffline := func(t *testing.T, recheck time.Duration) (*node.Node, *sorobantest.Server) {
		t.Helper()
		srv := ledger(t)
		r := wallet.NewRegistry()
		r.Install(wallet.NamespacePrimary, wallettest.NewProvider())
		cfg := newConfig(srv.URL())
		cfg.RecheckInterval = recheck
		n := started(t, cfg, r)
		awaitState(t, n, royalty.Live)
		_, apiErr := n.API().Connect(ctx)
		require.NoError(t, apiErr)

		srv.SetFailure(blockchain.FnGetCreatorWorks, assert.AnError)
		_, apiErr = n.API().GetCreatorWorks(ctx)
		require.NoError(t, apiErr)
		require.Equal(t, royalty.Offline, n.API().GetConnectionStatus())
		srv.SetFailure(blockchain.FnGetCreatorWorks, nil)
		return n, srv
	}

	t.Run("happy_recovers_on_next_operation", func(t *testing.T) {
		n, srv := goOffline(t, 50*time.Millisecond)
		time.Sleep(60 * time.Millisecond)

		ids, apiErr := n.API().GetCreatorWorks(ctx)
		require.NoError(t, apiErr)
		assert.Empty(t, ids)
		assert.Equal(t, royalty.Live, n.API().GetConnectionStatus())
		assert.Equal(t, 2, srv.Calls(blockchain.FnGetCreatorWorks))
	})

	t.Run("happy_negative_disables", func(t *testing.T) {
		n, srv := goOffline(t, -1)
		time.Sleep(20 * time.Millisecond)

		_, apiErr := n.API().GetCreatorWorks(ctx)
		require.NoError(t, apiErr)
		assert.Equal(t, royalty.Offline, n.API().GetConnectionStatus())
		assert.Equal(t, 1, srv.Calls(blockchain.FnGetCreatorWorks))
	})
}

func Test_Node_NoWallet(t *testing.T) {
	srv := ledger(t)
	n := started(t, newConfig(srv.URL()), wallet.NewRegistry())

	d := awaitDetection(t, n)
	assert.False(t, d.Found)
	assert.Equal(t, 3, d.Attempts)

	_, apiErr := n.API().Connect(context.Background())
	royaltytest.AssertAPIError(t, apiErr, royalty.WalletError, royalty.ErrNoProvider)
}

func Test_Node_Keyfile(t *testing.T) {
	srv := ledger(t)
	path := filepath.Join(t.TempDir(), "keyfile.yaml")
	w, err := keyfile.Generate(path)
	require.NoError(t, err)
	srv.FundAccount(w.Address(), 25_0000000)

	cfg := newConfig(srv.URL())
	cfg.KeyfilePath = path
	n := started(t, cfg, wallet.NewRegistry())
	awaitState(t, n, royalty.Live)

	ctx := context.Background()
	s, apiErr := n.API().Connect(ctx)
	require.NoError(t, apiErr)
	assert.Equal(t, w.Address(), s.PublicKey)

	account, apiErr := n.API().GetAccount(ctx)
	require.NoError(t, apiErr)
	assert.Equal(t, w.Address(), account.AccountID)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(25)), account.Balance.String())
}

func Test_Node_Start(t *testing.T) {
	t.Run("err_already_started", func(t *testing.T) {
		n := started(t, newConfig("http://127.0.0.1:1"), wallet.NewRegistry())
		_, err := n.Start(context.Background())
		assert.ErrorIs(t, err, node.ErrAlreadyStarted)
	})
	t.Run("err_closed", func(t *testing.T) {
		n, err := node.New(newConfig("http://127.0.0.1:1"), wallet.NewRegistry(), nil)
		require.NoError(t, err)
		require.NoError(t, n.Close())
		require.NoError(t, n.Close())

		_, err = n.Start(context.Background())
		assert.ErrorIs(t, err, node.ErrClosed)
	})
}
