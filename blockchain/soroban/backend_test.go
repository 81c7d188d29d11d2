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

package soroban_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/blockchain"
	"github.com/royalty-labs/royalty-node/blockchain/soroban"
	"github.com/royalty-labs/royalty-node/blockchain/soroban/sorobantest"
)

const creator = "GBZXN7PIRZGNMHGA7MUUUF4GWPY5AYPV6LY4UV2GL6VJGIQRXFDNMADI"

func setup(t *testing.T) (*sorobantest.Server, *soroban.Backend) {
	t.Helper()
	srv, err := sorobantest.NewServer()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	b, err := soroban.Dial(context.Background(), srv.URL(), time.Second, time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() }) // nolint: errcheck
	return srv, b
}

func registerInvocation(source string, minFee string) royalty.Invocation {
	return royalty.Invocation{
		ContractID: sorobantest.ContractID,
		Function:   blockchain.FnRegisterWork,
		Source:     source,
		Args:       []interface{}{"Song", "a song", "https://example.com/song", "music", 1000, 500, "10000", minFee},
	}
}

func Test_Dial(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		srv, _ := setup(t)
		assert.Equal(t, 1, srv.Calls(soroban.MethodGetHealth))
	})

	t.Run("err_unhealthy", func(t *testing.T) {
		srv, err := sorobantest.NewServer()
		require.NoError(t, err)
		defer srv.Close()
		srv.SetStatus("catching_up")

		_, err = soroban.Dial(context.Background(), srv.URL(), time.Second, time.Second, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catching_up")
	})

	t.Run("err_unreachable", func(t *testing.T) {
		srv, err := sorobantest.NewServer()
		require.NoError(t, err)
		url := srv.URL()
		srv.Close()

		_, err = soroban.Dial(context.Background(), url, time.Second, time.Second, nil)
		require.Error(t, err)
	})
}

func Test_Backend_GetAccount(t *testing.T) {
	t.Run("happy", func(t *testing.T) {
		srv, b := setup(t)
		srv.FundAccount(creator, 25_000_000)

		acc, err := b.GetAccount(context.Background(), creator)
		require.NoError(t, err)
		assert.Equal(t, creator, acc.AccountID)
		assert.Equal(t, "2.5", acc.Balance.String())
	})

	t.Run("err_not_found", func(t *testing.T) {
		_, b := setup(t)

		_, err := b.GetAccount(context.Background(), creator)
		require.Error(t, err)
		assert.True(t, blockchain.IsAccountNotFound(err))
	})

	t.Run("err_gateway", func(t *testing.T) {
		srv, b := setup(t)
		srv.SetFailure(soroban.MethodGetAccount, errors.New("internal failure"))

		_, err := b.GetAccount(context.Background(), creator)
		require.Error(t, err)
		assert.False(t, blockchain.IsAccountNotFound(err))
	})

	t.Run("err_invalid_address", func(t *testing.T) {
		srv, b := setup(t)

		_, err := b.GetAccount(context.Background(), "GABC...XYZ")
		require.Error(t, err)
		assert.True(t, blockchain.IsInvalidAddress(err))
		assert.Zero(t, srv.Calls(soroban.MethodGetAccount))
	})
}

func Test_Backend_Invoke(t *testing.T) {
	ctx := context.Background()

	t.Run("happy_register_and_read", func(t *testing.T) {
		_, b := setup(t)

		var id uint64
		require.NoError(t, b.Invoke(ctx, registerInvocation(creator, "100000"), &id))
		assert.Equal(t, uint64(1), id)

		var work blockchain.WorkRecord
		require.NoError(t, b.Invoke(ctx, royalty.Invocation{
			ContractID: sorobantest.ContractID,
			Function:   blockchain.FnGetWork,
			Args:       []interface{}{id},
		}, &work))
		assert.Equal(t, creator, work.Creator)
		assert.Equal(t, "Song", work.Title)
		assert.True(t, work.IsActive)

		var cfg blockchain.RoyaltyConfigRecord
		require.NoError(t, b.Invoke(ctx, royalty.Invocation{
			ContractID: sorobantest.ContractID,
			Function:   blockchain.FnGetRoyaltyConfig,
			Args:       []interface{}{id},
		}, &cfg))
		assert.Equal(t, uint32(1000), cfg.PrimaryRoyaltyBps)
		assert.Equal(t, "100000", cfg.MinimumLicenseFee.String())
	})

	t.Run("happy_nil_result", func(t *testing.T) {
		srv, b := setup(t)

		require.NoError(t, b.Invoke(ctx, royalty.Invocation{
			ContractID: sorobantest.ContractID,
			Function:   blockchain.FnGetRoyaltyStats,
		}, nil))
		assert.Equal(t, 1, srv.Calls(blockchain.FnGetRoyaltyStats))
	})

	t.Run("err_contract_rejects", func(t *testing.T) {
		_, b := setup(t)
		inv := registerInvocation(creator, "100000")
		inv.Args[4] = 10001

		err := b.Invoke(ctx, inv, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), blockchain.FnRegisterWork)
	})

	t.Run("err_malformed_result", func(t *testing.T) {
		_, b := setup(t)

		var work blockchain.WorkRecord
		err := b.Invoke(ctx, registerInvocation(creator, "100000"), &work)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed result")
	})

	t.Run("err_injected_failure", func(t *testing.T) {
		srv, b := setup(t)
		srv.SetFailure(blockchain.FnGetRoyaltyStats, errors.New("simulation failed"))

		err := b.Invoke(ctx, royalty.Invocation{
			ContractID: sorobantest.ContractID,
			Function:   blockchain.FnGetRoyaltyStats,
		}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulation failed")
	})

	t.Run("err_entry_not_found", func(t *testing.T) {
		_, b := setup(t)

		var work blockchain.WorkRecord
		err := b.Invoke(ctx, royalty.Invocation{
			ContractID: sorobantest.ContractID,
			Function:   blockchain.FnGetWork,
			Args:       []interface{}{42},
		}, &work)
		require.Error(t, err)
		assert.True(t, blockchain.IsEntryNotFound(err))
	})

	t.Run("err_context_cancelled", func(t *testing.T) {
		_, b := setup(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := b.Invoke(cancelled, royalty.Invocation{
			ContractID: sorobantest.ContractID,
			Function:   blockchain.FnGetRoyaltyStats,
		}, nil)
		require.Error(t, err)
	})
}

func Test_NewLimiter(t *testing.T) {
	assert.True(t, soroban.NewLimiter(0, 0).Allow())
	l := soroban.NewLimiter(1, 0)
	assert.Equal(t, 1, l.Burst())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}
