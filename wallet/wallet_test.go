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

package wallet_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalty-labs/royalty-node/wallet"
	"github.com/royalty-labs/royalty-node/wallet/wallettest"
)

func Test_Resolve(t *testing.T) {
	t.Run("happy_primary_preferred", func(t *testing.T) {
		r := wallet.NewRegistry()
		r.Install(wallet.NamespaceLegacy, wallettest.NewProvider())
		r.Install(wallet.NamespacePrimary, wallettest.NewProvider())

		c, err := wallet.Resolve(r)
		require.NoError(t, err)
		assert.Equal(t, wallet.NamespacePrimary, c.Namespace())
		assert.Empty(t, c.Missing())
	})

	t.Run("happy_legacy_fallback", func(t *testing.T) {
		r := wallet.NewRegistry()
		r.Install(wallet.NamespaceLegacy, wallettest.NewProvider())

		c, err := wallet.Resolve(r)
		require.NoError(t, err)
		assert.Equal(t, wallet.NamespaceLegacy, c.Namespace())
	})

	t.Run("err_none_installed", func(t *testing.T) {
		_, err := wallet.Resolve(wallet.NewRegistry())
		require.Error(t, err)
		assert.True(t, errors.Is(err, wallet.ErrProviderUnavailable))
	})
}

func Test_Capability_Missing(t *testing.T) {
	tests := []struct {
		name     string
		provider interface{}
		missing  string
	}{
		{"complete", wallettest.NewProvider(), ""},
		{"checker_only", &wallettest.CheckerOnly{}, wallet.OpConnect},
		{"without_identity", &wallettest.WithoutIdentity{}, wallet.OpGetPublicKey},
		{"unrelated_object", &struct{ Name string }{"x"}, wallet.OpIsConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := wallet.NewRegistry()
			r.Install(wallet.NamespacePrimary, tt.provider)
			c, err := wallet.Resolve(r)
			require.NoError(t, err)
			assert.Equal(t, tt.missing, c.Missing())
		})
	}
}

func Test_Capability_Calls(t *testing.T) {
	ctx := context.Background()

	t.Run("happy", func(t *testing.T) {
		r := wallet.NewRegistry()
		p := wallettest.NewProvider()
		r.Install(wallet.NamespacePrimary, p)
		c, err := wallet.Resolve(r)
		require.NoError(t, err)

		connected, err := c.IsConnected(ctx)
		require.NoError(t, err)
		assert.False(t, connected)

		require.NoError(t, c.Connect(ctx))
		connected, err = c.IsConnected(ctx)
		require.NoError(t, err)
		assert.True(t, connected)

		key, err := c.GetPublicKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, wallettest.SamplePublicKey, key)
	})

	t.Run("err_rejected", func(t *testing.T) {
		r := wallet.NewRegistry()
		r.Install(wallet.NamespacePrimary, wallettest.NewProvider(wallettest.WithRejection()))
		c, err := wallet.Resolve(r)
		require.NoError(t, err)

		err = c.Connect(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, wallet.ErrUserRejected))
	})

	t.Run("err_operation_missing", func(t *testing.T) {
		r := wallet.NewRegistry()
		r.Install(wallet.NamespacePrimary, &wallettest.CheckerOnly{})
		c, err := wallet.Resolve(r)
		require.NoError(t, err)

		err = c.Connect(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, wallet.ErrOperationMissing))
	})

	t.Run("err_provider_removed", func(t *testing.T) {
		r := wallet.NewRegistry()
		r.Install(wallet.NamespacePrimary, wallettest.NewProvider())
		c, err := wallet.Resolve(r)
		require.NoError(t, err)

		r.Remove(wallet.NamespacePrimary)
		_, err = c.GetPublicKey(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, wallet.ErrProviderGone))
	})

	t.Run("err_provider_replaced", func(t *testing.T) {
		r := wallet.NewRegistry()
		r.Install(wallet.NamespacePrimary, wallettest.NewProvider())
		c, err := wallet.Resolve(r)
		require.NoError(t, err)

		r.Install(wallet.NamespacePrimary, wallettest.NewProvider())
		_, err = c.IsConnected(ctx)
		assert.True(t, errors.Is(err, wallet.ErrProviderGone))
	})

	t.Run("err_same_provider_reinstalled", func(t *testing.T) {
		r := wallet.NewRegistry()
		p := wallettest.NewProvider()
		r.Install(wallet.NamespacePrimary, p)
		c, err := wallet.Resolve(r)
		require.NoError(t, err)

		r.Install(wallet.NamespacePrimary, p)
		_, err = c.IsConnected(ctx)
		assert.True(t, errors.Is(err, wallet.ErrProviderGone))
	})

	t.Run("happy_uncomparable_value_provider", func(t *testing.T) {
		r := wallet.NewRegistry()
		tags := map[string]string{"account": wallettest.SamplePublicKey}
		r.Install(wallet.NamespacePrimary, wallettest.Tagged{Tags: tags})
		c, err := wallet.Resolve(r)
		require.NoError(t, err)

		var key string
		require.NotPanics(t, func() { key, err = c.GetPublicKey(ctx) })
		require.NoError(t, err)
		assert.Equal(t, wallettest.SamplePublicKey, key)

		r.Install(wallet.NamespacePrimary, wallettest.Tagged{Tags: tags})
		require.NotPanics(t, func() { _, err = c.GetPublicKey(ctx) })
		assert.True(t, errors.Is(err, wallet.ErrProviderGone))
	})
}
