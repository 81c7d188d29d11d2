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

package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/session"
)

func Test_Holder(t *testing.T) {
	t.Run("happy_set_get_clear", func(t *testing.T) {
		h := session.NewHolder()
		_, ok := h.Get()
		assert.False(t, ok)

		want := royalty.Session{PublicKey: "GABC", ConnectedAt: fixedTime}
		h.Set(want)
		got, ok := h.Get()
		require.True(t, ok)
		assert.Equal(t, want, got)

		h.Clear()
		_, ok = h.Get()
		assert.False(t, ok)
	})

	t.Run("happy_get_returns_copy", func(t *testing.T) {
		h := session.NewHolder()
		h.Set(royalty.Session{PublicKey: "GABC"})
		got, _ := h.Get()
		got.PublicKey = "GXYZ"

		again, _ := h.Get()
		assert.Equal(t, "GABC", again.PublicKey)
	})
}

func Test_Holder_AccountsChanged(t *testing.T) {
	later := fixedTime.Add(time.Hour)
	defer session.SetTimeNow(func() time.Time { return later })()

	t.Run("happy_switches_account", func(t *testing.T) {
		h := session.NewHolder()
		h.Set(royalty.Session{PublicKey: "GOLD", ConnectedAt: fixedTime})

		h.AccountsChanged([]string{"GNEW", "GOTHER"})
		got, ok := h.Get()
		require.True(t, ok)
		assert.Equal(t, royalty.Session{PublicKey: "GNEW", ConnectedAt: later}, got)
	})

	t.Run("happy_no_accounts_clears", func(t *testing.T) {
		h := session.NewHolder()
		h.Set(royalty.Session{PublicKey: "GOLD", ConnectedAt: fixedTime})

		h.AccountsChanged(nil)
		_, ok := h.Get()
		assert.False(t, ok)
	})

	t.Run("happy_ignored_without_session", func(t *testing.T) {
		h := session.NewHolder()

		h.AccountsChanged([]string{"GNEW"})
		_, ok := h.Get()
		assert.False(t, ok)
	})
}
