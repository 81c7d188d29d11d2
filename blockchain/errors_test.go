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

package blockchain_test

import (
	"errors"
	"testing"

	perrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalty-labs/royalty-node/blockchain"
)

func Test_NewAccountNotFoundError(t *testing.T) {
	address := "some-address"
	err := assert.AnError

	gotErr := blockchain.NewAccountNotFoundError(address, err)
	require.Error(t, gotErr)

	accountNotFoundErr := blockchain.AccountNotFoundError{}
	require.True(t, errors.As(gotErr, &accountNotFoundErr))

	assert.Equal(t, address, accountNotFoundErr.Address)
	assert.True(t, errors.Is(gotErr, err), "should return the underlying error for comparison")
	assert.True(t, blockchain.IsAccountNotFound(perrors.Wrap(gotErr, "fetching account")))
	assert.False(t, blockchain.IsAccountNotFound(err))
}

func Test_NewInvalidAddressError(t *testing.T) {
	address := "some-address"
	err := assert.AnError

	gotErr := blockchain.NewInvalidAddressError(address, err)
	require.Error(t, gotErr)

	invalidAddressErr := blockchain.InvalidAddressError{}
	require.True(t, errors.As(gotErr, &invalidAddressErr))
	assert.Equal(t, address, invalidAddressErr.Address)
	assert.True(t, errors.Is(gotErr, err))
	assert.True(t, blockchain.IsInvalidAddress(perrors.Wrap(gotErr, "fetching account")))
	assert.False(t, blockchain.IsInvalidAddress(err))
}

func Test_NewEntryNotFoundError(t *testing.T) {
	err := assert.AnError

	gotErr := blockchain.NewEntryNotFoundError(blockchain.FnGetWork, err)
	require.Error(t, gotErr)

	entryNotFoundErr := blockchain.EntryNotFoundError{}
	require.True(t, errors.As(gotErr, &entryNotFoundErr))
	assert.Equal(t, blockchain.FnGetWork, entryNotFoundErr.Function)
	assert.True(t, errors.Is(gotErr, err))
	assert.True(t, blockchain.IsEntryNotFound(perrors.WithMessage(gotErr, "reading work")))
	assert.False(t, blockchain.IsAccountNotFound(gotErr))
}
