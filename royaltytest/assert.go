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

package royaltytest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalty-labs/royalty-node"
)

// AssertAPIError tests if the passed error contains expected category, code
// and phrases in the message.
func AssertAPIError(t *testing.T, e royalty.APIError, categ royalty.ErrorCategory, code royalty.ErrorCode,
	msgs ...string) {
	t.Helper()

	require.Error(t, e)
	assert.Equal(t, categ, e.Category())
	assert.Equal(t, code, e.Code())
	for _, msg := range msgs {
		assert.Contains(t, e.Message(), msg)
	}
}

// AssertErrInfoUnsupportedProvider tests if additional info field is of
// correct type and has expected values.
func AssertErrInfoUnsupportedProvider(t *testing.T, info interface{}, namespace, operation string) {
	t.Helper()

	addInfo, ok := info.(royalty.ErrInfoUnsupportedProvider)
	require.True(t, ok)
	assert.Equal(t, namespace, addInfo.Namespace)
	assert.Equal(t, operation, addInfo.Operation)
}

// AssertErrInfoNotConnected tests if additional info field is of
// correct type and has expected values.
func AssertErrInfoNotConnected(t *testing.T, info interface{}, operation string) {
	t.Helper()

	addInfo, ok := info.(royalty.ErrInfoNotConnected)
	require.True(t, ok)
	assert.Equal(t, operation, addInfo.Operation)
}

// AssertErrInfoInvalidArgument tests if additional info field is of
// correct type and has expected values.
func AssertErrInfoInvalidArgument(t *testing.T, info interface{}, name royalty.ArgumentName, value string) {
	t.Helper()

	addInfo, ok := info.(royalty.ErrInfoInvalidArgument)
	require.True(t, ok)
	assert.Equal(t, string(name), addInfo.Name)
	assert.Equal(t, value, addInfo.Value)
	t.Log("requirement:", addInfo.Requirement)
}

// AssertErrInfoResourceNotFound tests if additional info field is of
// correct type and has expected values.
func AssertErrInfoResourceNotFound(t *testing.T, info interface{}, resourceType royalty.ResourceType, id string) {
	t.Helper()

	addInfo, ok := info.(royalty.ErrInfoResourceNotFound)
	require.True(t, ok)
	assert.Equal(t, string(resourceType), addInfo.Type)
	assert.Equal(t, id, addInfo.ID)
}

// AssertErrInfoRemoteCallFailed tests if additional info field is of
// correct type and has expected values.
func AssertErrInfoRemoteCallFailed(t *testing.T, info interface{}, operation, ledgerURL string) {
	t.Helper()

	addInfo, ok := info.(royalty.ErrInfoRemoteCallFailed)
	require.True(t, ok)
	assert.Equal(t, operation, addInfo.Operation)
	assert.Equal(t, ledgerURL, addInfo.LedgerURL)
}

// AssertErrInfoAccountNotFound tests if additional info field is of
// correct type and has expected values.
func AssertErrInfoAccountNotFound(t *testing.T, info interface{}, address string) {
	t.Helper()

	addInfo, ok := info.(royalty.ErrInfoAccountNotFound)
	require.True(t, ok)
	assert.Equal(t, address, addInfo.Address)
}
