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

// Package mocks holds testify mocks of the interfaces in the root package,
// in the layout produced by mockery.
package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	royalty "github.com/royalty-labs/royalty-node"
)

// LedgerBackend is a mock type for the LedgerBackend type.
type LedgerBackend struct {
	mock.Mock
}

// Close provides a mock function with given fields:
func (_m *LedgerBackend) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetAccount provides a mock function with given fields: ctx, address
func (_m *LedgerBackend) GetAccount(ctx context.Context, address string) (royalty.AccountInfo, error) {
	ret := _m.Called(ctx, address)

	var r0 royalty.AccountInfo
	if rf, ok := ret.Get(0).(func(context.Context, string) royalty.AccountInfo); ok {
		r0 = rf(ctx, address)
	} else {
		r0 = ret.Get(0).(royalty.AccountInfo)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, address)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Health provides a mock function with given fields: ctx
func (_m *LedgerBackend) Health(ctx context.Context) error {
	ret := _m.Called(ctx)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Invoke provides a mock function with given fields: ctx, inv, result
func (_m *LedgerBackend) Invoke(ctx context.Context, inv royalty.Invocation, result interface{}) error {
	ret := _m.Called(ctx, inv, result)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, royalty.Invocation, interface{}) error); ok {
		r0 = rf(ctx, inv, result)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
