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

// Package wallettest provides wallet providers with configurable behavior
// for use in tests.
package wallettest

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/royalty-labs/royalty-node/wallet"
)

// SamplePublicKey is a well formed account address used in tests.
const SamplePublicKey = "GBZXN7PIRZGNMHGA7MUUUF4GWPY5AYPV6LY4UV2GL6VJGIQRXFDNMADI"

// Provider is a wallet provider supporting all operations.
type Provider struct {
	mutex sync.Mutex

	connected bool
	reject    bool
	publicKey string
	err       error
	connErr   error

	connectCalls int
}

// Option configures a Provider.
type Option func(*Provider)

// WithConnected sets the initial authorization state.
func WithConnected(connected bool) Option {
	return func(p *Provider) { p.connected = connected }
}

// WithRejection makes Connect fail as if the user declined.
func WithRejection() Option {
	return func(p *Provider) { p.reject = true }
}

// WithPublicKey sets the key returned by GetPublicKey. Defaults to SamplePublicKey.
func WithPublicKey(key string) Option {
	return func(p *Provider) { p.publicKey = key }
}

// WithError makes every operation fail with err.
func WithError(err error) Option {
	return func(p *Provider) { p.err = err }
}

// WithConnectError makes only Connect fail with err.
func WithConnectError(err error) Option {
	return func(p *Provider) { p.connErr = err }
}

// NewProvider returns a provider that is not connected and approves
// authorization requests, unless configured otherwise.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{publicKey: SamplePublicKey}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsConnected implements wallet.ConnectivityChecker.
func (p *Provider) IsConnected(context.Context) (bool, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.connected, p.err
}

// Connect implements wallet.Authorizer.
func (p *Provider) Connect(context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.connectCalls++
	if p.err != nil {
		return p.err
	}
	if p.connErr != nil {
		return p.connErr
	}
	if p.reject {
		return errors.Wrap(wallet.ErrUserRejected, "authorization prompt declined")
	}
	p.connected = true
	return nil
}

// GetPublicKey implements wallet.IdentityProvider.
func (p *Provider) GetPublicKey(context.Context) (string, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.err != nil {
		return "", p.err
	}
	return p.publicKey, nil
}

// ConnectCalls returns the number of times Connect was called.
func (p *Provider) ConnectCalls() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.connectCalls
}

// CheckerOnly is a provider supporting only the connectivity check.
type CheckerOnly struct{}

// IsConnected implements wallet.ConnectivityChecker.
func (*CheckerOnly) IsConnected(context.Context) (bool, error) { return false, nil }

// WithoutIdentity is a provider that cannot return a public key.
type WithoutIdentity struct{}

// IsConnected implements wallet.ConnectivityChecker.
func (*WithoutIdentity) IsConnected(context.Context) (bool, error) { return true, nil }

// Connect implements wallet.Authorizer.
func (*WithoutIdentity) Connect(context.Context) error { return nil }

// Tagged is a provider implemented on a value type that cannot be compared
// with ==. It is always connected.
type Tagged struct {
	Tags map[string]string
}

// IsConnected implements wallet.ConnectivityChecker.
func (Tagged) IsConnected(context.Context) (bool, error) { return true, nil }

// Connect implements wallet.Authorizer.
func (Tagged) Connect(context.Context) error { return nil }

// GetPublicKey implements wallet.IdentityProvider.
func (t Tagged) GetPublicKey(context.Context) (string, error) { return t.Tags["account"], nil }
