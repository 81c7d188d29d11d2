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

// Package wallet detects injected wallet providers and exposes them as
// validated capability handles.
//
// Providers are looked up through a Locator under one of two namespaces: the
// primary wallet surface and a legacy surface. The lookup is the only place
// where ambient providers are read; every other component works with the
// Capability returned by Resolve or by the Probe.
package wallet

import (
	"context"

	"github.com/pkg/errors"
)

// Namespaces under which a wallet provider can be installed, in the order of
// preference.
const (
	NamespacePrimary = "freighter"
	NamespaceLegacy  = "stellar.freighter"
)

// Names of the operations a complete wallet provider supports.
const (
	OpIsConnected  = "isConnected"
	OpConnect      = "connect"
	OpGetPublicKey = "getPublicKey"
)

// Error type is used to define error constants for this package.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

// Definition of error constants for this package.
const (
	ErrProviderUnavailable Error = "wallet provider unavailable"
	ErrUserRejected        Error = "request rejected by user"
	ErrProviderGone        Error = "wallet provider was removed"
	ErrOperationMissing    Error = "operation not supported by wallet provider"
)

type (
	// ConnectivityChecker reports if the wallet has already authorized the node.
	ConnectivityChecker interface {
		IsConnected(ctx context.Context) (bool, error)
	}

	// Authorizer requests the user to authorize the node. Providers return an
	// error wrapping ErrUserRejected when the user declines.
	Authorizer interface {
		Connect(ctx context.Context) error
	}

	// IdentityProvider returns the public key of the active account.
	IdentityProvider interface {
		GetPublicKey(ctx context.Context) (string, error)
	}

	// Provider is a wallet provider supporting all operations.
	Provider interface {
		ConnectivityChecker
		Authorizer
		IdentityProvider
	}
)

// Capability is a handle to a wallet provider found under a namespace. The
// supported operations are determined once, when the handle is created.
//
// Each call first checks that the installation the handle was created from
// is still current, as the provider can be removed or replaced at any time.
type Capability struct {
	locator    Locator
	namespace  string
	generation uint64

	checker    ConnectivityChecker
	authorizer Authorizer
	identity   IdentityProvider
}

func newCapability(l Locator, namespace string, provider interface{}, generation uint64) *Capability {
	c := &Capability{
		locator:    l,
		namespace:  namespace,
		generation: generation,
	}
	c.checker, _ = provider.(ConnectivityChecker)
	c.authorizer, _ = provider.(Authorizer)
	c.identity, _ = provider.(IdentityProvider)
	return c
}

// Resolve returns a handle to the provider installed under the primary
// namespace or, if there is none, under the legacy namespace.
func Resolve(l Locator) (*Capability, error) {
	for _, ns := range []string{NamespacePrimary, NamespaceLegacy} {
		if provider, generation, ok := l.Lookup(ns); ok && provider != nil {
			return newCapability(l, ns, provider, generation), nil
		}
	}
	return nil, errors.WithStack(ErrProviderUnavailable)
}

// Namespace returns the namespace the provider was found under.
func (c *Capability) Namespace() string { return c.namespace }

// Missing returns the name of the first operation the provider does not
// support, or an empty string if it supports all of them.
func (c *Capability) Missing() string {
	switch {
	case c.checker == nil:
		return OpIsConnected
	case c.authorizer == nil:
		return OpConnect
	case c.identity == nil:
		return OpGetPublicKey
	}
	return ""
}

// IsConnected calls the connectivity check of the provider.
func (c *Capability) IsConnected(ctx context.Context) (bool, error) {
	if err := c.revalidate(OpIsConnected, c.checker != nil); err != nil {
		return false, err
	}
	connected, err := c.checker.IsConnected(ctx)
	return connected, errors.Wrap(err, OpIsConnected)
}

// Connect requests authorization from the user through the provider.
func (c *Capability) Connect(ctx context.Context) error {
	if err := c.revalidate(OpConnect, c.authorizer != nil); err != nil {
		return err
	}
	return errors.Wrap(c.authorizer.Connect(ctx), OpConnect)
}

// GetPublicKey fetches the public key of the active account.
func (c *Capability) GetPublicKey(ctx context.Context) (string, error) {
	if err := c.revalidate(OpGetPublicKey, c.identity != nil); err != nil {
		return "", err
	}
	key, err := c.identity.GetPublicKey(ctx)
	return key, errors.Wrap(err, OpGetPublicKey)
}

func (c *Capability) revalidate(op string, supported bool) error {
	if !supported {
		return errors.Wrap(ErrOperationMissing, op)
	}
	_, generation, ok := c.locator.Lookup(c.namespace)
	if !ok || generation != c.generation {
		return errors.Wrapf(ErrProviderGone, "calling %s on %s", op, c.namespace)
	}
	return nil
}
