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

package session

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/wallet"
)

var timeNow = time.Now

// Connect resolves the wallet provider through the locator and opens a
// session for its active account.
func Connect(ctx context.Context, l wallet.Locator) (royalty.Session, royalty.APIError) {
	c, err := wallet.Resolve(l)
	if err != nil {
		return royalty.Session{}, royalty.NewAPIErrNoProvider(err)
	}
	return Open(ctx, c)
}

// Open opens a session using an already resolved wallet capability. If the
// wallet has not authorized the node yet, the user is asked to.
func Open(ctx context.Context, c *wallet.Capability) (royalty.Session, royalty.APIError) {
	if op := c.Missing(); op != "" {
		return royalty.Session{}, royalty.NewAPIErrUnsupportedProvider(
			errors.Wrap(wallet.ErrOperationMissing, op), c.Namespace(), op)
	}

	connected, err := c.IsConnected(ctx)
	if err != nil {
		return royalty.Session{}, callError(err, stepCheckConnection)
	}
	if !connected {
		if err = c.Connect(ctx); err != nil {
			return royalty.Session{}, callError(err, stepAuthorize)
		}
	}

	key, err := c.GetPublicKey(ctx)
	if errors.Is(err, wallet.ErrProviderGone) {
		return royalty.Session{}, royalty.NewAPIErrNoProvider(err)
	}
	if err != nil {
		return royalty.Session{}, royalty.NewAPIErrNoIdentity(err)
	}
	if key == "" {
		return royalty.Session{}, royalty.NewAPIErrNoIdentity(errors.New("empty public key"))
	}
	return royalty.Session{PublicKey: key, ConnectedAt: timeNow()}, nil
}

// Handshake steps named in errors of failed wallet calls.
const (
	stepCheckConnection = "checking wallet connection"
	stepAuthorize       = "requesting wallet authorization"
)

// callError maps the failure of a wallet call made during the given step.
// Only errors wrapping wallet.ErrUserRejected are reported as rejections.
func callError(err error, step string) royalty.APIError {
	switch {
	case errors.Is(err, wallet.ErrProviderGone):
		return royalty.NewAPIErrNoProvider(err)
	case errors.Is(err, wallet.ErrUserRejected):
		return royalty.NewAPIErrUserRejected(err)
	default:
		return royalty.NewAPIErrWalletCallFailed(err, step)
	}
}
