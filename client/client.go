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

// Package client implements the ledger client used by the view layer.
//
// Every operation is routed either to the remote ledger, when the connection
// is live, or to a deterministic offline data set. Callers cannot tell which
// path served a request, except through the connection status. A failing
// live call moves the connection offline and the request is answered from
// the offline data set instead.
package client

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/currency"
	"github.com/royalty-labs/royalty-node/log"
	"github.com/royalty-labs/royalty-node/session"
	"github.com/royalty-labs/royalty-node/wallet"
)

// Connection is the connection to the ledger as managed by
// blockchain.Manager.
type Connection interface {
	State() royalty.ConnectionState
	Backend() royalty.LedgerBackend
	HealthCheck(ctx context.Context) royalty.ConnectionState
	RecheckDue() bool
	ReportFailure(err error)
	ReportSuccess()
	LedgerURL() string
}

// Client implements royalty.LedgerAPI. It is safe for concurrent use.
type Client struct {
	log.Logger

	cfg      Config
	conn     Connection
	locator  wallet.Locator
	sessions *session.Holder

	capMutex   sync.Mutex
	capability *wallet.Capability

	mock     *mockLedger
	works    *lru.Cache[uint64, royalty.Work]
	parser   currency.Parser
	metrics  *metrics
}

// New returns a client that serves requests over conn and opens sessions
// with the wallet found through locator. Metrics are registered with reg,
// unless it is nil.
func New(cfg Config, conn Connection, locator wallet.Locator, reg prometheus.Registerer) (*Client, error) {
	if cfg.WorkCacheSize <= 0 {
		cfg.WorkCacheSize = ConfigDefault.WorkCacheSize
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = ConfigDefault.FetchConcurrency
	}
	works, err := lru.New[uint64, royalty.Work](cfg.WorkCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating work cache")
	}
	m, err := newMetrics(reg, conn.State)
	if err != nil {
		return nil, err
	}
	return &Client{
		Logger:   log.NewLoggerWithField("component", "client"),
		cfg:      cfg,
		conn:     conn,
		locator:  locator,
		sessions: session.NewHolder(),
		mock:     newMockLedger(cfg.SimulatedLatency),
		works:    works,
		parser:   currency.NewParser(),
		metrics:  m,
	}, nil
}

// Connect opens a session with the wallet, replacing any existing session.
//
// If there is an error, it will be one of the following codes:
// - ErrNoProvider when no wallet is installed.
// - ErrUnsupportedProvider when the wallet lacks an operation.
// - ErrUserRejected when the user declines the authorization.
// - ErrWalletCallFailed when a wallet call fails otherwise.
// - ErrNoIdentity when the wallet returns no public key.
func (c *Client) Connect(ctx context.Context) (royalty.Session, royalty.APIError) {
	c.WithField("method", "Connect").Info("Received request")
	s, apiErr := c.openSession(ctx)
	if apiErr != nil {
		c.metrics.recordError("Connect", apiErr)
		c.WithFields(royalty.APIErrAsMap("Connect", apiErr)).Error(apiErr.Message())
		return royalty.Session{}, apiErr
	}
	c.sessions.Set(s)
	return s, nil
}

// UseCapability sets the wallet capability used by Connect, typically the one
// found by wallet detection. A nil capability drops the cached one.
func (c *Client) UseCapability(capability *wallet.Capability) {
	c.capMutex.Lock()
	defer c.capMutex.Unlock()
	c.capability = capability
	if capability != nil {
		c.WithField("namespace", capability.Namespace()).Debug("Using wallet capability")
	}
}

func (c *Client) cachedCapability() *wallet.Capability {
	c.capMutex.Lock()
	defer c.capMutex.Unlock()
	return c.capability
}

// openSession opens a session on the cached capability. The locator is only
// consulted when there is none or when its provider was removed or replaced.
func (c *Client) openSession(ctx context.Context) (royalty.Session, royalty.APIError) {
	if cached := c.cachedCapability(); cached != nil {
		s, apiErr := session.Open(ctx, cached)
		if apiErr == nil || !errors.Is(apiErr, wallet.ErrProviderGone) {
			return s, apiErr
		}
		c.WithField("namespace", cached.Namespace()).Info("Wallet provider changed, resolving again")
	}

	capability, err := wallet.Resolve(c.locator)
	if err != nil {
		c.UseCapability(nil)
		return royalty.Session{}, royalty.NewAPIErrNoProvider(err)
	}
	c.UseCapability(capability)
	return session.Open(ctx, capability)
}

// Disconnect ends the current session.
func (c *Client) Disconnect() {
	c.WithField("method", "Disconnect").Info("Received request")
	c.sessions.Clear()
}

// AccountsChanged updates the session to the accounts reported by the
// wallet.
func (c *Client) AccountsChanged(accounts []string) {
	c.WithField("method", "AccountsChanged").Infof("Received request with params %+v", accounts)
	c.sessions.AccountsChanged(accounts)
}

// Session returns the current session, if there is one.
func (c *Client) Session() (royalty.Session, bool) {
	return c.sessions.Get()
}

// CheckBackend checks the ledger and returns the resulting state.
func (c *Client) CheckBackend(ctx context.Context) royalty.ConnectionState {
	c.WithField("method", "CheckBackend").Info("Received request")
	return c.conn.HealthCheck(ctx)
}

// GetConnectionStatus returns the current connection state.
func (c *Client) GetConnectionStatus() royalty.ConnectionState {
	return c.conn.State()
}

var _ royalty.LedgerAPI = (*Client)(nil)
