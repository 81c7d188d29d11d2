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

// Package node wires the wallet probe, the connection manager and the ledger
// client into a running royalty node.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/blockchain"
	"github.com/royalty-labs/royalty-node/blockchain/soroban"
	"github.com/royalty-labs/royalty-node/client"
	"github.com/royalty-labs/royalty-node/log"
	"github.com/royalty-labs/royalty-node/wallet"
	"github.com/royalty-labs/royalty-node/wallet/keyfile"
)

// Error type is used to define error constants for this package.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

// Definition of error constants for this package.
const (
	ErrAlreadyStarted Error = "node already started"
	ErrClosed         Error = "node closed"
)

// ConfigDefault holds the values used for the zero fields of the node
// configuration.
var ConfigDefault = royalty.Config{
	LogLevel:            "info",
	LedgerConnTimeout:   10 * time.Second,
	LedgerCallTimeout:   blockchain.ConfigDefault.CallTimeout,
	InitRetryInterval:   blockchain.ConfigDefault.RetryInterval,
	InitTimeout:         blockchain.ConfigDefault.InitTimeout,
	RecheckInterval:     blockchain.ConfigDefault.RecheckInterval,
	WalletProbeAttempts: wallet.DefaultProbeAttempts,
	WalletProbeInterval: wallet.DefaultProbeInterval,
	SimulatedLatency:    client.ConfigDefault.SimulatedLatency,
	WorkCacheSize:       client.ConfigDefault.WorkCacheSize,
	ListenAddr:          ":8080",
}

// Node is a running royalty node. It owns the background loops for wallet
// detection and ledger initialization and exposes the ledger client.
type Node struct {
	log.Logger

	cfg      royalty.Config
	registry *wallet.Registry
	manager  *blockchain.Manager
	client   *client.Client
	probe    *wallet.Probe
	keyfile  *keyfile.Wallet

	mutex     sync.Mutex
	started   bool
	closed    bool
	cancel    context.CancelFunc
	detection wallet.Detection
	detected  chan struct{}
	wg        sync.WaitGroup
}

// New returns a node for the given configuration. Wallet providers are looked
// up in registry; if cfg.KeyfilePath is set, the keyfile wallet is installed
// in it under the primary namespace. Metrics are registered with reg, unless
// it is nil.
//
// Nothing is dialed until Start is called.
func New(cfg royalty.Config, registry *wallet.Registry, reg prometheus.Registerer) (*Node, error) {
	cfg = withDefaults(cfg)
	if cfg.LedgerURL == "" {
		return nil, errors.New("ledger URL is required")
	}
	if cfg.ContractID == "" {
		return nil, errors.New("contract ID is required")
	}

	n := &Node{
		Logger:   log.NewLoggerWithField("component", "node"),
		cfg:      cfg,
		registry: registry,
		detected: make(chan struct{}),
		cancel:   func() {},
	}
	if cfg.KeyfilePath != "" {
		w, err := keyfile.Load(cfg.KeyfilePath)
		if err != nil {
			return nil, errors.WithMessage(err, "loading keyfile")
		}
		registry.Install(wallet.NamespacePrimary, w)
		n.keyfile = w
		n.WithField("address", w.Address()).Info("Keyfile wallet installed")
	}

	limiter := soroban.NewLimiter(cfg.RPCRateLimit, cfg.RPCBurst)
	dial := func(ctx context.Context) (royalty.LedgerBackend, error) {
		b, err := soroban.Dial(ctx, cfg.LedgerURL, cfg.LedgerConnTimeout, cfg.LedgerCallTimeout, limiter)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	n.manager = blockchain.NewManager(dial, blockchain.Config{
		LedgerURL:       cfg.LedgerURL,
		ContractID:      cfg.ContractID,
		RetryInterval:   cfg.InitRetryInterval,
		InitTimeout:     cfg.InitTimeout,
		CallTimeout:     cfg.LedgerCallTimeout,
		RecheckInterval: cfg.RecheckInterval,
	})

	var err error
	n.client, err = client.New(client.Config{
		ContractID:       cfg.ContractID,
		SimulatedLatency: cfg.SimulatedLatency,
		WorkCacheSize:    cfg.WorkCacheSize,
	}, n.manager, registry, reg)
	if err != nil {
		return nil, errors.WithMessage(err, "initializing ledger client")
	}
	n.probe = wallet.NewProbe(registry, cfg.WalletProbeAttempts, cfg.WalletProbeInterval)
	return n, nil
}

func withDefaults(cfg royalty.Config) royalty.Config {
	if cfg.LedgerConnTimeout <= 0 {
		cfg.LedgerConnTimeout = ConfigDefault.LedgerConnTimeout
	}
	if cfg.LedgerCallTimeout <= 0 {
		cfg.LedgerCallTimeout = ConfigDefault.LedgerCallTimeout
	}
	if cfg.InitRetryInterval <= 0 {
		cfg.InitRetryInterval = ConfigDefault.InitRetryInterval
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = ConfigDefault.InitTimeout
	}
	if cfg.RecheckInterval == 0 {
		cfg.RecheckInterval = ConfigDefault.RecheckInterval
	}
	if cfg.WalletProbeAttempts <= 0 {
		cfg.WalletProbeAttempts = ConfigDefault.WalletProbeAttempts
	}
	if cfg.WalletProbeInterval <= 0 {
		cfg.WalletProbeInterval = ConfigDefault.WalletProbeInterval
	}
	if cfg.WorkCacheSize <= 0 {
		cfg.WorkCacheSize = ConfigDefault.WorkCacheSize
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ConfigDefault.ListenAddr
	}
	return cfg
}

// Start begins ledger initialization and wallet detection in the background
// and returns the connection state at the time of the call, which is
// Connecting on the first call. Both loops stop when ctx is done or the node
// is closed.
func (n *Node) Start(ctx context.Context) (royalty.ConnectionState, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.closed {
		return n.manager.State(), ErrClosed
	}
	if n.started {
		return n.manager.State(), ErrAlreadyStarted
	}
	n.started = true

	ctx, n.cancel = context.WithCancel(ctx)
	state := n.manager.Initialize(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		d := n.probe.Await(ctx)
		if d.Found {
			n.client.UseCapability(d.Capability)
		}
		n.mutex.Lock()
		n.detection = d
		n.mutex.Unlock()
		close(n.detected)
	}()

	n.WithFields(log.Fields{"ledgerURL": n.cfg.LedgerURL, "contractID": n.cfg.ContractID}).
		Info("Node started")
	return state, nil
}

// API returns the ledger client served by the node.
func (n *Node) API() royalty.LedgerAPI {
	return n.client
}

// Client returns the concrete ledger client, for callers that need more than
// royalty.LedgerAPI.
func (n *Node) Client() *client.Client {
	return n.client
}

// Config returns the effective configuration of the node.
func (n *Node) Config() royalty.Config {
	return n.cfg
}

// Keyfile returns the keyfile wallet installed by the node, or nil.
func (n *Node) Keyfile() *keyfile.Wallet {
	return n.keyfile
}

// Detected returns a channel closed when the wallet detection started by
// Start has ended.
func (n *Node) Detected() <-chan struct{} {
	return n.detected
}

// WalletDetection returns the outcome of the wallet detection. ok is false
// while the detection is still running.
func (n *Node) WalletDetection() (d wallet.Detection, ok bool) {
	select {
	case <-n.detected:
	default:
		return wallet.Detection{}, false
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.detection, true
}

// Close stops the background loops, ends the session and closes the ledger
// connection. It is safe to call Close more than once.
func (n *Node) Close() error {
	n.mutex.Lock()
	if n.closed {
		n.mutex.Unlock()
		return nil
	}
	n.closed = true
	cancel := n.cancel
	n.mutex.Unlock()

	cancel()
	n.wg.Wait()
	n.client.Disconnect()
	if n.keyfile != nil {
		n.keyfile.Disconnect()
	}
	err := n.manager.Close()
	n.Info("Node closed")
	return err
}
