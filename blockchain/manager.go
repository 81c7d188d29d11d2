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

package blockchain

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/log"
)

// Dialer constructs a connection to the ledger.
type Dialer func(ctx context.Context) (royalty.LedgerBackend, error)

// Manager owns the connection to the ledger and its ConnectionState.
//
// The state starts as Connecting. Initialize dials in the background and
// moves to Live or Offline. Once Offline, only a successful HealthCheck
// moves the state back to Live.
type Manager struct {
	log.Logger

	cfg  Config
	dial Dialer

	mutex     sync.RWMutex
	state     royalty.ConnectionState
	backend   royalty.LedgerBackend
	lastCheck time.Time
	lastErr   error

	initOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewManager returns a manager in the Connecting state. Zero values in cfg
// for RetryInterval, CallTimeout and RecheckInterval are replaced by the
// defaults.
func NewManager(dial Dialer, cfg Config) *Manager {
	if cfg.RecheckInterval == 0 {
		cfg.RecheckInterval = ConfigDefault.RecheckInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = ConfigDefault.RetryInterval
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = ConfigDefault.CallTimeout
	}
	return &Manager{
		Logger: log.NewLoggerWithField("component", "connection-manager"),
		cfg:    cfg,
		dial:   dial,
		state:  royalty.Connecting,
		cancel: func() {},
		done:   make(chan struct{}),
	}
}

// Initialize starts connecting to the ledger and returns without waiting for
// the outcome. Dial attempts are repeated every RetryInterval until one
// succeeds, ctx is done or InitTimeout elapses. A successful dial is followed
// by a health check that decides between Live and Offline. When InitTimeout
// elapses first, the state becomes Offline.
//
// Only the first call starts the loop; later calls return the current state.
func (m *Manager) Initialize(ctx context.Context) royalty.ConnectionState {
	m.initOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		m.mutex.Lock()
		m.cancel = cancel
		m.mutex.Unlock()
		go m.initLoop(loopCtx)
	})
	return m.State()
}

func (m *Manager) initLoop(ctx context.Context) {
	defer close(m.done)

	var deadline <-chan time.Time
	if m.cfg.InitTimeout > 0 {
		timer := time.NewTimer(m.cfg.InitTimeout)
		defer timer.Stop()
		deadline = timer.C
	}
	ticker := time.NewTicker(m.cfg.RetryInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		if m.Backend() != nil {
			return
		}
		backend, err := m.dialOnce(ctx)
		m.markChecked()
		if err == nil {
			m.setBackend(backend)
			m.HealthCheck(ctx)
			return
		}
		m.WithField("attempt", attempt).Warnf("Connecting to ledger at %s: %v", m.cfg.LedgerURL, err)

		select {
		case <-ctx.Done():
			return
		case <-deadline:
			m.transition(royalty.Offline, errors.Wrapf(err, "no connection within %v", m.cfg.InitTimeout))
			return
		case <-ticker.C:
		}
	}
}

// HealthCheck performs one read-only call against the ledger. Success moves
// the state to Live, any failure to Offline. If no connection exists yet, it
// dials once first.
func (m *Manager) HealthCheck(ctx context.Context) royalty.ConnectionState {
	m.Debug("Received request: manager.HealthCheck")
	m.markChecked()

	backend := m.Backend()
	if backend == nil {
		b, err := m.dialOnce(ctx)
		if err != nil {
			return m.transition(royalty.Offline, err)
		}
		backend = m.setBackend(b)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.CallTimeout)
	defer cancel()
	var stats RoyaltyStatsRecord
	inv := royalty.Invocation{ContractID: m.cfg.ContractID, Function: FnGetRoyaltyStats, Args: []interface{}{}}
	if err := backend.Invoke(ctx, inv, &stats); err != nil {
		return m.transition(royalty.Offline, errors.WithMessage(err, "health check"))
	}
	return m.transition(royalty.Live, nil)
}

// ReportFailure records a failed live call. A Live connection becomes
// Offline, other states are unchanged.
func (m *Manager) ReportFailure(err error) {
	if m.State() == royalty.Live {
		m.transition(royalty.Offline, err)
	}
}

// ReportSuccess records a successful live call, which counts as a check.
func (m *Manager) ReportSuccess() {
	m.markChecked()
}

// markChecked records a contact with the ledger. Dial attempts count too.
func (m *Manager) markChecked() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.lastCheck = time.Now()
}

// RecheckDue reports if the connection is Offline and the last check or dial
// attempt is older than RecheckInterval.
func (m *Manager) RecheckDue() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.state == royalty.Offline && m.cfg.RecheckInterval > 0 &&
		time.Since(m.lastCheck) >= m.cfg.RecheckInterval
}

// State returns the current connection state.
func (m *Manager) State() royalty.ConnectionState {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.state
}

// LastError returns the error that caused the last transition to Offline.
func (m *Manager) LastError() error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.lastErr
}

// Backend returns the connection to the ledger, or nil if none was
// established yet.
func (m *Manager) Backend() royalty.LedgerBackend {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.backend
}

// LedgerURL returns the URL of the ledger gateway.
func (m *Manager) LedgerURL() string { return m.cfg.LedgerURL }

// Done returns a channel that is closed when the initialization loop exits.
func (m *Manager) Done() <-chan struct{} { return m.done }

// Close stops the initialization loop and closes the connection.
func (m *Manager) Close() error {
	m.mutex.RLock()
	cancel := m.cancel
	m.mutex.RUnlock()
	cancel()

	// Prevents the loop from starting after close.
	m.initOnce.Do(func() { close(m.done) })
	<-m.done

	m.mutex.Lock()
	backend := m.backend
	m.backend = nil
	m.mutex.Unlock()
	if backend != nil {
		return errors.Wrap(backend.Close(), "closing ledger connection")
	}
	return nil
}

func (m *Manager) dialOnce(ctx context.Context) (royalty.LedgerBackend, error) {
	backend, err := m.dial(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "dialing ledger")
	}
	return backend, nil
}

// setBackend stores b unless a connection was stored concurrently, in which
// case b is closed. It returns the stored connection.
func (m *Manager) setBackend(b royalty.LedgerBackend) royalty.LedgerBackend {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.backend != nil {
		b.Close() // nolint: errcheck, gosec	// duplicate connection, not used.
		return m.backend
	}
	m.backend = b
	return b
}

func (m *Manager) transition(to royalty.ConnectionState, cause error) royalty.ConnectionState {
	m.mutex.Lock()
	from := m.state
	m.state = to
	if cause != nil {
		m.lastErr = cause
	}
	m.mutex.Unlock()

	if from == to {
		return to
	}
	entry := m.WithFields(log.Fields{"from": from.String(), "to": to.String()})
	if cause != nil {
		entry.Warnf("Connection state changed: %v", cause)
	} else {
		entry.Info("Connection state changed")
	}
	return to
}
