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

package wallet

import (
	"context"
	"time"

	"github.com/royalty-labs/royalty-node/log"
)

// Default parameters for wallet detection.
const (
	DefaultProbeAttempts = 10
	DefaultProbeInterval = time.Second
)

type (
	// Attempt is one step of a detection run. The last attempt of a run has
	// Final set. Capability is set only when Found.
	Attempt struct {
		Number     int
		Found      bool
		Final      bool
		Capability *Capability
	}

	// Detection is the outcome of a detection run. NotFound (Found == false)
	// is not an error; the node keeps serving offline data.
	Detection struct {
		Found      bool
		Capability *Capability
		Attempts   int
	}
)

// Probe detects a wallet provider exposing at least the connectivity check,
// retrying on a fixed interval up to a maximum number of attempts.
type Probe struct {
	log.Logger

	locator     Locator
	maxAttempts int
	interval    time.Duration
}

// NewProbe returns a probe looking up providers through l. Non positive
// values for maxAttempts or interval are replaced by the defaults.
func NewProbe(l Locator, maxAttempts int, interval time.Duration) *Probe {
	if maxAttempts <= 0 {
		maxAttempts = DefaultProbeAttempts
	}
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Probe{
		Logger:      log.NewLoggerWithField("component", "wallet-probe"),
		locator:     l,
		maxAttempts: maxAttempts,
		interval:    interval,
	}
}

// Detect starts a detection run and returns the sequence of attempts. The
// next attempt is made only after the previous one has been received. The
// channel is closed after the final attempt or when ctx is done, whichever
// happens first.
//
// Every call starts a fresh run, so a wallet installed after an earlier run
// ended with NotFound is found by the next run.
func (p *Probe) Detect(ctx context.Context) <-chan Attempt {
	attempts := make(chan Attempt)
	go func() {
		defer close(attempts)
		for n := 1; n <= p.maxAttempts; n++ {
			a := p.attempt(n)
			select {
			case attempts <- a:
			case <-ctx.Done():
				return
			}
			if a.Final {
				return
			}
			if !p.wait(ctx) {
				return
			}
		}
	}()
	return attempts
}

// Await runs a detection and returns its outcome. If ctx is done before the
// run ends, the outcome is NotFound.
func (p *Probe) Await(ctx context.Context) Detection {
	var d Detection
	for a := range p.Detect(ctx) {
		d.Attempts = a.Number
		if a.Found {
			d.Found = true
			d.Capability = a.Capability
		}
	}
	if d.Found {
		p.WithField("namespace", d.Capability.Namespace()).Infof("Wallet found after %d attempt(s)", d.Attempts)
	} else {
		p.Infof("No wallet found after %d attempt(s), continuing without wallet", d.Attempts)
	}
	return d
}

func (p *Probe) attempt(n int) Attempt {
	for _, ns := range []string{NamespacePrimary, NamespaceLegacy} {
		provider, generation, ok := p.locator.Lookup(ns)
		if !ok {
			continue
		}
		if _, ok := provider.(ConnectivityChecker); ok {
			c := newCapability(p.locator, ns, provider, generation)
			return Attempt{Number: n, Found: true, Final: true, Capability: c}
		}
	}
	p.WithField("attempt", n).Debug("Wallet not found")
	return Attempt{Number: n, Final: n == p.maxAttempts}
}

func (p *Probe) wait(ctx context.Context) bool {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
