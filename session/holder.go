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
	"sync"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/log"
)

// Holder holds the session of the node. It is safe for concurrent use.
type Holder struct {
	log.Logger

	mutex   sync.RWMutex
	session *royalty.Session
}

// NewHolder returns a holder without a session.
func NewHolder() *Holder {
	return &Holder{Logger: log.NewLoggerWithField("component", "session")}
}

// Set replaces the current session.
func (h *Holder) Set(s royalty.Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.session = &s
	h.WithField("account", s.PublicKey).Info("Session established")
}

// Get returns a copy of the current session, if there is one.
func (h *Holder) Get() (royalty.Session, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if h.session == nil {
		return royalty.Session{}, false
	}
	return *h.session, true
}

// Clear removes the current session.
func (h *Holder) Clear() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.session != nil {
		h.WithField("account", h.session.PublicKey).Info("Session cleared")
	}
	h.session = nil
}

// AccountsChanged updates the session to the accounts reported by the
// wallet. With no accounts the session is cleared, otherwise an existing
// session is re-derived for the first account. Without a session the event
// is ignored.
func (h *Holder) AccountsChanged(accounts []string) {
	if len(accounts) == 0 {
		h.Clear()
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.session == nil {
		h.WithField("account", accounts[0]).Debug("Ignoring account change without a session")
		return
	}
	h.session = &royalty.Session{PublicKey: accounts[0], ConnectedAt: timeNow()}
	h.WithField("account", accounts[0]).Info("Session re-derived")
}
