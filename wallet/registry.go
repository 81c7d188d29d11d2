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

import "sync"

// Locator looks up a wallet provider installed under a namespace.
//
// The generation identifies one installation: it changes whenever a provider
// is installed under the namespace, even when the same value is installed
// again.
type Locator interface {
	Lookup(namespace string) (provider interface{}, generation uint64, found bool)
}

type installation struct {
	provider   interface{}
	generation uint64
}

// Registry is a Locator where providers can be installed and removed at any
// time. Providers can be of any type. It is safe for concurrent use.
type Registry struct {
	mutex      sync.RWMutex
	providers  map[string]installation
	generation uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]installation)}
}

// Install installs the provider under the namespace, replacing any
// previously installed provider.
func (r *Registry) Install(namespace string, provider interface{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.generation++
	r.providers[namespace] = installation{provider: provider, generation: r.generation}
}

// Remove removes the provider installed under the namespace, if any.
func (r *Registry) Remove(namespace string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.providers, namespace)
}

// Lookup implements Locator.
func (r *Registry) Lookup(namespace string) (interface{}, uint64, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	inst, ok := r.providers[namespace]
	return inst.provider, inst.generation, ok
}
