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

package client

import "time"

// Config represents the configuration parameters of the ledger client.
type Config struct {
	ContractID string // ID of the royalty contract.

	// SimulatedLatency is the delay before a write served without the ledger
	// succeeds.
	SimulatedLatency time.Duration
	// WorkCacheSize is the number of works confirmed by the ledger that are
	// kept in memory.
	WorkCacheSize int
	// FetchConcurrency limits the number of parallel requests when fetching
	// the details of several works.
	FetchConcurrency int
}

// ConfigDefault represents the default configuration of the ledger client.
var ConfigDefault = Config{
	SimulatedLatency: 1500 * time.Millisecond,
	WorkCacheSize:    256,
	FetchConcurrency: 4,
}
