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

import "time"

// Config represents the configuration of the connection manager.
type Config struct {
	LedgerURL       string        // URL of the ledger gateway, used only for logging.
	ContractID      string        // ID of the royalty contract queried by health checks.
	RetryInterval   time.Duration // Interval between dial attempts during initialization.
	InitTimeout     time.Duration // Overall time allowed for initialization. Zero means no limit.
	CallTimeout     time.Duration // Timeout for a health check call.
	RecheckInterval time.Duration // Minimum time between re-checks requested by operations. Negative disables.
}

// ConfigDefault represents the default configuration of the connection manager.
var ConfigDefault = Config{
	RetryInterval:   time.Second,
	InitTimeout:     30 * time.Second,
	CallTimeout:     10 * time.Second,
	RecheckInterval: 30 * time.Second,
}
