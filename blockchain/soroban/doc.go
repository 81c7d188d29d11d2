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

// Package soroban provides the ledger backend that talks to a ledger gateway
// over JSON-RPC 2.0. The gateway exposes three methods in the "royalty"
// namespace: getHealth, getAccount and invoke. Contract invocations are
// passed through opaquely; decoding their results is left to the caller.
//
// The transport is the JSON-RPC client of go-ethereum, which supports http,
// ws and ipc endpoints. All calls go through a token bucket limiter so that a
// burst of UI activity cannot flood the gateway.
package soroban
