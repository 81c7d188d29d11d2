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

// Package session establishes the identity of the user from a connected
// wallet.
//
// Connect walks through the steps of a wallet handshake: resolving the
// provider, checking its capabilities, requesting authorization and fetching
// the public key. Each failure is reported as an APIError naming the step
// that failed.
//
// A node holds at most one session at a time in a Holder. The session is
// replaced when the wallet reports a different active account and cleared
// when it reports none.
package session
