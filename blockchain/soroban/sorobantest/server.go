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

package sorobantest

import (
	"net/http/httptest"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/blockchain/soroban"
)

// Server is a ledger gateway serving a Ledger over HTTP.
type Server struct {
	*Ledger

	rpcServer  *rpc.Server
	httpServer *httptest.Server
}

// NewServer starts a gateway for a new, empty ledger. Close must be called
// to release the listener.
func NewServer() (*Server, error) {
	ledger := NewLedger()
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(soroban.Namespace, &service{ledger: ledger}); err != nil {
		return nil, err
	}
	return &Server{
		Ledger:     ledger,
		rpcServer:  rpcServer,
		httpServer: httptest.NewServer(rpcServer),
	}, nil
}

// URL returns the address of the gateway.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the gateway down.
func (s *Server) Close() {
	s.httpServer.Close()
	s.rpcServer.Stop()
}

// service exposes the ledger under the royalty namespace.
type service struct {
	ledger *Ledger
}

func (s *service) GetHealth() (soroban.HealthResponse, error) {
	return s.ledger.health()
}

func (s *service) GetAccount(address string) (*soroban.AccountResponse, error) {
	return s.ledger.account(address)
}

func (s *service) Invoke(inv royalty.Invocation) (interface{}, error) {
	return s.ledger.invoke(inv)
}
