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

package soroban

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/stellar/go/strkey"
	"golang.org/x/time/rate"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/blockchain"
	"github.com/royalty-labs/royalty-node/currency"
)

// JSON-RPC methods of the ledger gateway.
const (
	Namespace        = "royalty"
	MethodGetHealth  = Namespace + "_getHealth"
	MethodGetAccount = Namespace + "_getAccount"
	MethodInvoke     = Namespace + "_invoke"

	// HealthStatusHealthy is the status reported by a gateway ready to serve.
	HealthStatusHealthy = "healthy"

	// ErrCodeNotFound is the error code used by the gateway for missing
	// ledger entries.
	ErrCodeNotFound = 404
)

type (
	// HealthResponse is the result of the getHealth method.
	HealthResponse struct {
		Status string `json:"status"`
	}

	// AccountResponse is the result of the getAccount method. Balance is in
	// stroops.
	AccountResponse struct {
		ID       string   `json:"id"`
		Sequence uint64   `json:"sequence"`
		Balance  *big.Int `json:"balance"`
	}
)

// Backend is a connection to a ledger gateway. It implements
// royalty.LedgerBackend.
type Backend struct {
	client      *rpc.Client
	url         string
	callTimeout time.Duration
	limiter     *rate.Limiter
	parser      currency.Parser
}

// Dial connects to the ledger gateway at url and verifies that it reports
// itself healthy. A nil limiter means calls are not limited.
func Dial(ctx context.Context, url string, connTimeout, callTimeout time.Duration, limiter *rate.Limiter) (
	*Backend, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connTimeout)
	defer cancel()
	client, err := rpc.DialContext(dialCtx, url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to ledger gateway at "+url)
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	b := &Backend{
		client:      client,
		url:         url,
		callTimeout: callTimeout,
		limiter:     limiter,
		parser:      currency.NewParser(),
	}
	if err := b.Health(dialCtx); err != nil {
		client.Close()
		return nil, err
	}
	return b, nil
}

// NewLimiter returns a limiter allowing perSecond calls with the given burst.
// Non positive perSecond disables limiting.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Health implements royalty.LedgerBackend.
func (b *Backend) Health(ctx context.Context) error {
	var resp HealthResponse
	if err := b.call(ctx, &resp, MethodGetHealth); err != nil {
		return errors.WithMessage(err, "checking gateway health")
	}
	if resp.Status != HealthStatusHealthy {
		return errors.Errorf("gateway at %s reports status %q", b.url, resp.Status)
	}
	return nil
}

// GetAccount implements royalty.LedgerBackend.
func (b *Backend) GetAccount(ctx context.Context, address string) (royalty.AccountInfo, error) {
	if _, err := strkey.Decode(strkey.VersionByteAccountID, address); err != nil {
		return royalty.AccountInfo{}, blockchain.NewInvalidAddressError(address, err)
	}
	var resp AccountResponse
	err := b.call(ctx, &resp, MethodGetAccount, address)
	if isNotFound(err) {
		return royalty.AccountInfo{}, blockchain.NewAccountNotFoundError(address, err)
	}
	if err != nil {
		return royalty.AccountInfo{}, errors.WithMessage(err, "fetching account "+address)
	}
	return royalty.AccountInfo{
		AccountID: resp.ID,
		Sequence:  resp.Sequence,
		Balance:   b.parser.FromBaseUnit(resp.Balance),
	}, nil
}

// Invoke implements royalty.LedgerBackend. The raw result is decoded into
// result, unless result is nil.
func (b *Backend) Invoke(ctx context.Context, inv royalty.Invocation, result interface{}) error {
	if inv.Args == nil {
		inv.Args = []interface{}{}
	}
	var raw json.RawMessage
	err := b.call(ctx, &raw, MethodInvoke, inv)
	if isNotFound(err) {
		return blockchain.NewEntryNotFoundError(inv.Function, err)
	}
	if err != nil {
		return errors.WithMessage(err, "invoking "+inv.Function)
	}
	if result == nil {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(raw, result), "malformed result of %s", inv.Function)
}

// Close implements royalty.LedgerBackend.
func (b *Backend) Close() error {
	b.client.Close()
	return nil
}

func (b *Backend) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "waiting for rate limiter")
	}
	if b.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}
	return errors.Wrap(b.client.CallContext(ctx, result, method, args...), method)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == ErrCodeNotFound {
		return true
	}
	var httpErr rpc.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
