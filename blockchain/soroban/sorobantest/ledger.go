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

// Package sorobantest provides an in-process ledger gateway for tests. The
// gateway serves the same JSON-RPC methods as a real one and keeps the
// royalty contract state in memory.
package sorobantest

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/blockchain"
	"github.com/royalty-labs/royalty-node/blockchain/soroban"
	"github.com/royalty-labs/royalty-node/currency"
)

// ContractID is the contract ID served by the test ledger.
const ContractID = "CROYALTYTESTCONTRACT"

type license struct {
	id         uint64
	workID     uint64
	licensee   string
	expiration int64
	amount     *big.Int
}

// Ledger holds the state of the royalty contract and of the funded accounts.
// Failures can be injected per method or per contract function.
type Ledger struct {
	mutex sync.Mutex

	works        map[uint64]blockchain.WorkRecord
	configs      map[uint64]blockchain.RoyaltyConfigRecord
	creatorWorks map[string][]uint64
	licenses     map[uint64]license
	accounts     map[string]soroban.AccountResponse
	nextWorkID   uint64
	nextLicense  uint64
	payments     uint64
	revenue      *big.Int
	earned       *big.Int

	failures map[string]error
	calls    map[string]int
	status   string
	now      func() time.Time
}

// NewLedger returns an empty, healthy ledger.
func NewLedger() *Ledger {
	return &Ledger{
		works:        make(map[uint64]blockchain.WorkRecord),
		configs:      make(map[uint64]blockchain.RoyaltyConfigRecord),
		creatorWorks: make(map[string][]uint64),
		licenses:     make(map[uint64]license),
		accounts:     make(map[string]soroban.AccountResponse),
		revenue:      new(big.Int),
		earned:       new(big.Int),
		failures:     make(map[string]error),
		calls:        make(map[string]int),
		status:       soroban.HealthStatusHealthy,
		now:          time.Now,
	}
}

// FundAccount creates the account with the given balance in stroops.
func (l *Ledger) FundAccount(address string, balance int64) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.accounts[address] = soroban.AccountResponse{ID: address, Sequence: 1, Balance: big.NewInt(balance)}
}

// SetFailure makes every call of name fail with err until cleared with a nil
// err. name is either a JSON-RPC method or a contract function.
func (l *Ledger) SetFailure(name string, err error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if err == nil {
		delete(l.failures, name)
		return
	}
	l.failures[name] = err
}

// SetStatus sets the status reported by getHealth.
func (l *Ledger) SetStatus(status string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.status = status
}

// Calls returns how often the method or contract function name was called.
func (l *Ledger) Calls(name string) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.calls[name]
}

// Work returns the stored work record.
func (l *Ledger) Work(id uint64) (blockchain.WorkRecord, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	w, ok := l.works[id]
	return w, ok
}

// RoyaltyConfig returns the stored royalty config record.
func (l *Ledger) RoyaltyConfig(id uint64) (blockchain.RoyaltyConfigRecord, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	c, ok := l.configs[id]
	return c, ok
}

func (l *Ledger) enter(name string) error {
	l.calls[name]++
	return l.failures[name]
}

func (l *Ledger) health() (soroban.HealthResponse, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if err := l.enter(soroban.MethodGetHealth); err != nil {
		return soroban.HealthResponse{}, err
	}
	return soroban.HealthResponse{Status: l.status}, nil
}

func (l *Ledger) account(address string) (*soroban.AccountResponse, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if err := l.enter(soroban.MethodGetAccount); err != nil {
		return nil, err
	}
	acc, ok := l.accounts[address]
	if !ok {
		return nil, notFoundError("account " + address)
	}
	return &acc, nil
}

func (l *Ledger) invoke(inv royalty.Invocation) (interface{}, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if err := l.enter(soroban.MethodInvoke); err != nil {
		return nil, err
	}
	if err := l.enter(inv.Function); err != nil {
		return nil, err
	}
	if inv.ContractID != ContractID {
		return nil, notFoundError("contract " + inv.ContractID)
	}
	args := invocationArgs(inv.Args)

	switch inv.Function {
	case blockchain.FnRegisterWork:
		return l.registerWork(inv.Source, args)
	case blockchain.FnPurchaseLicense:
		return l.purchaseLicense(inv.Source, args)
	case blockchain.FnGetCreatorWorks:
		creator, err := args.str(0)
		if err != nil {
			return nil, err
		}
		ids := append([]uint64{}, l.creatorWorks[creator]...)
		return ids, nil
	case blockchain.FnGetWork:
		id, err := args.uint(0)
		if err != nil {
			return nil, err
		}
		w, ok := l.works[id]
		if !ok {
			return nil, notFoundError(fmt.Sprintf("work %d", id))
		}
		return w, nil
	case blockchain.FnGetRoyaltyConfig:
		id, err := args.uint(0)
		if err != nil {
			return nil, err
		}
		c, ok := l.configs[id]
		if !ok {
			return nil, notFoundError(fmt.Sprintf("royalty config %d", id))
		}
		return c, nil
	case blockchain.FnGetRoyaltyStats:
		return blockchain.RoyaltyStatsRecord{
			TotalWorks:    uint64(len(l.works)),
			TotalLicenses: uint64(len(l.licenses)),
			TotalPayments: l.payments,
			TotalRevenue:  new(big.Int).Set(l.revenue),
			TotalEarned:   new(big.Int).Set(l.earned),
			Pending:       new(big.Int),
			WorksCount:    uint64(len(l.works)),
		}, nil
	case blockchain.FnVerifyLicense:
		id, err := args.uint(0)
		if err != nil {
			return nil, err
		}
		lic, ok := l.licenses[id]
		if !ok {
			return nil, notFoundError(fmt.Sprintf("license %d", id))
		}
		return lic.expiration == 0 || l.now().Unix() < lic.expiration, nil
	}
	return nil, errors.Errorf("unknown contract function %s", inv.Function)
}

// registerWork args: title, description, content_hash, work_type,
// primary_bps, secondary_bps, streaming_rate, minimum_license_fee.
func (l *Ledger) registerWork(creator string, args invocationArgs) (interface{}, error) {
	if creator == "" {
		return nil, errors.New("creator authorization required")
	}
	title, err := args.str(0)
	if err != nil {
		return nil, err
	}
	description, _ := args.str(1)
	contentHash, _ := args.str(2)
	workType, _ := args.str(3)
	primary, err := args.uint(4)
	if err != nil {
		return nil, err
	}
	secondary, err := args.uint(5)
	if err != nil {
		return nil, err
	}
	if primary > currency.MaxBasisPoints || secondary > currency.MaxBasisPoints {
		return nil, errors.New("royalty percentage exceeds 100%")
	}
	streamingRate, err := args.bigInt(6)
	if err != nil {
		return nil, err
	}
	minFee, err := args.bigInt(7)
	if err != nil {
		return nil, err
	}

	l.nextWorkID++
	id := l.nextWorkID
	l.works[id] = blockchain.WorkRecord{
		ID:           id,
		Creator:      creator,
		Title:        title,
		Description:  description,
		ContentHash:  contentHash,
		WorkType:     workType,
		CreationTime: l.now().Unix(),
		IsActive:     true,
	}
	l.configs[id] = blockchain.RoyaltyConfigRecord{
		PrimaryRoyaltyBps:   uint32(primary),
		SecondaryRoyaltyBps: uint32(secondary),
		StreamingRate:       streamingRate,
		MinimumLicenseFee:   minFee,
	}
	l.creatorWorks[creator] = append(l.creatorWorks[creator], id)
	return id, nil
}

// purchaseLicense args: work_id, license_type, duration, payment_amount.
func (l *Ledger) purchaseLicense(licensee string, args invocationArgs) (interface{}, error) {
	if licensee == "" {
		return nil, errors.New("licensee authorization required")
	}
	workID, err := args.uint(0)
	if err != nil {
		return nil, err
	}
	duration, err := args.uint(2)
	if err != nil {
		return nil, err
	}
	amount, err := args.bigInt(3)
	if err != nil {
		return nil, err
	}
	w, ok := l.works[workID]
	if !ok {
		return nil, notFoundError(fmt.Sprintf("work %d", workID))
	}
	if !w.IsActive {
		return nil, errors.New("work is not active")
	}
	cfg := l.configs[workID]
	if amount.Cmp(cfg.MinimumLicenseFee) < 0 {
		return nil, errors.New("payment below minimum license fee")
	}

	var expiration int64
	if duration > 0 {
		expiration = l.now().Unix() + int64(duration)
	}
	l.nextLicense++
	id := l.nextLicense
	l.licenses[id] = license{id: id, workID: workID, licensee: licensee, expiration: expiration, amount: amount}
	w.LicenseCount++
	l.works[workID] = w
	l.payments++
	l.revenue.Add(l.revenue, amount)
	royaltyShare := new(big.Int).Mul(amount, big.NewInt(int64(cfg.PrimaryRoyaltyBps)))
	l.earned.Add(l.earned, royaltyShare.Div(royaltyShare, big.NewInt(currency.MaxBasisPoints)))
	return id, nil
}

// invocationArgs are contract arguments as decoded from JSON.
type invocationArgs []interface{}

func (a invocationArgs) at(i int) (interface{}, error) {
	if i >= len(a) {
		return nil, errors.Errorf("missing argument %d", i)
	}
	return a[i], nil
}

func (a invocationArgs) str(i int) (string, error) {
	v, err := a.at(i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("argument %d should be a string", i)
	}
	return s, nil
}

func (a invocationArgs) uint(i int) (uint64, error) {
	n, err := a.bigInt(i)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, errors.Errorf("argument %d out of range", i)
	}
	return n.Uint64(), nil
}

// bigInt accepts JSON numbers and decimal strings.
func (a invocationArgs) bigInt(i int) (*big.Int, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = big.NewFloat(val).Text('f', 0)
	default:
		return nil, errors.Errorf("argument %d should be an integer", i)
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, errors.Errorf("argument %d should be an integer, got %q", i, s)
	}
	return n, nil
}

// notFoundError is reported to clients with the not found error code.
type notFoundError string

func (e notFoundError) Error() string  { return string(e) + " not found" }
func (e notFoundError) ErrorCode() int { return soroban.ErrCodeNotFound }
