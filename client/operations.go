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

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/blockchain"
	"github.com/royalty-labs/royalty-node/currency"
)

// RegisterWork registers a work of the session account and returns its ID.
// Percentages are converted to basis points for the ledger.
//
// If there is an error, it will be one of the following codes:
// - ErrNotConnected when there is no session.
// - ErrInvalidArgument when any of the parameters is invalid.
func (c *Client) RegisterWork(ctx context.Context, params royalty.RegisterWorkParams) (uint64, royalty.APIError) {
	return route(ctx, c, operation[uint64]{
		method:        "RegisterWork",
		params:        params,
		accountScoped: true,
		validate:      func() royalty.APIError { return validateRegisterWork(params) },
		live: func(ctx context.Context, b royalty.LedgerBackend, s royalty.Session) (uint64, error) {
			args, apiErr := c.registerWorkArgs(params)
			if apiErr != nil {
				return 0, apiErr
			}
			var id uint64
			err := b.Invoke(ctx, c.invocation(blockchain.FnRegisterWork, s.PublicKey, args...), &id)
			return id, err
		},
		mock: func(ctx context.Context, _ royalty.Session) (uint64, royalty.APIError) {
			return c.mock.write(ctx)
		},
	})
}

func (c *Client) registerWorkArgs(p royalty.RegisterWorkParams) ([]interface{}, royalty.APIError) {
	primary, err := currency.ToBasisPoints(p.PrimaryPct)
	if err != nil {
		return nil, royalty.NewAPIErrUnknownInternal(err)
	}
	secondary, err := currency.ToBasisPoints(p.SecondaryPct)
	if err != nil {
		return nil, royalty.NewAPIErrUnknownInternal(err)
	}
	streamingRate, err := c.parser.ToBaseUnit(p.StreamingRate)
	if err != nil {
		return nil, royalty.NewAPIErrUnknownInternal(err)
	}
	minFee, err := c.parser.ToBaseUnit(p.MinFee)
	if err != nil {
		return nil, royalty.NewAPIErrUnknownInternal(err)
	}
	return []interface{}{
		p.Title, p.Description, p.ContentHash, string(p.WorkType),
		primary, secondary, streamingRate.String(), minFee.String(),
	}, nil
}

// PurchaseLicense purchases a license for the session account and returns
// its ID. A duration of zero requests a perpetual license.
//
// If there is an error, it will be one of the following codes:
// - ErrNotConnected when there is no session.
// - ErrInvalidArgument when any of the parameters is invalid.
// - ErrResourceNotFound when the ledger does not know the work.
func (c *Client) PurchaseLicense(ctx context.Context, params royalty.PurchaseLicenseParams) (
	uint64, royalty.APIError) {
	return route(ctx, c, operation[uint64]{
		method:        "PurchaseLicense",
		params:        params,
		accountScoped: true,
		validate:      func() royalty.APIError { return validatePurchaseLicense(params) },
		live: func(ctx context.Context, b royalty.LedgerBackend, s royalty.Session) (uint64, error) {
			amount, err := c.parser.ToBaseUnit(params.Amount)
			if err != nil {
				return 0, royalty.NewAPIErrUnknownInternal(err)
			}
			var id uint64
			err = b.Invoke(ctx, c.invocation(blockchain.FnPurchaseLicense, s.PublicKey,
				params.WorkID, string(params.LicenseType), params.DurationSeconds, amount.String()), &id)
			return id, notFound(err, ResTypeWork, params.WorkID)
		},
		mock: func(ctx context.Context, _ royalty.Session) (uint64, royalty.APIError) {
			return c.mock.write(ctx)
		},
	})
}

// GetCreatorWorks returns the IDs of the works registered by the session
// account.
//
// If there is an error, it will be one of the following codes:
// - ErrNotConnected when there is no session.
func (c *Client) GetCreatorWorks(ctx context.Context) ([]uint64, royalty.APIError) {
	return route(ctx, c, operation[[]uint64]{
		method:        "GetCreatorWorks",
		accountScoped: true,
		live: func(ctx context.Context, b royalty.LedgerBackend, s royalty.Session) ([]uint64, error) {
			ids := []uint64{}
			err := b.Invoke(ctx, c.invocation(blockchain.FnGetCreatorWorks, "", s.PublicKey), &ids)
			return ids, err
		},
		mock: func(context.Context, royalty.Session) ([]uint64, royalty.APIError) {
			return c.mock.creatorWorks(), nil
		},
	})
}

// ListCreatorWorkDetails returns the details of all works registered by the
// session account, in the order of GetCreatorWorks.
//
// If there is an error, it will be one of the following codes:
// - ErrNotConnected when there is no session.
// - ErrResourceNotFound when the ledger does not know one of the works.
func (c *Client) ListCreatorWorkDetails(ctx context.Context) ([]royalty.Work, royalty.APIError) {
	ids, apiErr := c.GetCreatorWorks(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	works := make([]royalty.Work, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.FetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			w, apiErr := c.GetWorkDetails(gctx, id)
			if apiErr != nil {
				return apiErr
			}
			works[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if apiErr, ok := err.(royalty.APIError); ok {
			return nil, apiErr
		}
		return nil, royalty.NewAPIErrUnknownInternal(err)
	}
	return works, nil
}

// GetWorkDetails returns a work along with its primary royalty percentage.
// Works confirmed by the ledger are cached.
//
// If there is an error, it will be one of the following codes:
// - ErrInvalidArgument when the work ID is zero.
// - ErrResourceNotFound when the ledger does not know the work.
func (c *Client) GetWorkDetails(ctx context.Context, workID uint64) (royalty.Work, royalty.APIError) {
	return route(ctx, c, operation[royalty.Work]{
		method:   "GetWorkDetails",
		params:   workID,
		validate: func() royalty.APIError { return validateID(ArgNameWorkID, workID) },
		live: func(ctx context.Context, b royalty.LedgerBackend, _ royalty.Session) (royalty.Work, error) {
			if w, ok := c.works.Get(workID); ok {
				return w, nil
			}
			var record blockchain.WorkRecord
			err := b.Invoke(ctx, c.invocation(blockchain.FnGetWork, "", workID), &record)
			if err != nil {
				return royalty.Work{}, notFound(err, ResTypeWork, workID)
			}
			var cfg blockchain.RoyaltyConfigRecord
			err = b.Invoke(ctx, c.invocation(blockchain.FnGetRoyaltyConfig, "", workID), &cfg)
			if err != nil {
				return royalty.Work{}, notFound(err, ResTypeWork, workID)
			}
			w := workFromRecord(record, cfg)
			c.works.Add(workID, w)
			return w, nil
		},
		mock: func(_ context.Context, s royalty.Session) (royalty.Work, royalty.APIError) {
			return c.mock.work(workID, s.PublicKey), nil
		},
	})
}

// GetRoyaltyConfig returns the royalty terms of a work.
//
// If there is an error, it will be one of the following codes:
// - ErrInvalidArgument when the work ID is zero.
// - ErrResourceNotFound when the ledger does not know the work.
func (c *Client) GetRoyaltyConfig(ctx context.Context, workID uint64) (royalty.RoyaltyConfig, royalty.APIError) {
	return route(ctx, c, operation[royalty.RoyaltyConfig]{
		method:   "GetRoyaltyConfig",
		params:   workID,
		validate: func() royalty.APIError { return validateID(ArgNameWorkID, workID) },
		live: func(ctx context.Context, b royalty.LedgerBackend, _ royalty.Session) (royalty.RoyaltyConfig, error) {
			var record blockchain.RoyaltyConfigRecord
			err := b.Invoke(ctx, c.invocation(blockchain.FnGetRoyaltyConfig, "", workID), &record)
			if err != nil {
				return royalty.RoyaltyConfig{}, notFound(err, ResTypeWork, workID)
			}
			return c.configFromRecord(record), nil
		},
		mock: func(context.Context, royalty.Session) (royalty.RoyaltyConfig, royalty.APIError) {
			return c.mock.royaltyConfig(), nil
		},
	})
}

// GetRoyaltyStats returns the aggregate statistics computed by the ledger.
// It uses the same contract function as the health check of the connection.
func (c *Client) GetRoyaltyStats(ctx context.Context) (royalty.RoyaltyStats, royalty.APIError) {
	return route(ctx, c, operation[royalty.RoyaltyStats]{
		method: "GetRoyaltyStats",
		live: func(ctx context.Context, b royalty.LedgerBackend, _ royalty.Session) (royalty.RoyaltyStats, error) {
			var record blockchain.RoyaltyStatsRecord
			err := b.Invoke(ctx, c.invocation(blockchain.FnGetRoyaltyStats, ""), &record)
			return royalty.RoyaltyStats{
				TotalWorks:    record.TotalWorks,
				TotalLicenses: record.TotalLicenses,
				TotalPayments: record.TotalPayments,
				TotalRevenue:  c.parser.FromBaseUnit(record.TotalRevenue),
				TotalEarned:   c.parser.FromBaseUnit(record.TotalEarned),
				Pending:       c.parser.FromBaseUnit(record.Pending),
				WorksCount:    record.WorksCount,
			}, err
		},
		mock: func(context.Context, royalty.Session) (royalty.RoyaltyStats, royalty.APIError) {
			return c.mock.stats(), nil
		},
	})
}

// GetAccount returns the ledger account of the session.
//
// If there is an error, it will be one of the following codes:
// - ErrNotConnected when there is no session.
// - ErrAccountNotFound when the account was not funded yet.
// - ErrInvalidArgument when the session key is not a valid account ID.
func (c *Client) GetAccount(ctx context.Context) (royalty.AccountInfo, royalty.APIError) {
	return route(ctx, c, operation[royalty.AccountInfo]{
		method:        "GetAccount",
		accountScoped: true,
		live: func(ctx context.Context, b royalty.LedgerBackend, s royalty.Session) (royalty.AccountInfo, error) {
			info, err := b.GetAccount(ctx, s.PublicKey)
			if blockchain.IsAccountNotFound(err) {
				return royalty.AccountInfo{}, royalty.NewAPIErrAccountNotFound(err, s.PublicKey)
			}
			if blockchain.IsInvalidAddress(err) {
				return royalty.AccountInfo{}, royalty.NewAPIErrInvalidArgument(err, ArgNameAccount, s.PublicKey,
					"must be a valid account ID")
			}
			return info, err
		},
		mock: func(_ context.Context, s royalty.Session) (royalty.AccountInfo, royalty.APIError) {
			return c.mock.account(s.PublicKey), nil
		},
	})
}

// VerifyLicense reports if a license is valid at present.
//
// If there is an error, it will be one of the following codes:
// - ErrInvalidArgument when the license ID is zero.
// - ErrResourceNotFound when the ledger does not know the license.
func (c *Client) VerifyLicense(ctx context.Context, licenseID uint64) (bool, royalty.APIError) {
	return route(ctx, c, operation[bool]{
		method:   "VerifyLicense",
		params:   licenseID,
		validate: func() royalty.APIError { return validateID(ArgNameLicenseID, licenseID) },
		live: func(ctx context.Context, b royalty.LedgerBackend, _ royalty.Session) (bool, error) {
			var valid bool
			err := b.Invoke(ctx, c.invocation(blockchain.FnVerifyLicense, "", licenseID), &valid)
			return valid, notFound(err, ResTypeLicense, licenseID)
		},
		mock: func(context.Context, royalty.Session) (bool, royalty.APIError) {
			return true, nil
		},
	})
}

// SearchWorks returns the known works whose title, description or creator
// contains the query, ignoring case. While live, the works fetched from the
// ledger so far are searched, otherwise the demo catalog.
//
// If there is an error, it will be one of the following codes:
// - ErrInvalidArgument when the query is empty.
func (c *Client) SearchWorks(ctx context.Context, query string) ([]royalty.Work, royalty.APIError) {
	query = strings.TrimSpace(query)
	return route(ctx, c, operation[[]royalty.Work]{
		method: "SearchWorks",
		params: query,
		validate: func() royalty.APIError {
			if query == "" {
				return invalidArg(ArgNameQuery, query, "must not be empty")
			}
			return nil
		},
		live: func(context.Context, royalty.LedgerBackend, royalty.Session) ([]royalty.Work, error) {
			return searchWorks(c.works.Values(), query), nil
		},
		mock: func(context.Context, royalty.Session) ([]royalty.Work, royalty.APIError) {
			return searchWorks(demoCatalog, query), nil
		},
	})
}

func (c *Client) invocation(fn blockchain.ContractFunction, source string, args ...interface{}) royalty.Invocation {
	if args == nil {
		args = []interface{}{}
	}
	return royalty.Invocation{ContractID: c.cfg.ContractID, Function: fn, Source: source, Args: args}
}

// notFound converts a missing ledger entry into ErrResourceNotFound. Other
// errors are returned unchanged.
func notFound(err error, resourceType royalty.ResourceType, id uint64) error {
	if blockchain.IsEntryNotFound(err) {
		return royalty.NewAPIErrResourceNotFound(resourceType, strconv.FormatUint(id, 10))
	}
	return err
}

func workFromRecord(r blockchain.WorkRecord, cfg blockchain.RoyaltyConfigRecord) royalty.Work {
	return royalty.Work{
		WorkID:            r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Creator:           r.Creator,
		ContentHash:       r.ContentHash,
		WorkType:          royalty.WorkType(r.WorkType),
		RoyaltyPercentage: currency.FromBasisPoints(cfg.PrimaryRoyaltyBps),
		CreationTime:      time.Unix(r.CreationTime, 0).UTC(),
		IsActive:          r.IsActive,
		LicenseCount:      r.LicenseCount,
	}
}

func (c *Client) configFromRecord(r blockchain.RoyaltyConfigRecord) royalty.RoyaltyConfig {
	return royalty.RoyaltyConfig{
		PrimaryPct:    currency.FromBasisPoints(r.PrimaryRoyaltyBps),
		SecondaryPct:  currency.FromBasisPoints(r.SecondaryRoyaltyBps),
		StreamingRate: c.parser.FromBaseUnit(r.StreamingRate),
		MinFee:        c.parser.FromBaseUnit(r.MinimumLicenseFee),
	}
}
