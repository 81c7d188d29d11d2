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

	"github.com/pkg/errors"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/log"
)

// operation describes how a request is served. Every request of the client
// goes through route.
type operation[T any] struct {
	method string
	params interface{}

	// accountScoped operations require a session.
	accountScoped bool
	// validate is run first, before the session is checked. Optional.
	validate func() royalty.APIError
	// live calls the ledger. An APIError returned by it is a definitive
	// answer from the ledger and is passed on to the caller, any other error
	// is a failure of the ledger.
	live func(ctx context.Context, backend royalty.LedgerBackend, s royalty.Session) (T, error)
	// mock serves the request without the ledger.
	mock func(ctx context.Context, s royalty.Session) (T, royalty.APIError)
}

// route serves the request through the ledger if the connection is live and
// through the mock otherwise. A failed live call marks the connection offline
// and the request is served by the mock instead.
func route[T any](ctx context.Context, c *Client, op operation[T]) (result T, apiErr royalty.APIError) {
	l := log.NewDerivedLoggerWithField(c.Logger, "method", op.method)
	l.Infof("Received request with params %+v", op.params)
	defer func() {
		if apiErr != nil {
			c.metrics.recordError(op.method, apiErr)
			c.WithFields(royalty.APIErrAsMap(op.method, apiErr)).Error(apiErr.Message())
		}
	}()

	if op.validate != nil {
		if apiErr = op.validate(); apiErr != nil {
			return result, apiErr
		}
	}
	s, ok := c.sessions.Get()
	if op.accountScoped && !ok {
		return result, royalty.NewAPIErrNotConnected(op.method)
	}

	if c.conn.RecheckDue() {
		c.conn.HealthCheck(ctx)
	}
	backend := c.conn.Backend()
	if c.conn.State() != royalty.Live || backend == nil {
		return serveMock(ctx, c, op, s, pathMock)
	}

	result, err := op.live(ctx, backend, s)
	if err == nil {
		c.conn.ReportSuccess()
		c.served(op.method, pathLive)
		return result, nil
	}
	var definitive royalty.APIError
	if errors.As(err, &definitive) {
		c.conn.ReportSuccess()
		return result, definitive
	}
	if ctx.Err() != nil {
		// Abandoned by the caller, says nothing about the ledger.
		return result, royalty.NewAPIErrRemoteCallFailed(err, op.method, c.conn.LedgerURL())
	}

	c.conn.ReportFailure(err)
	l.WithField("path", pathFallback).Warnf("Live call failed: %v", err)
	return serveMock(ctx, c, op, s, pathFallback)
}

func serveMock[T any](ctx context.Context, c *Client, op operation[T], s royalty.Session, path string) (
	T, royalty.APIError) {
	result, apiErr := op.mock(ctx, s)
	if apiErr == nil {
		c.served(op.method, path)
	}
	return result, apiErr
}

func (c *Client) served(method, path string) {
	c.metrics.recordServed(method, path)
	c.WithFields(log.Fields{"method": method, "path": path}).Debug("Request served")
}
