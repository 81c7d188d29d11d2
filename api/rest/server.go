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

// Package rest serves the ledger client over an HTTP JSON API.
//
// Successful requests are answered with the JSON encoding of the result.
// Failed requests are answered with an Error body and a status derived from
// the error code.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type server struct {
	log.Logger
	api royalty.LedgerAPI
}

// NewHandler returns the handler serving api. If gatherer is not nil, its
// metrics are served at /metrics.
func NewHandler(api royalty.LedgerAPI, gatherer prometheus.Gatherer) http.Handler {
	s := &server{
		Logger: log.NewLoggerWithField("component", "rest"),
		api:    api,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.getStatus)
	mux.HandleFunc("POST /status/check", s.checkBackend)
	mux.HandleFunc("POST /session", s.connect)
	mux.HandleFunc("DELETE /session", s.disconnect)
	mux.HandleFunc("GET /account", s.getAccount)
	mux.HandleFunc("GET /stats", s.getRoyaltyStats)
	mux.HandleFunc("GET /works", s.listCreatorWorkDetails)
	mux.HandleFunc("GET /works/ids", s.getCreatorWorks)
	mux.HandleFunc("GET /works/search", s.searchWorks)
	mux.HandleFunc("GET /works/{id}", s.getWorkDetails)
	mux.HandleFunc("GET /works/{id}/royalty", s.getRoyaltyConfig)
	mux.HandleFunc("POST /works", s.registerWork)
	mux.HandleFunc("POST /licenses", s.purchaseLicense)
	mux.HandleFunc("GET /licenses/{id}/verify", s.verifyLicense)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// ListenAndServe serves api at addr until ctx is done, then shuts the server
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, api royalty.LedgerAPI, gatherer prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(api, gatherer),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "serving HTTP API")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down HTTP API")
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving HTTP API")
	}
	return nil
}

func (s *server) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.WithError(err).Error("Encoding response")
	}
}

func (s *server) respondError(w http.ResponseWriter, r *http.Request, apiErr royalty.APIError) {
	status := httpStatus(apiErr)
	s.WithFields(log.Fields{"path": r.URL.Path, "status": status}).Debug(apiErr.Message())
	s.respond(w, status, FromError(apiErr))
}
