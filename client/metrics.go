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
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/royalty-labs/royalty-node"
)

// Paths by which a request is served.
const (
	pathLive     = "live"
	pathMock     = "mock"
	pathFallback = "fallback"
)

type metrics struct {
	served *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// newMetrics creates the collectors of the client and registers them with
// reg, along with a gauge reporting the connection state. A nil reg skips
// registration.
func newMetrics(reg prometheus.Registerer, state func() royalty.ConnectionState) (*metrics, error) {
	m := &metrics{
		served: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "royalty",
			Subsystem: "client",
			Name:      "requests_served_total",
			Help:      "Requests served, by method and by the path that served them.",
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "royalty",
			Subsystem: "client",
			Name:      "request_errors_total",
			Help:      "Requests that returned an error, by method and error code.",
		}, []string{"method", "code"}),
	}
	if reg == nil {
		return m, nil
	}

	stateGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "royalty",
		Subsystem: "ledger",
		Name:      "connection_state",
		Help:      "Connection state of the ledger: 0 connecting, 1 live, 2 offline.",
	}, func() float64 { return float64(state()) })

	for _, c := range []prometheus.Collector{m.served, m.errors, stateGauge} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering metrics")
		}
	}
	return m, nil
}

func (m *metrics) recordServed(method, path string) {
	m.served.WithLabelValues(method, path).Inc()
}

func (m *metrics) recordError(method string, apiErr royalty.APIError) {
	m.errors.WithLabelValues(method, strconv.Itoa(int(apiErr.Code()))).Inc()
}
