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

import "github.com/prometheus/client_golang/prometheus/testutil"

// ServedCount returns the number of requests for method served by path.
func ServedCount(c *Client, method, path string) float64 {
	return testutil.ToFloat64(c.metrics.served.WithLabelValues(method, path))
}

// ErrorCount returns the number of requests for method that failed with code.
func ErrorCount(c *Client, method, code string) float64 {
	return testutil.ToFloat64(c.metrics.errors.WithLabelValues(method, code))
}
