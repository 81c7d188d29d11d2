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

package main

import (
	"reflect"
	"time"

	"github.com/kylelemons/godebug/pretty"

	"github.com/royalty-labs/royalty-node"
)

var configFormatter = &pretty.Config{
	Compact: false,
	Formatter: map[reflect.Type]interface{}{
		reflect.TypeOf(time.Duration(0)): formatDuration,
	},
}

// formatConfig renders the effective node configuration printed by run on
// start up, one field per line.
func formatConfig(cfg royalty.Config) string {
	return configFormatter.Sprint(cfg)
}

// formatDuration prints negative durations, which turn a timer off, as
// "disabled".
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "disabled"
	}
	return d.String()
}
