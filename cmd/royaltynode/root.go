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
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SPrintf style functions that produce colored text.
var (
	redf   = color.New(color.FgRed).SprintfFunc()
	greenf = color.New(color.FgGreen).SprintfFunc()
)

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})
}

var rootCmd = &cobra.Command{
	Use:   "royaltynode",
	Short: "A node for registering creative works and licensing them on a ledger.",
	Long: `
A node for registering creative works and licensing them on a ledger. The node
connects to a wallet for signing and to a ledger RPC gateway for reading and
writing royalty records. When the ledger cannot be reached, it keeps serving
a deterministic offline data set, so the API stays usable.`,
	SilenceUsage: true,
}
