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
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/royalty-labs/royalty-node/wallet/keyfile"
)

const (
	keyfileF = "keyfile"
	qrF      = "qr"
	qrfileF  = "qrfile"

	defaultKeyfile = "keyfile.yaml"
	qrImageSize    = 256
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a keyfile wallet",
	Long: `
Generate a keyfile containing the secret seed of a new random account. An
existing file is never overwritten.

The keyfile can be used as the wallet of the node by passing its path in the
keyfilepath flag of the run command or in the config file. The address of the
account is printed, optionally also as a QR code, so that the account can be
funded before use.`,
	RunE: generate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String(keyfileF, defaultKeyfile, "path of the keyfile to generate")
	generateCmd.Flags().Bool(qrF, false, "print the account address as a QR code")
	generateCmd.Flags().String(qrfileF, "", "write the account address as a QR code PNG to this path")
}

func generate(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString(keyfileF)
	if err != nil {
		panic("unknown flag " + keyfileF + "\n")
	}
	showQR, err := cmd.Flags().GetBool(qrF)
	if err != nil {
		panic("unknown flag " + qrF + "\n")
	}
	qrFile, err := cmd.Flags().GetString(qrfileF)
	if err != nil {
		panic("unknown flag " + qrfileF + "\n")
	}

	if err = generateKeyfile(cmd.OutOrStdout(), path, showQR, qrFile); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), redf("Error generating keyfile: %v", err))
	}
	return err
}

// generateKeyfile creates the keyfile at path and prints the address of the
// new account to out.
func generateKeyfile(out io.Writer, path string, showQR bool, qrFile string) error {
	w, err := keyfile.Generate(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Generated keyfile: %s\nAccount address: %s\n", path, greenf(w.Address()))
	if !showQR && qrFile == "" {
		return nil
	}

	qr, err := qrcode.New(w.Address(), qrcode.Medium)
	if err != nil {
		return errors.Wrap(err, "creating QR code")
	}
	if showQR {
		fmt.Fprintf(out, "\n%s\n", qr.ToSmallString(false))
	}
	if qrFile != "" {
		if err = qr.WriteFile(qrImageSize, qrFile); err != nil {
			return errors.Wrap(err, "writing QR code")
		}
		fmt.Fprintf(out, "QR code written to %s\n", qrFile)
	}
	return nil
}
