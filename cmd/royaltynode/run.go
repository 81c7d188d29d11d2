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
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/api/rest"
	"github.com/royalty-labs/royalty-node/log"
	"github.com/royalty-labs/royalty-node/node"
	"github.com/royalty-labs/royalty-node/wallet"
)

const (
	// flag names for run command. Each matches the lower cased name of the
	// field in royalty.Config.
	loglevelF            = "loglevel"
	logfileF             = "logfile"
	ledgerurlF           = "ledgerurl"
	contractidF          = "contractid"
	ledgerconntimeoutF   = "ledgerconntimeout"
	ledgercalltimeoutF   = "ledgercalltimeout"
	initretryintervalF   = "initretryinterval"
	inittimeoutF         = "inittimeout"
	recheckintervalF     = "recheckinterval"
	rpcratelimitF        = "rpcratelimit"
	rpcburstF            = "rpcburst"
	walletprobeattemptsF = "walletprobeattempts"
	walletprobeintervalF = "walletprobeinterval"
	keyfilepathF         = "keyfilepath"
	simulatedlatencyF    = "simulatedlatency"
	workcachesizeF       = "workcachesize"
	listenaddrF          = "listenaddr"
	configfileF          = "configfile" // can only be specified in flag, not via config file.

	// default values for flags in run command.
	defaultConfigFile = "node.yaml"
)

var (
	// Viper instance for parsing node configuration file. Each flag in the nodeCfgFlags list (that are defined
	// on the run command) will also be attached to the viper instance, so that the values from flags (when
	// specified), override the values defined in the configuration files.
	nodeCfgViper *viper.Viper

	// Flags corresponding to node configuration parameters. Each of this flag can individually override the
	// value in config file. Also, the node configuration can be fully specified by using all of these
	// flags, in which case no config file is needed and configFile flag can be unspecified.
	nodeCfgFlags = []string{
		loglevelF,
		logfileF,
		ledgerurlF,
		contractidF,
		ledgerconntimeoutF,
		ledgercalltimeoutF,
		initretryintervalF,
		inittimeoutF,
		recheckintervalF,
		rpcratelimitF,
		rpcburstF,
		walletprobeattemptsF,
		walletprobeintervalF,
		keyfilepathF,
		simulatedlatencyF,
		workcachesizeF,
		listenaddrF,
	}
)

func init() {
	rootCmd.AddCommand(runCmd)
	defineFlags(runCmd.Flags())

	var err error
	if nodeCfgViper, err = newNodeCfgViper(runCmd.Flags()); err != nil {
		panic(err)
	}
}

// newNodeCfgViper returns a viper instance with the configuration flags in
// fs bound to it, so that values in flags (when specified) take precedence
// over those in config file.
func newNodeCfgViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for i := range nodeCfgFlags {
		if err := v.BindPFlag(nodeCfgFlags[i], fs.Lookup(nodeCfgFlags[i])); err != nil {
			return nil, errors.Wrap(err, "binding flag "+nodeCfgFlags[i])
		}
	}
	return v, nil
}

func defineFlags(fs *pflag.FlagSet) {
	fs.String(configfileF, defaultConfigFile, "node config file")

	// All these flags should have zero values for defaults, as their only purpose is allow the user to
	// explicitly specify the configuration.
	fs.String(loglevelF, "", "Log level. Supported levels: debug, info, error")
	fs.String(logfileF, "", "Log file path. Use empty string for stdout")
	fs.String(ledgerurlF, "", "URL of the ledger RPC gateway")
	fs.String(contractidF, "", "ID of the royalty contract")
	fs.Duration(ledgerconntimeoutF, time.Duration(0), "Timeout for a single dial to the ledger")
	fs.Duration(ledgercalltimeoutF, time.Duration(0), "Timeout for a single call to the ledger")
	fs.Duration(initretryintervalF, time.Duration(0), "Interval between dial attempts during start up")
	fs.Duration(inittimeoutF, time.Duration(0), "Time allowed for connecting at start up before going offline")
	fs.Duration(recheckintervalF, time.Duration(0),
		"Minimum time between ledger health re-checks triggered by requests. Negative disables re-checks")
	fs.Float64(rpcratelimitF, 0, "Maximum ledger calls per second. Zero disables limiting")
	fs.Int(rpcburstF, 0, "Burst size for ledger calls")
	fs.Int(walletprobeattemptsF, 0, "Number of wallet detection attempts")
	fs.Duration(walletprobeintervalF, time.Duration(0), "Interval between wallet detection attempts")
	fs.String(keyfilepathF, "", "Keyfile installed as the wallet. Empty string for none")
	fs.Duration(simulatedlatencyF, time.Duration(0), "Delay of writes served while the ledger is offline")
	fs.Int(workcachesizeF, 0, "Number of works confirmed by the ledger kept in memory")
	fs.String(listenaddrF, "", "Address for the HTTP API to listen on")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the royaltynode",
	Long: `Start the royalty node. The node serves the royalty API via HTTP.

Configuration can be specified in the config file or via flags. Values in the
flags override that in the config file.

If no flags are specified, default path for config file is used. However, if
all the config flags are specified, config file is ignored.`,
	RunE: run,
}

func run(cmd *cobra.Command, _ []string) error {
	nodeCfg, err := parseNodeConfig(cmd.Flags(), nodeCfgViper)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), redf("Error parsing node config: %v", err))
		return err
	}
	if err = log.InitLogger(nodeCfg.LogLevel, nodeCfg.LogFile); err != nil {
		return errors.WithMessage(err, "initializing logger for node")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	n, err := node.New(nodeCfg, wallet.NewRegistry(), reg)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), redf("Error initializing node: %v", err))
		return err
	}
	defer n.Close() // nolint: errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if _, err = n.Start(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running royalty node with the below config:\n%s\n\n", formatConfig(n.Config()))
	if w := n.Keyfile(); w != nil {
		fmt.Fprintf(out, "Using keyfile wallet with address %s\n", greenf(w.Address()))
	}
	fmt.Fprintf(out, "%s\n\n", greenf("Serving royalty API via HTTP at %s", n.Config().ListenAddr))

	if err = rest.ListenAndServe(ctx, n.Config().ListenAddr, n.API(), reg); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), redf("Server returned with error: %v", err))
		return err
	}
	fmt.Fprintln(out, "Shutting down")
	return nil
}

// parseNodeConfig reads the node configuration from the config file and
// applies the values of the flags specified in fs.
func parseNodeConfig(fs *pflag.FlagSet, v *viper.Viper) (royalty.Config, error) {
	// Ignore config file, if all config flags are specified.
	if !areAllFlagsSpecified(fs, nodeCfgFlags...) {
		nodeCfgFile, err := fs.GetString(configfileF)
		if err != nil {
			panic("unknown flag configfile\n")
		}

		// Read config from file.
		v.SetConfigFile(filepath.Clean(nodeCfgFile))
		v.SetConfigType("yaml")
		if err = v.ReadInConfig(); err != nil {
			return royalty.Config{}, errors.Wrap(err, "reading node config file")
		}
		fmt.Printf("Using node config file - %s\n", nodeCfgFile)
	}

	// Copy the configuration from viper to struct.
	var nodeCfg royalty.Config
	if err := v.Unmarshal(&nodeCfg); err != nil {
		return royalty.Config{}, errors.Wrap(err, "unmarshalling node config")
	}
	return nodeCfg, nil
}
