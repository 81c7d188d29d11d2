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

// Package keyfile implements a wallet provider backed by a secret seed
// stored in a local YAML file. It can be installed under the primary wallet
// namespace when no external wallet is available.
package keyfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/stellar/go/keypair"
	"gopkg.in/yaml.v3"

	"github.com/royalty-labs/royalty-node/wallet"
)

// SeedSize is the length of a raw ed25519 seed.
const SeedSize = 32

// EnvPrefix is the prefix of the environment variables read by LoadFromEnv.
const EnvPrefix = "royalty"

// File is the on-disk format of a keyfile.
type File struct {
	SecretSeed string `yaml:"secret_seed"`
}

// Env holds the settings that can override a keyfile. The secret is read
// from ROYALTY_WALLET_SECRET.
type Env struct {
	WalletSecret string `envconfig:"WALLET_SECRET"`
}

// Approver decides whether an authorization request for the account is
// granted.
type Approver func(ctx context.Context, address string) bool

// Option configures a Wallet.
type Option func(*Wallet)

// WithApprover sets the function consulted on Connect. Without one, every
// request is granted.
func WithApprover(a Approver) Option {
	return func(w *Wallet) { w.approve = a }
}

// Wallet is a wallet provider for a single account. It implements
// wallet.Provider.
type Wallet struct {
	mutex     sync.Mutex
	address   string
	connected bool
	approve   Approver
}

// New returns a wallet for the account derived from the raw ed25519 seed.
func New(seed []byte, opts ...Option) (*Wallet, error) {
	if len(seed) != SeedSize {
		return nil, errors.Errorf("seed should be %d bytes, got %d", SeedSize, len(seed))
	}
	var raw [SeedSize]byte
	copy(raw[:], seed)
	kp, err := keypair.FromRawSeed(raw)
	if err != nil {
		return nil, errors.Wrap(err, "deriving account")
	}
	return newWallet(kp, opts), nil
}

// FromSecret returns a wallet for the account of the encoded secret seed.
func FromSecret(secret string, opts ...Option) (*Wallet, error) {
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return nil, errors.Wrap(err, "decoding secret seed")
	}
	return newWallet(kp, opts), nil
}

func newWallet(kp *keypair.Full, opts []Option) *Wallet {
	w := &Wallet{address: kp.Address()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load reads the keyfile at path. If ROYALTY_WALLET_SECRET is set, it takes
// precedence over the secret in the file and the file need not exist.
func Load(path string, opts ...Option) (*Wallet, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}
	if env.WalletSecret != "" {
		return FromSecret(env.WalletSecret, opts...)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "opening keyfile")
	}
	defer f.Close() // nolint: errcheck, gosec  // safe to defer f.Close() for files opened in read mode.

	var file File
	if err = yaml.NewDecoder(f).Decode(&file); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding keyfile")
	}
	if file.SecretSeed == "" {
		return nil, errors.Errorf("keyfile %s has no secret_seed", path)
	}
	return FromSecret(file.SecretSeed, opts...)
}

// Generate creates a new random account and writes its secret to a keyfile
// at path, readable only by the owner. An existing file is never
// overwritten.
func Generate(path string, opts ...Option) (w *Wallet, err error) {
	kp, err := keypair.Random()
	if err != nil {
		return nil, errors.Wrap(err, "generating account")
	}
	w = newWallet(kp, opts)

	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "creating keyfile")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "closing keyfile")
		}
	}()

	encoder := yaml.NewEncoder(f)
	if err = encoder.Encode(File{SecretSeed: kp.Seed()}); err != nil {
		return nil, errors.Wrap(err, "encoding keyfile")
	}
	if err = encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "closing encoder")
	}
	return w, nil
}

// Address returns the account ID of the wallet.
func (w *Wallet) Address() string {
	return w.address
}

// IsConnected implements wallet.ConnectivityChecker.
func (w *Wallet) IsConnected(context.Context) (bool, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.connected, nil
}

// Connect implements wallet.Authorizer.
func (w *Wallet) Connect(ctx context.Context) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.approve != nil && !w.approve(ctx, w.address) {
		return errors.Wrapf(wallet.ErrUserRejected, "authorizing %s", w.address)
	}
	w.connected = true
	return nil
}

// GetPublicKey implements wallet.IdentityProvider. It returns an empty key
// until the wallet is connected.
func (w *Wallet) GetPublicKey(context.Context) (string, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.connected {
		return "", nil
	}
	return w.address, nil
}

// Disconnect revokes the authorization granted by Connect.
func (w *Wallet) Disconnect() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.connected = false
}

var _ wallet.Provider = (*Wallet)(nil)
