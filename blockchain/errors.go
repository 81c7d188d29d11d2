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

package blockchain

import (
	"fmt"

	"github.com/pkg/errors"
)

// AccountNotFoundError indicates that the ledger has no entry for the
// account. Accounts that were never funded do not exist on the ledger.
type AccountNotFoundError struct {
	Address string
	err     error
}

// Error implements error interface.
func (e AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found on ledger: %v", e.Address, e.err)
}

// Unwrap returns the original error.
func (e AccountNotFoundError) Unwrap() error {
	return e.err
}

// NewAccountNotFoundError constructs and returns an AccountNotFoundError.
func NewAccountNotFoundError(address string, err error) error {
	return errors.WithStack(AccountNotFoundError{
		Address: address,
		err:     err,
	})
}

// IsAccountNotFound reports if err is or wraps an AccountNotFoundError.
func IsAccountNotFound(err error) bool {
	return errors.As(err, &AccountNotFoundError{})
}

// InvalidAddressError indicates that a string is not a valid encoded key or
// address.
type InvalidAddressError struct {
	Address string
	err     error
}

// Error implements error interface.
func (e InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %v", e.Address, e.err)
}

// Unwrap returns the original error.
func (e InvalidAddressError) Unwrap() error {
	return e.err
}

// NewInvalidAddressError constructs and returns an InvalidAddressError.
func NewInvalidAddressError(address string, err error) error {
	return errors.WithStack(InvalidAddressError{
		Address: address,
		err:     err,
	})
}

// IsInvalidAddress reports if err is or wraps an InvalidAddressError.
func IsInvalidAddress(err error) bool {
	return errors.As(err, &InvalidAddressError{})
}

// EntryNotFoundError indicates that a contract function found no entry for
// the requested key, such as an unknown work ID.
type EntryNotFoundError struct {
	Function string
	err      error
}

// Error implements error interface.
func (e EntryNotFoundError) Error() string {
	return fmt.Sprintf("%s: entry not found: %v", e.Function, e.err)
}

// Unwrap returns the original error.
func (e EntryNotFoundError) Unwrap() error {
	return e.err
}

// NewEntryNotFoundError constructs and returns an EntryNotFoundError.
func NewEntryNotFoundError(function string, err error) error {
	return errors.WithStack(EntryNotFoundError{
		Function: function,
		err:      err,
	})
}

// IsEntryNotFound reports if err is or wraps an EntryNotFoundError.
func IsEntryNotFound(err error) bool {
	return errors.As(err, &EntryNotFoundError{})
}
