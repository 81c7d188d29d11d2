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

package royalty

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// APIError represents the error that will be returned by the API of the node.
//
// It implements Cause() and Unwrap() methods that implements the underlying
// error, which can further be unwrapped, inspected.
//
// It also implements a customer Formatter, so that the stack trace of
// underlying error is printed when using "%+v" verb.
type apiError struct {
	category ErrorCategory
	code     ErrorCode
	err      error
	addInfo  interface{}
}

// Category returns the error category for this API Error.
func (e apiError) Category() ErrorCategory { return e.category }

// Code returns the error code for this API Error.
func (e apiError) Code() ErrorCode { return e.code }

// Message returns the error message for this API Error.
func (e apiError) Message() string { return e.err.Error() }

// AddInfo returns the additional info for this API Error.
func (e apiError) AddInfo() interface{} {
	return e.addInfo
}

// Error implement the error interface for API error.
func (e apiError) Error() string {
	return fmt.Sprintf("%s %d:%v", e.Category(), e.Code(), e.Message())
}

func (e apiError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s %d:%+v", e.Category(), e.Code(), e.err)
			return
		}
		fallthrough
	case 's':
		//nolint: errcheck,gosec	// Error of ioString need not be checked.
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

func (e apiError) Cause() error { return e.err }

func (e apiError) Unwrap() error { return e.err }

// NewAPIErr returns an APIErr with given parameters.
//
// For most use cases, call the error code specific constructor functions.
// This function is intended for use in places only where an APIErr is to be modified.
func NewAPIErr(category ErrorCategory, code ErrorCode, err error, addInfo interface{}) APIError {
	return apiError{
		category: category,
		code:     code,
		err:      err,
		addInfo:  addInfo,
	}
}

// NewAPIErrNoProvider returns an ErrNoProvider API Error. The error is
// returned when no wallet could be resolved under any known namespace.
func NewAPIErrNoProvider(err error) APIError {
	message := "resolving wallet provider: no wallet found"
	return NewAPIErr(
		WalletError,
		ErrNoProvider,
		errors.WithMessage(err, message),
		nil,
	)
}

// NewAPIErrUnsupportedProvider returns an ErrUnsupportedProvider API Error
// naming the operation missing on the wallet found under the namespace.
func NewAPIErrUnsupportedProvider(err error, namespace, operation string) APIError {
	message := fmt.Sprintf("checking wallet capabilities: wallet at %s does not support %s", namespace, operation)
	return NewAPIErr(
		WalletError,
		ErrUnsupportedProvider,
		errors.WithMessage(err, message),
		ErrInfoUnsupportedProvider{
			Namespace: namespace,
			Operation: operation,
		},
	)
}

// NewAPIErrUserRejected returns an ErrUserRejected API Error.
func NewAPIErrUserRejected(err error) APIError {
	message := "requesting wallet authorization: rejected by user"
	return NewAPIErr(
		WalletError,
		ErrUserRejected,
		errors.WithMessage(err, message),
		nil,
	)
}

// NewAPIErrNoIdentity returns an ErrNoIdentity API Error.
func NewAPIErrNoIdentity(err error) APIError {
	message := "fetching public key: wallet returned no identity"
	return NewAPIErr(
		WalletError,
		ErrNoIdentity,
		errors.WithMessage(err, message),
		nil,
	)
}

// NewAPIErrWalletCallFailed returns an ErrWalletCallFailed API Error. The
// error is returned when a wallet call fails for a reason other than the
// user declining, the step names the handshake step that failed.
func NewAPIErrWalletCallFailed(err error, step string) APIError {
	message := fmt.Sprintf("%s: wallet call failed", step)
	return NewAPIErr(
		WalletError,
		ErrWalletCallFailed,
		errors.WithMessage(err, message),
		nil,
	)
}

// NewAPIErrNotConnected returns an ErrNotConnected API Error for an account
// scoped operation called without a session.
func NewAPIErrNotConnected(operation string) APIError {
	message := fmt.Sprintf("%s requires a connected wallet, connect a wallet first", operation)
	return NewAPIErr(
		WalletError,
		ErrNotConnected,
		errors.New(message),
		ErrInfoNotConnected{
			Operation: operation,
		},
	)
}

// ArgumentName type is used enumerate valid argument names for use
// InvalidArgument error.
//
// The enumeration of valid constants should be defined in the package using
// the error constructors.
type ArgumentName string

// NewAPIErrInvalidArgument returns an ErrInvalidArgument API Error with the given
// argument name, value and the requirement it violates.
func NewAPIErrInvalidArgument(err error, name ArgumentName, value, requirement string) APIError {
	message := fmt.Sprintf("invalid value for %s: %s (%s)", name, value, requirement)
	return NewAPIErr(
		ClientError,
		ErrInvalidArgument,
		errors.WithMessage(err, message),
		ErrInfoInvalidArgument{
			Name:        string(name),
			Value:       value,
			Requirement: requirement,
		},
	)
}

// ResourceType is used to enumerate valid resource types in ResourceNotFound
// errors.
//
// The enumeration of valid constants should be defined in the package using
// the error constructors.
type ResourceType string

// NewAPIErrResourceNotFound returns an ErrResourceNotFound API Error with
// the given resource type and ID.
func NewAPIErrResourceNotFound(resourceType ResourceType, resourceID string) APIError {
	message := fmt.Sprintf("cannot find %s with ID: %s", resourceType, resourceID)
	return NewAPIErr(
		ClientError,
		ErrResourceNotFound,
		errors.New(message),
		ErrInfoResourceNotFound{
			Type: string(resourceType),
			ID:   resourceID,
		},
	)
}

// NewAPIErrRemoteCallFailed returns an ErrRemoteCallFailed API Error for the
// given operation against the ledger at ledgerURL.
func NewAPIErrRemoteCallFailed(err error, operation, ledgerURL string) APIError {
	message := fmt.Sprintf("calling %s on ledger at %s", operation, ledgerURL)
	return NewAPIErr(
		RemoteError,
		ErrRemoteCallFailed,
		errors.WithMessage(err, message),
		ErrInfoRemoteCallFailed{
			Operation: operation,
			LedgerURL: ledgerURL,
		},
	)
}

// NewAPIErrAccountNotFound returns an ErrAccountNotFound API Error. The ledger
// reports unfunded accounts as not found.
func NewAPIErrAccountNotFound(err error, address string) APIError {
	message := fmt.Sprintf("account %s not found, fund the account first", address)
	return NewAPIErr(
		RemoteError,
		ErrAccountNotFound,
		errors.WithMessage(err, message),
		ErrInfoAccountNotFound{
			Address: address,
		},
	)
}

// NewAPIErrUnknownInternal returns an ErrUnknownInternal API Error with the given
// error message.
func NewAPIErrUnknownInternal(err error) APIError {
	message := "unknown internal error"
	return NewAPIErr(
		InternalError,
		ErrUnknownInternal,
		errors.WithMessage(err, message),
		nil,
	)
}

// APIErrAsMap returns a map containing entries for the method and each of
// the fields in the api error (except message). The map can be directly passed
// to the logger for logging the data in a structured format.
func APIErrAsMap(method string, err APIError) map[string]interface{} {
	return map[string]interface{}{
		"method":   method,
		"category": err.Category().String(),
		"code":     err.Code(),
	}
}
