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

package rest

import (
	"net/http"

	"github.com/royalty-labs/royalty-node"
)

// Error is the JSON body of every failed request.
type Error struct {
	Category string            `json:"category"`
	Code     int               `json:"code"`
	Message  string            `json:"message"`
	AddInfo  map[string]string `json:"addInfo,omitempty"`
}

// FromError converts an APIError into its JSON representation.
func FromError(err royalty.APIError) Error {
	restErr := Error{
		Category: err.Category().String(),
		Code:     int(err.Code()),
		Message:  err.Message(),
	}
	switch info := err.AddInfo().(type) {
	case royalty.ErrInfoUnsupportedProvider:
		restErr.AddInfo = map[string]string{"namespace": info.Namespace, "operation": info.Operation}
	case royalty.ErrInfoNotConnected:
		restErr.AddInfo = map[string]string{"operation": info.Operation}
	case royalty.ErrInfoInvalidArgument:
		restErr.AddInfo = map[string]string{
			"name":        info.Name,
			"value":       info.Value,
			"requirement": info.Requirement,
		}
	case royalty.ErrInfoResourceNotFound:
		restErr.AddInfo = map[string]string{"type": info.Type, "id": info.ID}
	case royalty.ErrInfoRemoteCallFailed:
		restErr.AddInfo = map[string]string{"operation": info.Operation, "ledgerURL": info.LedgerURL}
	case royalty.ErrInfoAccountNotFound:
		restErr.AddInfo = map[string]string{"address": info.Address}
	default:
		// Errors such as ErrUnknownInternal carry no additional info.
	}
	return restErr
}

// httpStatus returns the response status for an APIError.
func httpStatus(err royalty.APIError) int {
	switch err.Code() {
	case royalty.ErrUserRejected:
		return http.StatusForbidden
	case royalty.ErrResourceNotFound, royalty.ErrAccountNotFound:
		return http.StatusNotFound
	case royalty.ErrRemoteCallFailed:
		return http.StatusBadGateway
	}
	switch err.Category() {
	case royalty.WalletError:
		return http.StatusUnauthorized
	case royalty.ClientError:
		return http.StatusBadRequest
	case royalty.RemoteError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
