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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/royalty-labs/royalty-node"
	"github.com/royalty-labs/royalty-node/currency"
)

// Enumeration of valid argument names for ErrInvalidArgument.
const (
	ArgNameTitle         royalty.ArgumentName = "title"
	ArgNameWorkType      royalty.ArgumentName = "workType"
	ArgNameContentHash   royalty.ArgumentName = "contentHash"
	ArgNamePrimaryPct    royalty.ArgumentName = "primaryPct"
	ArgNameSecondaryPct  royalty.ArgumentName = "secondaryPct"
	ArgNameStreamingRate royalty.ArgumentName = "streamingRate"
	ArgNameMinFee        royalty.ArgumentName = "minFee"
	ArgNameWorkID        royalty.ArgumentName = "workId"
	ArgNameLicenseID     royalty.ArgumentName = "licenseId"
	ArgNameLicenseType   royalty.ArgumentName = "licenseType"
	ArgNameAmount        royalty.ArgumentName = "amount"
	ArgNameQuery         royalty.ArgumentName = "query"
	ArgNameAccount       royalty.ArgumentName = "account"
)

// Enumeration of valid resource types for ErrResourceNotFound.
const (
	ResTypeWork    royalty.ResourceType = "work"
	ResTypeLicense royalty.ResourceType = "license"
)

var errValidation = errors.New("validation failed")

func invalidArg(name royalty.ArgumentName, value, requirement string) royalty.APIError {
	return royalty.NewAPIErrInvalidArgument(errValidation, name, value, requirement)
}

func validateRegisterWork(p royalty.RegisterWorkParams) royalty.APIError {
	if strings.TrimSpace(p.Title) == "" {
		return invalidArg(ArgNameTitle, p.Title, "must not be empty")
	}
	if !p.WorkType.IsValid() {
		return invalidArg(ArgNameWorkType, string(p.WorkType), "must be one of image, music, video, text, other")
	}
	if apiErr := validateContentHash(p.ContentHash); apiErr != nil {
		return apiErr
	}
	if apiErr := validatePct(ArgNamePrimaryPct, p.PrimaryPct); apiErr != nil {
		return apiErr
	}
	if apiErr := validatePct(ArgNameSecondaryPct, p.SecondaryPct); apiErr != nil {
		return apiErr
	}
	if apiErr := validateNonNegative(ArgNameStreamingRate, p.StreamingRate); apiErr != nil {
		return apiErr
	}
	return validateNonNegative(ArgNameMinFee, p.MinFee)
}

func validatePurchaseLicense(p royalty.PurchaseLicenseParams) royalty.APIError {
	if apiErr := validateID(ArgNameWorkID, p.WorkID); apiErr != nil {
		return apiErr
	}
	if !p.LicenseType.IsValid() {
		return invalidArg(ArgNameLicenseType, string(p.LicenseType),
			"must be one of standard, commercial, personal, limited")
	}
	if !p.Amount.IsPositive() {
		return invalidArg(ArgNameAmount, p.Amount.String(), "must be greater than zero")
	}
	return validateNonNegative(ArgNameAmount, p.Amount)
}

func validateID(name royalty.ArgumentName, id uint64) royalty.APIError {
	if id == 0 {
		return invalidArg(name, strconv.FormatUint(id, 10), "must be greater than zero")
	}
	return nil
}

func validatePct(name royalty.ArgumentName, pct float64) royalty.APIError {
	if _, err := currency.ToBasisPoints(pct); err != nil {
		return invalidArg(name, fmt.Sprint(pct), "must be a percentage in [0,100]")
	}
	return nil
}

// validateNonNegative also rejects amounts the ledger cannot represent.
func validateNonNegative(name royalty.ArgumentName, amount decimal.Decimal) royalty.APIError {
	if amount.IsNegative() {
		return invalidArg(name, amount.String(), "must not be negative")
	}
	if _, err := currency.NewParser().ToBaseUnit(amount); err != nil {
		return invalidArg(name, amount.String(), "must be zero or a whole multiple of 0.0000001 "+currency.XLM)
	}
	return nil
}

// validateContentHash accepts a content identifier (CID) or an absolute URL.
func validateContentHash(hash string) royalty.APIError {
	const requirement = "must be a content identifier or an absolute URL"
	if hash == "" {
		return invalidArg(ArgNameContentHash, hash, requirement)
	}
	if _, err := cid.Decode(hash); err == nil {
		return nil
	}
	u, err := url.Parse(hash)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return invalidArg(ArgNameContentHash, hash, requirement)
	}
	return nil
}
