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

import "math/big"

// ContractFunction identifies a function of the royalty contract.
type ContractFunction = string

// Enumeration of the contract functions used by the node.
const (
	FnRegisterWork     ContractFunction = "register_work"
	FnPurchaseLicense  ContractFunction = "purchase_license"
	FnGetCreatorWorks  ContractFunction = "get_creator_works"
	FnGetWork          ContractFunction = "get_work"
	FnGetRoyaltyConfig ContractFunction = "get_royalty_config"
	FnGetRoyaltyStats  ContractFunction = "get_royalty_stats"
	FnVerifyLicense    ContractFunction = "verify_license"
)

// Records as returned by the contract. Percentages are in basis points,
// amounts in stroops and times in unix seconds.
type (
	// WorkRecord is the contract representation of a work.
	WorkRecord struct {
		ID           uint64 `json:"id"`
		Creator      string `json:"creator"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		ContentHash  string `json:"content_hash"`
		WorkType     string `json:"work_type"`
		CreationTime int64  `json:"creation_time"`
		IsActive     bool   `json:"is_active"`
		LicenseCount uint32 `json:"license_count"`
	}

	// RoyaltyConfigRecord is the contract representation of royalty terms.
	RoyaltyConfigRecord struct {
		PrimaryRoyaltyBps   uint32   `json:"primary_royalty_bps"`
		SecondaryRoyaltyBps uint32   `json:"secondary_royalty_bps"`
		StreamingRate       *big.Int `json:"streaming_rate"`
		MinimumLicenseFee   *big.Int `json:"minimum_license_fee"`
	}

	// RoyaltyStatsRecord is the contract representation of the aggregate
	// statistics.
	RoyaltyStatsRecord struct {
		TotalWorks    uint64   `json:"total_works"`
		TotalLicenses uint64   `json:"total_licenses"`
		TotalPayments uint64   `json:"total_payments"`
		TotalRevenue  *big.Int `json:"total_revenue"`
		TotalEarned   *big.Int `json:"total_earned"`
		Pending       *big.Int `json:"pending"`
		WorksCount    uint64   `json:"works_count"`
	}
)
