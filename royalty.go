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
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ConnectionState describes the reachability of the remote ledger as seen by
// the node. It is owned by the connection manager, every other component only
// reads snapshots of it.
type ConnectionState int

// Enumeration of connection states.
const (
	Connecting ConnectionState = iota
	Live
	Offline
)

// String implements the stringer interface for ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Live:
		return "live"
	case Offline:
		return "offline"
	}
	return "unknown"
}

// MarshalText encodes the state using its string representation.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// WorkType is the kind of content of a registered work.
type WorkType string

// Enumeration of work types.
const (
	WorkTypeImage WorkType = "image"
	WorkTypeMusic WorkType = "music"
	WorkTypeVideo WorkType = "video"
	WorkTypeText  WorkType = "text"
	WorkTypeOther WorkType = "other"
)

// IsValid reports if the work type is one of the known types.
func (w WorkType) IsValid() bool {
	switch w {
	case WorkTypeImage, WorkTypeMusic, WorkTypeVideo, WorkTypeText, WorkTypeOther:
		return true
	}
	return false
}

// LicenseType is the kind of usage grant purchased for a work.
type LicenseType string

// Enumeration of license types.
const (
	LicenseStandard   LicenseType = "standard"
	LicenseCommercial LicenseType = "commercial"
	LicensePersonal   LicenseType = "personal"
	LicenseLimited    LicenseType = "limited"
)

// IsValid reports if the license type is one of the known types.
func (l LicenseType) IsValid() bool {
	switch l {
	case LicenseStandard, LicenseCommercial, LicensePersonal, LicenseLimited:
		return true
	}
	return false
}

type (
	// Session is the identity obtained from a connected wallet. It is valid
	// until the wallet disconnects or the account changes.
	Session struct {
		PublicKey   string    `json:"publicKey"`
		ConnectedAt time.Time `json:"connectedAt"`
	}

	// Work is a registered creative asset with royalty terms. Once confirmed
	// by the ledger it is never modified by the node.
	Work struct {
		WorkID            uint64    `json:"workId"`
		Title             string    `json:"title"`
		Description       string    `json:"description"`
		Creator           string    `json:"creator"`
		ContentHash       string    `json:"contentHash"`
		WorkType          WorkType  `json:"workType"`
		RoyaltyPercentage float64   `json:"royaltyPercentage"`
		CreationTime      time.Time `json:"creationTime"`
		IsActive          bool      `json:"isActive"`
		LicenseCount      uint32    `json:"licenseCount"`
	}

	// License is a purchased usage grant against a work. DurationSeconds of
	// zero denotes a perpetual license.
	License struct {
		LicenseID       uint64          `json:"licenseId"`
		WorkID          uint64          `json:"workId"`
		Licensee        string          `json:"licensee"`
		Amount          decimal.Decimal `json:"amount"`
		LicenseType     LicenseType     `json:"licenseType"`
		DurationSeconds uint64          `json:"durationSeconds"`
		PurchasedAt     time.Time       `json:"purchasedAt"`
	}

	// RoyaltyConfig holds the royalty terms of a work. Percentages are in the
	// range [0,100], amounts are in XLM.
	RoyaltyConfig struct {
		PrimaryPct    float64         `json:"primaryPct"`
		SecondaryPct  float64         `json:"secondaryPct"`
		StreamingRate decimal.Decimal `json:"streamingRate"`
		MinFee        decimal.Decimal `json:"minFee"`
	}

	// RoyaltyStats is a read-only aggregate snapshot computed by the ledger.
	// It carries the ledger wide totals and the creator dashboard figures.
	RoyaltyStats struct {
		TotalWorks    uint64          `json:"totalWorks"`
		TotalLicenses uint64          `json:"totalLicenses"`
		TotalPayments uint64          `json:"totalPayments"`
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`

		TotalEarned decimal.Decimal `json:"totalEarned"`
		Pending     decimal.Decimal `json:"pending"`
		WorksCount  uint64          `json:"worksCount"`
	}

	// AccountInfo describes a ledger account.
	AccountInfo struct {
		AccountID string          `json:"accountId"`
		Sequence  uint64          `json:"sequence"`
		Balance   decimal.Decimal `json:"balance"`
	}

	// RegisterWorkParams are the inputs for registering a work.
	RegisterWorkParams struct {
		Title         string          `json:"title"`
		Description   string          `json:"description"`
		WorkType      WorkType        `json:"workType"`
		ContentHash   string          `json:"contentHash"`
		PrimaryPct    float64         `json:"primaryPct"`
		SecondaryPct  float64         `json:"secondaryPct"`
		StreamingRate decimal.Decimal `json:"streamingRate"`
		MinFee        decimal.Decimal `json:"minFee"`
	}

	// PurchaseLicenseParams are the inputs for purchasing a license.
	PurchaseLicenseParams struct {
		WorkID          uint64          `json:"workId"`
		LicenseType     LicenseType     `json:"licenseType"`
		DurationSeconds uint64          `json:"durationSeconds"`
		Amount          decimal.Decimal `json:"amount"`
	}

	// Invocation is an opaque contract call. The encoding of arguments is the
	// concern of the ledger gateway.
	Invocation struct {
		ContractID string        `json:"contractId"`
		Function   string        `json:"function"`
		Source     string        `json:"source,omitempty"`
		Args       []interface{} `json:"args"`
	}
)

//go:generate mockery --name LedgerBackend --output ./internal/mocks

// LedgerBackend is the connection to the remote ledger RPC endpoint.
type LedgerBackend interface {
	// Health performs a cheap liveness call against the endpoint.
	Health(ctx context.Context) error
	// GetAccount fetches an account. An account that does not exist on the
	// ledger (unfunded) is reported as blockchain.AccountNotFoundError.
	GetAccount(ctx context.Context, address string) (AccountInfo, error)
	// Invoke calls a contract function and decodes the result into result.
	// A missing contract entry is reported as blockchain.EntryNotFoundError.
	Invoke(ctx context.Context, inv Invocation, result interface{}) error
	Close() error
}

// LedgerAPI is the facade used by the view layer. Operations either return
// a result or a typed APIError; whether the result came from the remote
// ledger or from the offline data set is not visible here.
type LedgerAPI interface {
	Connect(ctx context.Context) (Session, APIError)
	Disconnect()
	AccountsChanged(accounts []string)
	Session() (Session, bool)

	RegisterWork(ctx context.Context, params RegisterWorkParams) (uint64, APIError)
	PurchaseLicense(ctx context.Context, params PurchaseLicenseParams) (uint64, APIError)
	GetCreatorWorks(ctx context.Context) ([]uint64, APIError)
	ListCreatorWorkDetails(ctx context.Context) ([]Work, APIError)
	GetWorkDetails(ctx context.Context, workID uint64) (Work, APIError)
	GetRoyaltyConfig(ctx context.Context, workID uint64) (RoyaltyConfig, APIError)
	GetRoyaltyStats(ctx context.Context) (RoyaltyStats, APIError)
	GetAccount(ctx context.Context) (AccountInfo, APIError)
	VerifyLicense(ctx context.Context, licenseID uint64) (bool, APIError)
	SearchWorks(ctx context.Context, query string) ([]Work, APIError)

	CheckBackend(ctx context.Context) ConnectionState
	GetConnectionStatus() ConnectionState
}

// Config represents the configurable parameters of a royalty node.
type Config struct {
	LogLevel string // LogLevel represents the log level for the node and all derived loggers.
	LogFile  string // LogFile represents the file to write logs. Empty string represents stdout.

	LedgerURL         string        // URL of the ledger RPC gateway.
	ContractID        string        // ID of the royalty contract.
	LedgerConnTimeout time.Duration // Timeout for a single dial to the ledger.
	LedgerCallTimeout time.Duration // Timeout for a single remote call.
	InitRetryInterval time.Duration // Interval between dial attempts during initialization.
	InitTimeout       time.Duration // Overall time allowed for initialization before going offline.
	RecheckInterval   time.Duration // Minimum time between health re-checks triggered by operations. Negative disables.
	RPCRateLimit      float64       // Remote calls per second.
	RPCBurst          int           // Burst size for remote calls.

	WalletProbeAttempts int           // Number of wallet detection attempts.
	WalletProbeInterval time.Duration // Interval between wallet detection attempts.
	KeyfilePath         string        // Optional keyfile installed as the primary wallet. Empty means none.

	SimulatedLatency time.Duration // Delay before a simulated write succeeds.
	WorkCacheSize    int           // Number of confirmed works cached.
	ListenAddr       string        // Address for the HTTP API.
}

// APIError represents the error returned by the node APIs.
//
// Along with the error message, this error type assigns to each error
// an error category that describes how the error should be handled,
// an error code that identifies specific types of error and
// additional info that contains data related to the error as key value pairs.
type APIError interface {
	Category() ErrorCategory
	Code() ErrorCode
	Message() string
	AddInfo() interface{}
	Error() string
}

// ErrorCategory represents the category of the error, which describes how the
// error should be handled by the client.
type ErrorCategory int

const (
	// WalletError is caused by the wallet provider being absent, incomplete
	// or refusing the request. The user can retry after fixing the wallet.
	WalletError ErrorCategory = iota

	// ClientError is caused by the errors in the request from the client. It
	// could be errors in arguments or errors in configuration provided by the
	// client. The remote ledger is never contacted for these.
	ClientError

	// RemoteError is caused by the remote ledger. Most remote errors are
	// recovered inside the node by serving offline data, only definitive
	// answers (such as an unfunded account) reach the client.
	RemoteError

	// InternalError is caused due to unknown internal errors.
	InternalError
)

// String implements the stringer interface for ErrorCategory.
func (c ErrorCategory) String() string {
	return [...]string{
		"Wallet",
		"Client",
		"Remote",
		"Internal",
	}[c]
}

// ErrorCode is a numeric code assigned to identify the specific type of error.
// The keys in the additional field is fixed for each error code.
type ErrorCode int

// Error code definitions.
const (
	ErrNoProvider          ErrorCode = 101
	ErrUnsupportedProvider ErrorCode = 102
	ErrUserRejected        ErrorCode = 103
	ErrNoIdentity          ErrorCode = 104
	ErrNotConnected        ErrorCode = 105
	ErrWalletCallFailed    ErrorCode = 106
	ErrInvalidArgument     ErrorCode = 201
	ErrResourceNotFound    ErrorCode = 202
	ErrRemoteCallFailed    ErrorCode = 301
	ErrAccountNotFound     ErrorCode = 302
	ErrUnknownInternal     ErrorCode = 401
)

type (
	// ErrInfoUnsupportedProvider represents the fields in the additional
	// info for ErrUnsupportedProvider.
	ErrInfoUnsupportedProvider struct {
		Namespace string
		Operation string
	}

	// ErrInfoNotConnected represents the fields in the additional info for
	// ErrNotConnected.
	ErrInfoNotConnected struct {
		Operation string
	}

	// ErrInfoInvalidArgument represents the fields in the additional info for
	// ErrInvalidArgument.
	ErrInfoInvalidArgument struct {
		Name        string
		Value       string
		Requirement string
	}

	// ErrInfoResourceNotFound represents the fields in the additional info for
	// ErrResourceNotFound.
	ErrInfoResourceNotFound struct {
		Type string
		ID   string
	}

	// ErrInfoRemoteCallFailed represents the fields in the additional info
	// for ErrRemoteCallFailed.
	ErrInfoRemoteCallFailed struct {
		Operation string
		LedgerURL string
	}

	// ErrInfoAccountNotFound represents the fields in the additional info for
	// ErrAccountNotFound.
	ErrInfoAccountNotFound struct {
		Address string
	}
)
