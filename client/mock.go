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
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/royalty-labs/royalty-node"
)

// DemoCreator is the creator of offline works when no session exists.
const DemoCreator = "GBZXN7PIRZGNMHGA7MUUUF4GWPY5AYPV6LY4UV2GL6VJGIQRXFDNMADI"

// firstSimulatedID is the ID after which simulated writes are numbered, so
// they do not collide with the IDs of the offline works.
const firstSimulatedID = 1000

var (
	mockEpoch     = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	mockWorkTypes = [...]royalty.WorkType{
		royalty.WorkTypeImage, royalty.WorkTypeMusic, royalty.WorkTypeVideo, royalty.WorkTypeText,
	}

	mockStats = royalty.RoyaltyStats{
		TotalWorks:    5,
		TotalLicenses: 12,
		TotalPayments: 15,
		TotalRevenue:  decimal.RequireFromString("0.25"),
		TotalEarned:   decimal.RequireFromString("0.08"),
		Pending:       decimal.RequireFromString("0.02"),
		WorksCount:    3,
	}

	mockRoyaltyConfig = royalty.RoyaltyConfig{
		PrimaryPct:    10,
		SecondaryPct:  5,
		StreamingRate: decimal.RequireFromString("0.001"),
		MinFee:        decimal.RequireFromString("0.01"),
	}

	mockCreatorWorks = []uint64{1, 2, 3}

	// mockAccountBalance is the balance of a newly funded test account.
	mockAccountBalance = decimal.NewFromInt(10000)

	demoCatalog = []royalty.Work{
		{
			WorkID: 1, Title: "Digital Landscape Painting", Description: "A serene landscape with mountains and a lake",
			Creator: DemoCreator, ContentHash: "https://example.com/works/1", WorkType: royalty.WorkTypeImage,
			RoyaltyPercentage: 10, CreationTime: mockEpoch, IsActive: true,
		},
		{
			WorkID: 2, Title: "Electronic Music Track", Description: "Upbeat electronic dance music track",
			Creator: DemoCreator, ContentHash: "https://example.com/works/2", WorkType: royalty.WorkTypeMusic,
			RoyaltyPercentage: 15, CreationTime: mockEpoch, IsActive: true,
		},
		{
			WorkID: 3, Title: "Short Story Collection", Description: "A collection of sci-fi short stories",
			Creator: DemoCreator, ContentHash: "https://example.com/works/3", WorkType: royalty.WorkTypeText,
			RoyaltyPercentage: 8, CreationTime: mockEpoch, IsActive: true,
		},
	}
)

// mockLedger serves the answers given while the ledger is not reachable.
// Reads are deterministic, writes succeed after a delay with increasing IDs.
type mockLedger struct {
	latency time.Duration
	lastID  uint64
}

func newMockLedger(latency time.Duration) *mockLedger {
	return &mockLedger{latency: latency, lastID: firstSimulatedID}
}

func (m *mockLedger) write(ctx context.Context) (uint64, royalty.APIError) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return 0, royalty.NewAPIErrUnknownInternal(errors.Wrap(ctx.Err(), "simulating write"))
		}
	}
	return atomic.AddUint64(&m.lastID, 1), nil
}

func (m *mockLedger) work(id uint64, creator string) royalty.Work {
	if creator == "" {
		creator = DemoCreator
	}
	return royalty.Work{
		WorkID:            id,
		Title:             fmt.Sprintf("Work #%d", id),
		Description:       "This is a sample work description from the ledger.",
		Creator:           creator,
		ContentHash:       fmt.Sprintf("https://example.com/works/%d", id),
		WorkType:          mockWorkTypes[id%uint64(len(mockWorkTypes))],
		RoyaltyPercentage: mockRoyaltyConfig.PrimaryPct,
		CreationTime:      mockEpoch,
		IsActive:          true,
		LicenseCount:      uint32(id % 5),
	}
}

func (m *mockLedger) creatorWorks() []uint64 {
	return append([]uint64(nil), mockCreatorWorks...)
}

func (m *mockLedger) royaltyConfig() royalty.RoyaltyConfig { return mockRoyaltyConfig }

func (m *mockLedger) stats() royalty.RoyaltyStats { return mockStats }

func (m *mockLedger) account(address string) royalty.AccountInfo {
	return royalty.AccountInfo{AccountID: address, Balance: mockAccountBalance}
}

// searchWorks matches query case-insensitively against title, description
// and creator.
func searchWorks(works []royalty.Work, query string) []royalty.Work {
	query = strings.ToLower(query)
	results := []royalty.Work{}
	for _, w := range works {
		if strings.Contains(strings.ToLower(w.Title), query) ||
			strings.Contains(strings.ToLower(w.Description), query) ||
			strings.Contains(strings.ToLower(w.Creator), query) {
			results = append(results, w)
		}
	}
	return results
}
