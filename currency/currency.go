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

package currency

import (
	"math"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// XLM represents the native currency of the ledger.
	XLM              = "XLM"
	stroop           = 1e7 // stroops per lumen, the base unit used on the ledger.
	xlmPlacesToRound = 7

	// MaxBasisPoints is the basis point value of 100 percent.
	MaxBasisPoints = 10000
)

var xlmMultiplier = decimal.NewFromFloat(stroop)

// Parser converts between the decimal string representation of an amount and
// its integer representation in the base unit of the ledger.
type Parser struct {
	multiplier    decimal.Decimal
	placesToRound int32
}

// NewParser returns the parser for XLM amounts.
func NewParser() Parser {
	return Parser{multiplier: xlmMultiplier, placesToRound: xlmPlacesToRound}
}

// Parse parses the given currency string in XLM, converts it to stroops and returns a
// big.Int representation of the value.
// Values with more than 7 decimal places cannot be expressed in stroops and
// are rejected.
func (p Parser) Parse(input string) (*big.Int, error) {
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return nil, errors.Wrap(err, "invalid decimal string")
	}
	return p.ToBaseUnit(amount)
}

// ToBaseUnit converts an amount in XLM to stroops. Non-zero amounts smaller
// than one stroop and amounts that are not a whole number of stroops are
// rejected.
func (p Parser) ToBaseUnit(amount decimal.Decimal) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, errors.New("amount should not be negative")
	}
	amountBaseUnit := amount.Mul(p.multiplier)
	if !amount.IsZero() && amountBaseUnit.LessThan(decimal.NewFromInt(1)) {
		return nil, errors.New("amount is too small, should be larger than 1e-7")
	}
	if !amountBaseUnit.Equal(amountBaseUnit.Truncate(0)) {
		return nil, errors.Errorf("amount %s has more than %d decimal places", amount, p.placesToRound)
	}
	return amountBaseUnit.BigInt(), nil
}

// FromBaseUnit converts an amount in stroops to XLM.
func (p Parser) FromBaseUnit(input *big.Int) decimal.Decimal {
	if input == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(input, 0).Div(p.multiplier)
}

// Print converts the input in stroops to XLM and returns a string representation of it.
// The returned string is rounded off to 7 decimal places.
func (p Parser) Print(input *big.Int) string {
	return p.FromBaseUnit(input).StringFixedBank(p.placesToRound)
}

// ToBasisPoints converts a percentage in [0,100] to basis points
// (percentage x 100, floored).
func ToBasisPoints(pct float64) (uint32, error) {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return 0, errors.Errorf("percentage %v out of range [0,100]", pct)
	}
	bp := decimal.NewFromFloat(pct).Mul(decimal.NewFromInt(100)).Floor()
	return uint32(bp.IntPart()), nil
}

// FromBasisPoints converts basis points to a percentage.
func FromBasisPoints(bp uint32) float64 {
	pct, _ := decimal.NewFromInt(int64(bp)).Div(decimal.NewFromInt(100)).Float64()
	return pct
}
