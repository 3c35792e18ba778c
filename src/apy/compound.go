package apy

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// DefaultBlocksPerDay assumes 13.15 second blocks.
	DefaultBlocksPerDay = 6570
	DefaultDaysPerYear  = 365
)

// CompoundCalculator compounds a Compound-style per-block supply rate into
// an annual yield. The cadence is configurable because block time differs
// between chains and protocol upgrades.
type CompoundCalculator struct {
	BlocksPerDay uint64
	DaysPerYear  uint64
}

// NewCompoundCalculator returns a calculator with the mainnet cadence.
func NewCompoundCalculator() *CompoundCalculator {
	return &CompoundCalculator{
		BlocksPerDay: DefaultBlocksPerDay,
		DaysPerYear:  DefaultDaysPerYear,
	}
}

// ComputeCompoundYield is Compute on the default calculator.
func ComputeCompoundYield(supplyRatePerBlock *big.Int) (Yield, error) {
	return NewCompoundCalculator().Compute(supplyRatePerBlock)
}

// Compute converts supplyRatePerBlock, a wad fraction earned per block, into
// ((1 + rate*blocksPerDay)^daysPerYear - 1) in wad. Every product is
// truncated toward zero, so very small rates are biased slightly down.
func (c *CompoundCalculator) Compute(supplyRatePerBlock *big.Int) (Yield, error) {
	if c.BlocksPerDay == 0 || c.DaysPerYear == 0 {
		return Yield{}, fmt.Errorf("blocks per day %d, days per year %d: %w",
			c.BlocksPerDay, c.DaysPerYear, ErrInvalidInput)
	}

	rate, err := toUint256(supplyRatePerBlock)
	if err != nil {
		return Yield{}, err
	}

	daily, overflow := new(uint256.Int).MulOverflow(rate, uint256.NewInt(c.BlocksPerDay))
	if overflow {
		return Yield{}, fmt.Errorf("daily rate: %w", ErrArithmeticOverflow)
	}

	growth, overflow := new(uint256.Int).AddOverflow(wad, daily)
	if overflow {
		return Yield{}, fmt.Errorf("daily growth factor: %w", ErrArithmeticOverflow)
	}

	annual, err := wadPow(growth, c.DaysPerYear)
	if err != nil {
		return Yield{}, err
	}

	// growth >= 1 and every step keeps the product >= 1, so no underflow.
	return Yield{v: *annual.Sub(annual, wad)}, nil
}

// wadPow raises a wad-scaled base to an integer power by squaring.
func wadPow(base *uint256.Int, exp uint64) (*uint256.Int, error) {
	result := new(uint256.Int).Set(wad)
	b := new(uint256.Int).Set(base)

	var overflow bool
	for exp > 0 {
		if exp&1 == 1 {
			if result, overflow = new(uint256.Int).MulDivOverflow(result, b, wad); overflow {
				return nil, fmt.Errorf("compounding: %w", ErrArithmeticOverflow)
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		if b, overflow = new(uint256.Int).MulDivOverflow(b, b, wad); overflow {
			return nil, fmt.Errorf("compounding: %w", ErrArithmeticOverflow)
		}
	}
	return result, nil
}
