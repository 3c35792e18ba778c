package apy

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// AaveCalculator rescales Aave's annualized liquidity rate, quoted in ray
// (1e27), into the wad yield base.
type AaveCalculator struct {
	// MaxRate is the highest accepted liquidity rate, in ray.
	MaxRate *big.Int
}

// NewAaveCalculator caps liquidity rates at 100%.
func NewAaveCalculator() *AaveCalculator {
	return &AaveCalculator{MaxRate: ray.ToBig()}
}

// MaxRateFromPercent converts a percentage cap into a ray bound.
func MaxRateFromPercent(percent uint64) *big.Int {
	r := new(uint256.Int).Mul(ray, uint256.NewInt(percent))
	return r.Div(r, uint256.NewInt(100)).ToBig()
}

// ComputeAaveYield is Compute on the default calculator.
func ComputeAaveYield(currentLiquidityRate *big.Int, reserve common.Address) (Yield, error) {
	return NewAaveCalculator().Compute(currentLiquidityRate, reserve)
}

// Compute returns currentLiquidityRate / 1e9. A zero reserve address means
// the lending pool returned no reserve for the asset.
func (c *AaveCalculator) Compute(currentLiquidityRate *big.Int, reserve common.Address) (Yield, error) {
	if reserve == (common.Address{}) {
		return Yield{}, fmt.Errorf("zero reserve address: %w", ErrReserveNotFound)
	}

	rate, err := toUint256(currentLiquidityRate)
	if err != nil {
		return Yield{}, err
	}

	if c.MaxRate != nil && currentLiquidityRate.Cmp(c.MaxRate) > 0 {
		return Yield{}, fmt.Errorf("liquidity rate %s above cap %s: %w",
			currentLiquidityRate, c.MaxRate, ErrOutOfRangeRate)
	}

	return Yield{v: *rate.Div(rate, rayToWad)}, nil
}
