// Package apy converts lending-market rate snapshots into annualized yields
// expressed in one fixed-point base, so yields from different venues can be
// compared directly.
package apy

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// WadDecimals is the exponent of the canonical yield base.
const WadDecimals = 18

var (
	wad = uint256.NewInt(1e18)
	// ray / rayToWad == wad
	rayToWad = uint256.NewInt(1e9)
	ray      = new(uint256.Int).Mul(wad, rayToWad)
)

// Yield is an annualized yield stored as a wad fraction: 1e18 is 100%.
// The zero value is a 0% yield.
type Yield struct {
	v uint256.Int
}

// YieldFromWad builds a Yield from a non-negative wad-scaled integer.
func YieldFromWad(w *big.Int) (Yield, error) {
	v, err := toUint256(w)
	if err != nil {
		return Yield{}, err
	}
	return Yield{v: *v}, nil
}

// ParseWad restores a Yield from the decimal string produced by WadString.
func ParseWad(s string) (Yield, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Yield{}, fmt.Errorf("parsing wad %q: %w", s, ErrInvalidInput)
	}
	return YieldFromWad(b)
}

// Wad returns the raw fixed-point value.
func (y Yield) Wad() *big.Int {
	return y.v.ToBig()
}

// WadString returns the raw fixed-point value in base 10.
func (y Yield) WadString() string {
	return y.Wad().String()
}

// Cmp compares two yields and returns -1, 0 or +1.
func (y Yield) Cmp(other Yield) int {
	return y.v.Cmp(&other.v)
}

func (y Yield) IsZero() bool {
	return y.v.IsZero()
}

// Decimal returns the yield as a fraction, e.g. 0.02 for 2%.
func (y Yield) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(y.Wad(), -WadDecimals)
}

// Percent returns the yield in percent, e.g. 2 for 2%.
func (y Yield) Percent() decimal.Decimal {
	return y.Decimal().Shift(2)
}

// BasisPoints returns the yield in basis points, truncated.
func (y Yield) BasisPoints() int64 {
	return y.Decimal().Shift(4).Truncate(0).IntPart()
}

// String formats the yield as a percentage with two decimals.
func (y Yield) String() string {
	return y.Percent().StringFixed(2) + "%"
}

// toUint256 rejects nil and negative inputs and values wider than 256 bits.
func toUint256(b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return nil, fmt.Errorf("nil rate: %w", ErrInvalidInput)
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative rate %s: %w", b, ErrInvalidInput)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("rate %s exceeds 256 bits: %w", b, ErrArithmeticOverflow)
	}
	return v, nil
}
