package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"yield_aggregator/src/apy"
)

// RateSource reads the current rate of one lending market.
type RateSource interface {
	FetchRate(ctx context.Context) (RateSnapshot, error)
}

type CompoundSource struct {
	caller  ethereum.ContractCaller
	CToken  common.Address
	Asset   common.Address
	Timeout time.Duration
	now     func() time.Time
}

func NewCompoundSource(caller ethereum.ContractCaller, cToken, asset common.Address) *CompoundSource {
	return &CompoundSource{
		caller:  caller,
		CToken:  cToken,
		Asset:   asset,
		Timeout: 10 * time.Second,
		now:     time.Now,
	}
}

// FetchRate reads supplyRatePerBlock from the cToken.
func (s *CompoundSource) FetchRate(ctx context.Context) (RateSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	out, err := callContract(ctx, s.caller, s.CToken, cTokenABI, "supplyRatePerBlock")
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("%w: compound supply rate: %w", ErrFetch, err)
	}

	rate, ok := out[0].(*big.Int)
	if !ok {
		return RateSnapshot{}, fmt.Errorf("%w: unexpected supplyRatePerBlock type %T", ErrFetch, out[0])
	}

	return RateSnapshot{
		Venue:     apy.VenueCompound,
		Asset:     s.Asset,
		Reserve:   s.CToken,
		Rate:      rate,
		FetchedAt: s.now(),
	}, nil
}
