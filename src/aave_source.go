package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"yield_aggregator/src/apy"
)

type AaveSource struct {
	caller      ethereum.ContractCaller
	LendingPool common.Address
	Asset       common.Address
	Timeout     time.Duration
	now         func() time.Time
}

func NewAaveSource(caller ethereum.ContractCaller, lendingPool, asset common.Address) *AaveSource {
	return &AaveSource{
		caller:      caller,
		LendingPool: lendingPool,
		Asset:       asset,
		Timeout:     10 * time.Second,
		now:         time.Now,
	}
}

// FetchRate reads the asset's reserve data from the lending pool. An asset
// without a reserve comes back zeroed, so the snapshot carries a zero
// Reserve and the calculator rejects it.
func (s *AaveSource) FetchRate(ctx context.Context) (RateSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	out, err := callContract(ctx, s.caller, s.LendingPool, lendingPoolABI, "getReserveData", s.Asset)
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("%w: aave reserve data: %w", ErrFetch, err)
	}

	reserve, err := convertReserveData(out[0])
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return RateSnapshot{
		Venue:     apy.VenueAave,
		Asset:     s.Asset,
		Reserve:   reserve.ATokenAddress,
		Rate:      reserve.CurrentLiquidityRate,
		FetchedAt: s.now(),
	}, nil
}

// convertReserveData copies the decoded tuple into ReserveData. ConvertType
// panics on a shape mismatch, which here means the ABI and struct drifted.
func convertReserveData(v interface{}) (data ReserveData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoding reserve data: %v", r)
		}
	}()
	return *abi.ConvertType(v, new(ReserveData)).(*ReserveData), nil
}
