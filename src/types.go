package main

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"yield_aggregator/src/apy"
)

// RateSnapshot is one rate read from a lending market. It is not modified
// after the fetch that produced it.
type RateSnapshot struct {
	Venue apy.Venue
	// Asset is the underlying token the rate applies to.
	Asset common.Address
	// Reserve is the market contract holding the asset: the cToken for
	// Compound, the aToken reported by the lending pool for Aave.
	Reserve   common.Address
	Rate      *big.Int
	FetchedAt time.Time
}

// Check is the result of one fetch-compute-select round.
type Check struct {
	Compound  RateSnapshot
	Aave      RateSnapshot
	Decision  apy.Decision
	CheckedAt time.Time
}
