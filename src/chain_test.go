package main

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	testWETH        = common.HexToAddress(defaultWETH)
	testCToken      = common.HexToAddress(defaultCompoundCToken)
	testLendingPool = common.HexToAddress(defaultAaveLendingPool)
	testAToken      = common.HexToAddress("0x030bA81f1c18d280636F32af80b9AAd02Cf0854e")
	testTime        = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

type fakeResponse struct {
	out []byte
	err error
}

// fakeCaller answers eth_call by contract address.
type fakeCaller struct {
	mu        sync.Mutex
	responses map[common.Address]fakeResponse
	calls     []ethereum.CallMsg
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{responses: make(map[common.Address]fakeResponse)}
}

func (f *fakeCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)

	resp, ok := f.responses[*call.To]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return resp.out, resp.err
}

func (f *fakeCaller) setSupplyRate(t *testing.T, rate *big.Int) {
	t.Helper()
	out, err := cTokenABI.Methods["supplyRatePerBlock"].Outputs.Pack(rate)
	require.NoError(t, err)
	f.responses[testCToken] = fakeResponse{out: out}
}

func (f *fakeCaller) setReserveData(t *testing.T, data ReserveData) {
	t.Helper()
	out, err := lendingPoolABI.Methods["getReserveData"].Outputs.Pack(data)
	require.NoError(t, err)
	f.responses[testLendingPool] = fakeResponse{out: out}
}

func (f *fakeCaller) setError(addr common.Address, err error) {
	f.responses[addr] = fakeResponse{err: err}
}

func wethReserve(liquidityRate *big.Int) ReserveData {
	return ReserveData{
		Configuration:               reserveConfiguration{Data: big.NewInt(0)},
		LiquidityIndex:              big.NewInt(1),
		VariableBorrowIndex:         big.NewInt(1),
		CurrentLiquidityRate:        liquidityRate,
		CurrentVariableBorrowRate:   big.NewInt(0),
		CurrentStableBorrowRate:     big.NewInt(0),
		LastUpdateTimestamp:         big.NewInt(testTime.Unix()),
		ATokenAddress:               testAToken,
		StableDebtTokenAddress:      common.Address{},
		VariableDebtTokenAddress:    common.Address{},
		InterestRateStrategyAddress: common.Address{},
		Id:                          3,
	}
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
