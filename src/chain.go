package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrFetch marks failures reading rate state from the chain, as opposed to
// failures computing a yield from it.
var ErrFetch = errors.New("fetch failed")

var (
	cTokenABI      abi.ABI
	lendingPoolABI abi.ABI
)

func init() {
	cTokenABI = mustParseABI(cTokenABIJSON)
	lendingPoolABI = mustParseABI(lendingPoolABIJSON)
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parsing abi: %v", err))
	}
	return parsed
}

// callContract runs a read-only call against the latest block.
func callContract(ctx context.Context, caller ethereum.ContractCaller, addr common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	res, err := caller.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s on %s: %w", method, addr.Hex(), err)
	}

	unpacked, err := contractABI.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return unpacked, nil
}

type reserveConfiguration struct {
	Data *big.Int
}

// ReserveData mirrors the Aave v2 DataTypes.ReserveData struct.
type ReserveData struct {
	Configuration               reserveConfiguration
	LiquidityIndex              *big.Int
	VariableBorrowIndex         *big.Int
	CurrentLiquidityRate        *big.Int
	CurrentVariableBorrowRate   *big.Int
	CurrentStableBorrowRate     *big.Int
	LastUpdateTimestamp         *big.Int
	ATokenAddress               common.Address
	StableDebtTokenAddress      common.Address
	VariableDebtTokenAddress    common.Address
	InterestRateStrategyAddress common.Address
	Id                          uint8
}

const cTokenABIJSON = `
[
  {
    "constant": true,
    "inputs": [],
    "name": "supplyRatePerBlock",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "payable": false,
    "stateMutability": "view",
    "type": "function"
  }
]
`

const lendingPoolABIJSON = `
[
  {
    "inputs": [{"internalType": "address", "name": "asset", "type": "address"}],
    "name": "getReserveData",
    "outputs": [
      {
        "components": [
          {
            "components": [{"internalType": "uint256", "name": "data", "type": "uint256"}],
            "internalType": "struct DataTypes.ReserveConfigurationMap",
            "name": "configuration",
            "type": "tuple"
          },
          {"internalType": "uint128", "name": "liquidityIndex", "type": "uint128"},
          {"internalType": "uint128", "name": "variableBorrowIndex", "type": "uint128"},
          {"internalType": "uint128", "name": "currentLiquidityRate", "type": "uint128"},
          {"internalType": "uint128", "name": "currentVariableBorrowRate", "type": "uint128"},
          {"internalType": "uint128", "name": "currentStableBorrowRate", "type": "uint128"},
          {"internalType": "uint40", "name": "lastUpdateTimestamp", "type": "uint40"},
          {"internalType": "address", "name": "aTokenAddress", "type": "address"},
          {"internalType": "address", "name": "stableDebtTokenAddress", "type": "address"},
          {"internalType": "address", "name": "variableDebtTokenAddress", "type": "address"},
          {"internalType": "address", "name": "interestRateStrategyAddress", "type": "address"},
          {"internalType": "uint8", "name": "id", "type": "uint8"}
        ],
        "internalType": "struct DataTypes.ReserveData",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]
`
