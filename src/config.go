package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"yield_aggregator/src/apy"
)

const (
	defaultWETH            = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	defaultCompoundCToken  = "0x4Ddc2D193948926D02f9B1fE9e1daa0718270ED5" // cETH
	defaultAaveLendingPool = "0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9" // Aave v2
	defaultCheckSchedule   = "@every 15m"
)

type Config struct {
	RPCURL             string
	RPCTimeout         time.Duration
	WETH               common.Address
	CompoundCToken     common.Address
	AaveLendingPool    common.Address
	BlocksPerDay       uint64
	DaysPerYear        uint64
	AaveMaxRatePercent uint64
	CheckSchedule      string
	DBPath             string
	TelegramToken      string
	ChatID             int64
	MetricsAddr        string
	Debug              bool
}

func loadConfig() (Config, error) {
	cfg := Config{
		RPCURL:        getEnv("ETH_RPC_URL", ""),
		CheckSchedule: getEnv("CHECK_SCHEDULE", defaultCheckSchedule),
		DBPath:        getEnv("DB_PATH", "yield.db"),
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
	}
	if cfg.RPCURL == "" {
		return Config{}, errors.New("ETH_RPC_URL is not set")
	}

	var err error
	if cfg.WETH, err = envAddress("WETH_ADDRESS", defaultWETH); err != nil {
		return Config{}, err
	}
	if cfg.CompoundCToken, err = envAddress("COMPOUND_CTOKEN", defaultCompoundCToken); err != nil {
		return Config{}, err
	}
	if cfg.AaveLendingPool, err = envAddress("AAVE_LENDING_POOL", defaultAaveLendingPool); err != nil {
		return Config{}, err
	}
	if cfg.BlocksPerDay, err = envUint("BLOCKS_PER_DAY", apy.DefaultBlocksPerDay); err != nil {
		return Config{}, err
	}
	if cfg.DaysPerYear, err = envUint("DAYS_PER_YEAR", apy.DefaultDaysPerYear); err != nil {
		return Config{}, err
	}
	if cfg.AaveMaxRatePercent, err = envUint("AAVE_MAX_RATE_PERCENT", 100); err != nil {
		return Config{}, err
	}
	if cfg.BlocksPerDay == 0 || cfg.DaysPerYear == 0 {
		return Config{}, errors.New("BLOCKS_PER_DAY and DAYS_PER_YEAR must be positive")
	}

	if cfg.RPCTimeout, err = time.ParseDuration(getEnv("RPC_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("parsing RPC_TIMEOUT: %w", err)
	}

	if chatIDStr := getEnv("CHAT_ID", ""); chatIDStr != "" {
		if cfg.ChatID, err = strconv.ParseInt(chatIDStr, 10, 64); err != nil {
			return Config{}, fmt.Errorf("parsing CHAT_ID: %w", err)
		}
	}

	if cfg.Debug, err = strconv.ParseBool(getEnv("DEBUG", "false")); err != nil {
		return Config{}, fmt.Errorf("parsing DEBUG: %w", err)
	}

	return cfg, nil
}

func envAddress(key, defaultValue string) (common.Address, error) {
	value := getEnv(key, defaultValue)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a hex address: %q", key, value)
	}
	return common.HexToAddress(value), nil
}

func envUint(key string, defaultValue uint64) (uint64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

// getEnv retrieves the value of the environment variable named by the key.
// It returns the value, which will be empty if the variable is not present.
// If the variable is not present and a default value is given, it returns the default value.
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}
