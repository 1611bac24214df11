package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL           string
	RPCUser          string
	RPCPassword      string
	SystemID         string
	ListenAddr       string
	CacheTTL         time.Duration
	SupplyTTL        time.Duration
	BlockPoll        time.Duration
	FetchTimeout     time.Duration
	BlocksPerDay     uint64
	MinNativeReserve float64
	SymbolMapPath    string
	MaxRetries       int
	RetryBackoff     time.Duration
	LogLevel         string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Daemon credentials follow the VERUS_RPC_* convention of the
	// deployment's .env file.
	_ = v.BindEnv("rpc", "TICKER_RPC", "VERUS_RPC_URL")
	_ = v.BindEnv("rpc-user", "TICKER_RPC_USER", "VERUS_RPC_USER")
	_ = v.BindEnv("rpc-password", "TICKER_RPC_PASSWORD", "VERUS_RPC_PASSWORD")

	v.SetDefault("system-id", "VRSC")
	v.SetDefault("listen", ":8000")
	v.SetDefault("cache-ttl", 60*time.Second)
	v.SetDefault("supply-ttl", 10*time.Minute)
	v.SetDefault("block-poll", 15*time.Second)
	v.SetDefault("fetch-timeout", 30*time.Second)
	v.SetDefault("blocks-per-day", uint64(1440))
	v.SetDefault("min-native-reserve", float64(100))
	v.SetDefault("symbol-map", "./currency_mappings.json")
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:           v.GetString("rpc"),
		RPCUser:          v.GetString("rpc-user"),
		RPCPassword:      v.GetString("rpc-password"),
		SystemID:         v.GetString("system-id"),
		ListenAddr:       v.GetString("listen"),
		CacheTTL:         v.GetDuration("cache-ttl"),
		SupplyTTL:        v.GetDuration("supply-ttl"),
		BlockPoll:        v.GetDuration("block-poll"),
		FetchTimeout:     v.GetDuration("fetch-timeout"),
		BlocksPerDay:     v.GetUint64("blocks-per-day"),
		MinNativeReserve: v.GetFloat64("min-native-reserve"),
		SymbolMapPath:    v.GetString("symbol-map"),
		MaxRetries:       v.GetInt("max-retries"),
		RetryBackoff:     v.GetDuration("retry-backoff"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}
