// Package config loads console settings from flags, environment, or a config
// file, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the console's tunables.
type Config struct {
	// Fee ratio applied to pools created from the console.
	FeeNumerator   uint64
	FeeDenominator uint64

	// Hex address receiving swap fees for console-created pools.
	FeeRecipient string

	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SENDSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("fee-numerator", uint64(3))
	v.SetDefault("fee-denominator", uint64(1000))
	v.SetDefault("fee-recipient", "0x000000000000000000000000000000000000fee5")
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
		v.SetConfigName("console")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		FeeNumerator:   v.GetUint64("fee-numerator"),
		FeeDenominator: v.GetUint64("fee-denominator"),
		FeeRecipient:   v.GetString("fee-recipient"),
		LogLevel:       v.GetString("log-level"),
	}
	if cfg.FeeDenominator == 0 || cfg.FeeNumerator >= cfg.FeeDenominator {
		return Config{}, fmt.Errorf("invalid fee ratio %d/%d", cfg.FeeNumerator, cfg.FeeDenominator)
	}
	return cfg, nil
}
