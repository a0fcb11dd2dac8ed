package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Token describes one tracked ERC-20 token.
type Token struct {
	// Symbol is the display symbol of the token, e.g., "CRV".
	Symbol string `mapstructure:"symbol"`
	// Contract is the token's contract address, encoded in hex.
	Contract string `mapstructure:"contract"`
	// USDPrice is the price used to express flows in USD terms.
	USDPrice float64 `mapstructure:"usd_price"`
}

// Config holds all settings for a fetch or analyze run.
type Config struct {
	// APIURL is the base URL of the Etherscan-compatible API.
	APIURL string `mapstructure:"api_url"`
	// APIKey authenticates calls against the API.
	APIKey string `mapstructure:"api_key"`
	// Wallet is the tracked wallet address, encoded in hex.
	Wallet string `mapstructure:"wallet"`

	// PageSize is the number of transfers requested per API page.
	PageSize int `mapstructure:"page_size"`
	// RateLimitMS is the pause between page requests, in milliseconds.
	RateLimitMS int `mapstructure:"rate_limit_ms"`
	// MaxRetries bounds the attempts made for a single page request.
	MaxRetries int `mapstructure:"max_retries"`

	// TopCounterparties is the number of counterparties shown in the report.
	TopCounterparties int `mapstructure:"top_counterparties"`
	// MinSankeyUSD drops flows below this USD value from the Sankey chart.
	MinSankeyUSD float64 `mapstructure:"min_sankey_usd"`

	// Tokens are the tokens whose transfer history is fetched and analyzed.
	Tokens []Token `mapstructure:"tokens"`
}

// Load reads and validates the configuration file at the given path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("page_size", 1000)
	v.SetDefault("rate_limit_ms", 200)
	v.SetDefault("max_retries", 5)
	v.SetDefault("top_counterparties", 15)
	v.SetDefault("min_sankey_usd", 100)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url must be set")
	}

	if strings.TrimSpace(c.Wallet) == "" {
		return errors.New("wallet must be set")
	}

	if len(c.Tokens) == 0 {
		return errors.New("at least one token must be configured")
	}

	for i, token := range c.Tokens {
		if strings.TrimSpace(token.Contract) == "" {
			return fmt.Errorf("token at index %d ('%s') is missing a contract address", i, token.Symbol)
		}
		if strings.TrimSpace(token.Symbol) == "" {
			return fmt.Errorf("token at index %d ('%s') is missing a symbol", i, token.Contract)
		}
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive; got %d", c.PageSize)
	}

	return nil
}

// RateInterval returns the pause between page requests as a duration.
func (c *Config) RateInterval() time.Duration {
	return time.Duration(c.RateLimitMS) * time.Millisecond
}

// USDPrices returns the configured token prices keyed by symbol.
func (c *Config) USDPrices() map[string]float64 {
	prices := make(map[string]float64, len(c.Tokens))
	for _, token := range c.Tokens {
		prices[token.Symbol] = token.USDPrice
	}

	return prices
}
