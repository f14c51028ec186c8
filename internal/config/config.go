// Package config loads runtime configuration for ValutaTrade.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (see parseJson).
//  3. Environment: EXCHANGERATE_API_KEY (see parseEnv).
//  4. Command-line flags (see parseFlags).
//
// Later sources override earlier ones. The resulting Config is validated once
// and then passed by pointer to whatever needs it; there is no package-level
// instance.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/shopspring/decimal"
)

// Storage backends.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config holds runtime settings.
type Config struct {
	DataDir        string
	Storage        string
	SQLiteFile     string
	UsersFile      string
	PortfoliosFile string
	RatesFile      string
	HistoryFile    string
	HistoryLimit   int

	DefaultBaseCurrency string
	SupportedCurrencies []string
	RatesTTL            time.Duration
	// DefaultRates is the static fallback table, keyed "FROM_TO".
	DefaultRates      map[string]decimal.Decimal
	PasswordMinLength int

	LogDir   string
	LogLevel string

	CoinGeckoURL       string
	ExchangeRateAPIURL string
	ExchangeRateAPIKey string
	RequestTimeout     time.Duration
	// CryptoIDs maps currency codes to CoinGecko coin ids.
	CryptoIDs map[string]string
	// RefreshInterval enables background rate refresh when positive.
	RefreshInterval time.Duration
}

// LoadDefaults populates c with the stock settings.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.Storage = StorageJSON
	c.SQLiteFile = "valutatrade.db"
	c.UsersFile = "users.json"
	c.PortfoliosFile = "portfolios.json"
	c.RatesFile = "rates.json"
	c.HistoryFile = "exchange_rates.json"
	c.HistoryLimit = 1000

	c.DefaultBaseCurrency = "USD"
	c.SupportedCurrencies = []string{"USD", "EUR", "BTC", "ETH", "RUB"}
	c.RatesTTL = 300 * time.Second
	c.DefaultRates = map[string]decimal.Decimal{
		"BTC_USD": decimal.RequireFromString("59337.21"),
		"EUR_USD": decimal.RequireFromString("1.0786"),
		"RUB_USD": decimal.RequireFromString("0.01016"),
		"ETH_USD": decimal.RequireFromString("3720.00"),
		"USD_USD": decimal.NewFromInt(1),
	}
	c.PasswordMinLength = 4

	c.LogDir = "logs"
	c.LogLevel = "info"

	c.CoinGeckoURL = "https://api.coingecko.com/api/v3/simple/price"
	c.ExchangeRateAPIURL = "https://v6.exchangerate-api.com/v6"
	c.RequestTimeout = 10 * time.Second
	c.CryptoIDs = map[string]string{
		"BTC": "bitcoin",
		"ETH": "ethereum",
		"SOL": "solana",
	}
}

// LoadConfig builds a Config from defaults, the optional JSON file, the
// environment and args (usually os.Args[1:]), then validates it.
func LoadConfig(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, &common.ConfigurationError{Detail: err.Error()}
	}
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, &common.ConfigurationError{Detail: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes currency codes and rejects settings the ledger cannot
// run with.
func (c *Config) Validate() error {
	c.DefaultBaseCurrency = strings.ToUpper(strings.TrimSpace(c.DefaultBaseCurrency))
	for i, code := range c.SupportedCurrencies {
		c.SupportedCurrencies[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	rates := make(map[string]decimal.Decimal, len(c.DefaultRates))
	for pair, rate := range c.DefaultRates {
		rates[strings.ToUpper(strings.TrimSpace(pair))] = rate
	}
	c.DefaultRates = rates

	switch {
	case c.DataDir == "":
		return &common.ConfigurationError{Detail: "data dir is empty"}
	case c.Storage != StorageJSON && c.Storage != StorageSQLite:
		return &common.ConfigurationError{Detail: fmt.Sprintf("unknown storage %q", c.Storage)}
	case c.DefaultBaseCurrency == "":
		return &common.ConfigurationError{Detail: "default base currency is empty"}
	case c.RatesTTL < 0:
		return &common.ConfigurationError{Detail: "rates ttl is negative"}
	case c.PasswordMinLength < 1:
		return &common.ConfigurationError{Detail: "password min length must be positive"}
	case c.HistoryLimit < 1:
		return &common.ConfigurationError{Detail: "history limit must be positive"}
	case c.RequestTimeout <= 0:
		return &common.ConfigurationError{Detail: "request timeout must be positive"}
	}
	for pair, rate := range c.DefaultRates {
		if !rate.IsPositive() {
			return &common.ConfigurationError{Detail: fmt.Sprintf("default rate %s must be positive", pair)}
		}
	}
	return nil
}

// Path returns name resolved inside the data directory.
func (c *Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}

// IsCurrencySupported reports whether code (any case) is configured.
func (c *Config) IsCurrencySupported(code string) bool {
	return slices.Contains(c.SupportedCurrencies, strings.ToUpper(strings.TrimSpace(code)))
}

// DefaultRate looks up the static table for the exact pair, in any case.
func (c *Config) DefaultRate(from, to string) (decimal.Decimal, bool) {
	r, ok := c.DefaultRates[strings.ToUpper(strings.TrimSpace(from)+"_"+strings.TrimSpace(to))]
	return r, ok
}
