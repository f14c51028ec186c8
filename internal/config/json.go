package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/valutatrade/internal/flagx"
	"github.com/dmitrijs2005/valutatrade/internal/timex"
	"github.com/shopspring/decimal"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so a file may say "300s" or 300. Zero values mean "not set"
// and leave the current Config value in place.
type JsonConfig struct {
	DataDir        string `json:"data_dir"`
	Storage        string `json:"storage"`
	SQLiteFile     string `json:"sqlite_file"`
	UsersFile      string `json:"users_file"`
	PortfoliosFile string `json:"portfolios_file"`
	RatesFile      string `json:"rates_file"`
	HistoryFile    string `json:"exchange_rates_file"`
	HistoryLimit   int    `json:"history_limit"`

	DefaultBaseCurrency string                     `json:"default_base_currency"`
	SupportedCurrencies []string                   `json:"supported_currencies"`
	RatesTTL            *timex.Duration            `json:"rates_ttl"`
	DefaultRates        map[string]decimal.Decimal `json:"default_exchange_rates"`
	PasswordMinLength   int                        `json:"password_min_length"`

	LogDir   string `json:"log_dir"`
	LogLevel string `json:"log_level"`

	CoinGeckoURL       string            `json:"coingecko_url"`
	ExchangeRateAPIURL string            `json:"exchangerate_api_url"`
	ExchangeRateAPIKey string            `json:"exchangerate_api_key"`
	RequestTimeout     *timex.Duration   `json:"request_timeout"`
	CryptoIDs          map[string]string `json:"crypto_id_map"`
	RefreshInterval    *timex.Duration   `json:"refresh_interval"`
}

// parseJson overlays cfg with the file named by -c/-config in args, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.Storage, jc.Storage)
	setString(&cfg.SQLiteFile, jc.SQLiteFile)
	setString(&cfg.UsersFile, jc.UsersFile)
	setString(&cfg.PortfoliosFile, jc.PortfoliosFile)
	setString(&cfg.RatesFile, jc.RatesFile)
	setString(&cfg.HistoryFile, jc.HistoryFile)
	setString(&cfg.DefaultBaseCurrency, jc.DefaultBaseCurrency)
	setString(&cfg.LogDir, jc.LogDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.CoinGeckoURL, jc.CoinGeckoURL)
	setString(&cfg.ExchangeRateAPIURL, jc.ExchangeRateAPIURL)
	setString(&cfg.ExchangeRateAPIKey, jc.ExchangeRateAPIKey)

	if jc.HistoryLimit != 0 {
		cfg.HistoryLimit = jc.HistoryLimit
	}
	if jc.PasswordMinLength != 0 {
		cfg.PasswordMinLength = jc.PasswordMinLength
	}
	if len(jc.SupportedCurrencies) > 0 {
		cfg.SupportedCurrencies = jc.SupportedCurrencies
	}
	if len(jc.DefaultRates) > 0 {
		cfg.DefaultRates = jc.DefaultRates
	}
	if len(jc.CryptoIDs) > 0 {
		cfg.CryptoIDs = jc.CryptoIDs
	}
	if jc.RatesTTL != nil {
		cfg.RatesTTL = jc.RatesTTL.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshInterval != nil {
		cfg.RefreshInterval = jc.RefreshInterval.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
