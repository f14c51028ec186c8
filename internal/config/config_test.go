package config

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, StorageJSON, c.Storage)
	assert.Equal(t, "USD", c.DefaultBaseCurrency)
	assert.Equal(t, 300*time.Second, c.RatesTTL)
	assert.Equal(t, 4, c.PasswordMinLength)
	assert.Equal(t, 1000, c.HistoryLimit)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, []string{"USD", "EUR", "BTC", "ETH", "RUB"}, c.SupportedCurrencies)
	assert.True(t, c.DefaultRates["BTC_USD"].Equal(decimal.RequireFromString("59337.21")))
	assert.Equal(t, "bitcoin", c.CryptoIDs["BTC"])
}

func TestLoadConfig_UsesDefaultsWithoutSources(t *testing.T) {
	cfg, err := LoadConfig(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 300*time.Second, cfg.RatesTTL)
	assert.Zero(t, cfg.RefreshInterval)
}

func TestLoadConfig_EnvProvidesAPIKey(t *testing.T) {
	env := map[string]string{EnvExchangeRateAPIKey: "secret-key"}

	cfg, err := LoadConfig(nil, func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.ExchangeRateAPIKey)
}

func TestLoadConfig_InvalidStorageIsConfigurationError(t *testing.T) {
	_, err := LoadConfig([]string{"-storage", "postgres"}, nil)
	require.ErrorIs(t, err, common.ErrConfiguration)
}

func TestLoadConfig_BadFlagIsConfigurationError(t *testing.T) {
	_, err := LoadConfig([]string{"-ttl", "abc"}, nil)
	require.ErrorIs(t, err, common.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "normalizes codes", mutate: func(c *Config) { c.DefaultBaseCurrency = " eur " }},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.RatesTTL = -time.Second }, wantErr: true},
		{name: "zero password length", mutate: func(c *Config) { c.PasswordMinLength = 0 }, wantErr: true},
		{name: "zero history", mutate: func(c *Config) { c.HistoryLimit = 0 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
		{name: "non-positive default rate", mutate: func(c *Config) {
			c.DefaultRates["EUR_USD"] = decimal.Zero
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrConfiguration)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_UppercasesBase(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.DefaultBaseCurrency = " eur "
	require.NoError(t, c.Validate())
	assert.Equal(t, "EUR", c.DefaultBaseCurrency)
}

func TestHelpers(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.True(t, c.IsCurrencySupported("btc"))
	assert.False(t, c.IsCurrencySupported("XYZ"))

	r, ok := c.DefaultRate("EUR", "USD")
	require.True(t, ok)
	assert.True(t, r.Equal(decimal.RequireFromString("1.0786")))

	_, ok = c.DefaultRate("USD", "EUR")
	assert.False(t, ok, "reverse pairs are derived by the resolver, not stored")

	assert.Equal(t, "data/users.json", c.Path(c.UsersFile))
}
