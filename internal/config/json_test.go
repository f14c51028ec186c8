package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadConfig_NormalizesDefaultRateKeys(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"default_exchange_rates": map[string]any{"btc_usd": 60000, " Eur_usd ": 1.1},
	})

	cfg, err := LoadConfig([]string{"-c", path}, func(string) string { return "" })
	require.NoError(t, err)

	r, ok := cfg.DefaultRate("BTC", "USD")
	require.True(t, ok)
	assert.True(t, r.Equal(decimal.NewFromInt(60000)))

	r, ok = cfg.DefaultRate("eur", "usd")
	require.True(t, ok)
	assert.True(t, r.Equal(decimal.RequireFromString("1.1")))

	_, lower := cfg.DefaultRates["btc_usd"]
	assert.False(t, lower)
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"data_dir":               "/srv/vt",
		"rates_ttl":              "10m",
		"request_timeout":        3,
		"password_min_length":    8,
		"supported_currencies":   []string{"USD", "GBP"},
		"default_exchange_rates": map[string]any{"GBP_USD": 1.27},
		"crypto_id_map":          map[string]string{"BTC": "bitcoin"},
	})

	t.Run("loads from -config", func(t *testing.T) {
		var cfg Config
		cfg.LoadDefaults()

		require.NoError(t, parseJson(&cfg, []string{"-config", path}))

		assert.Equal(t, "/srv/vt", cfg.DataDir)
		assert.Equal(t, 10*time.Minute, cfg.RatesTTL)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 8, cfg.PasswordMinLength)
		assert.Equal(t, []string{"USD", "GBP"}, cfg.SupportedCurrencies)
		assert.True(t, cfg.DefaultRates["GBP_USD"].Equal(decimal.RequireFromString("1.27")))
		assert.Equal(t, "users.json", cfg.UsersFile, "unset keys keep defaults")
	})

	t.Run("flags override json", func(t *testing.T) {
		cfg, err := LoadConfig([]string{"-c", path, "-data", "/override"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "/override", cfg.DataDir)
		assert.Equal(t, 10*time.Minute, cfg.RatesTTL)
	})

	t.Run("no config flag leaves cfg untouched", func(t *testing.T) {
		cfg := Config{DataDir: "keep"}
		require.NoError(t, parseJson(&cfg, []string{"-ttl", "5"}))
		assert.Equal(t, "keep", cfg.DataDir)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

		var cfg Config
		require.Error(t, parseJson(&cfg, []string{"-c", bad}))
	})

	t.Run("missing file is an error", func(t *testing.T) {
		var cfg Config
		require.Error(t, parseJson(&cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}
