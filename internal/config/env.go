package config

// EnvExchangeRateAPIKey keeps the provider key out of config files.
const EnvExchangeRateAPIKey = "EXCHANGERATE_API_KEY"

func parseEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := getenv(EnvExchangeRateAPIKey); v != "" {
		cfg.ExchangeRateAPIKey = v
	}
}
