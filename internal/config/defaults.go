package config

// DefaultConfig returns the configuration used when no file or environment
// overrides are present. Backends ship disabled; enabling one requires an
// API key anyway.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"openrouter": {
				Type:              "openrouter",
				Model:             "anthropic/claude-3.5-sonnet",
				APIKey:            "${OPENROUTER_API_KEY}",
				RequestsPerMinute: 150,
				Enabled:           false,
			},
			"openai": {
				Type:              "openai",
				Model:             "gpt-4o-mini",
				APIKey:            "${OPENAI_API_KEY}",
				RequestsPerMinute: 150,
				Enabled:           false,
			},
		},
		Defaults: Defaults{
			Provider:    "openrouter",
			Strategy:    "reflect",
			MaxRetries:  3,
			Temperature: 0.2,
		},
	}
}
