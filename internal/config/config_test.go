package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	for name, p := range cfg.Providers {
		if p.Enabled {
			t.Fatalf("default provider %q ships enabled", name)
		}
		if p.APIKey == "" {
			t.Fatalf("default provider %q has no API key reference", name)
		}
	}

	if cfg.Defaults.Provider != "openrouter" {
		t.Fatalf("default provider = %q, want openrouter", cfg.Defaults.Provider)
	}
	if cfg.Defaults.Strategy != "reflect" {
		t.Fatalf("default strategy = %q, want reflect", cfg.Defaults.Strategy)
	}
	if cfg.Defaults.MaxRetries != 3 {
		t.Fatalf("default max retries = %d, want 3", cfg.Defaults.MaxRetries)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("EXTRACTOR_TEST_KEY", "sk-12345")

	tests := []struct {
		in   string
		want string
	}{
		{"${EXTRACTOR_TEST_KEY}", "sk-12345"},
		{"prefix-${EXTRACTOR_TEST_KEY}", "prefix-sk-12345"},
		{"literal-key", "literal-key"},
		{"${EXTRACTOR_TEST_UNSET}", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Fatalf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToRegistryConfig_ResolvesKeys(t *testing.T) {
	t.Setenv("EXTRACTOR_TEST_ROUTER_KEY", "sk-router")

	cfg := &Config{
		Providers: map[string]ProviderCfg{
			"router": {
				Type:              "openrouter",
				Model:             "some/model",
				APIKey:            "${EXTRACTOR_TEST_ROUTER_KEY}",
				RequestsPerMinute: 30,
				Enabled:           true,
			},
		},
	}

	rc := cfg.ToRegistryConfig()
	gen, ok := rc.Generators["router"]
	if !ok {
		t.Fatal("router backend missing from registry config")
	}
	if gen.APIKey != "sk-router" {
		t.Fatalf("APIKey = %q, want resolved value", gen.APIKey)
	}
	if gen.Type != "openrouter" || gen.Model != "some/model" || gen.RequestsPerMinute != 30 || !gen.Enabled {
		t.Fatalf("registry config lost fields: %+v", gen)
	}
}

func TestWriteDefault(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	cfg := mgr.Get()
	if _, ok := cfg.Providers["openrouter"]; !ok {
		t.Fatalf("written config lost openrouter provider: %+v", cfg.Providers)
	}
	if cfg.Defaults.Strategy != "reflect" {
		t.Fatalf("written config default strategy = %q, want reflect", cfg.Defaults.Strategy)
	}
}
