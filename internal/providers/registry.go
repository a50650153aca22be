package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds the configured generation backends. It supports
// config-driven instantiation, hot reload, and thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	logger     *slog.Logger
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a backend by name.
func (r *Registry) Register(name string, gen Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
	r.logger.Info("registered generation backend", "name", name, "type", gen.Name())
}

// Get returns a backend by name.
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generation backend not found: %s", name)
	}
	return gen, nil
}

// List returns all registered backend names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	return names
}

// GeneratorConfig describes one backend to instantiate from configuration.
type GeneratorConfig struct {
	Type              string // "openrouter" or "openai"
	Model             string
	APIKey            string // resolved, not a ${VAR} reference
	BaseURL           string
	RequestsPerMinute int
	Enabled           bool
}

// RegistryConfig defines the backends to instantiate from config.
type RegistryConfig struct {
	Generators map[string]GeneratorConfig
}

// NewRegistryFromConfig creates a registry from configuration. Only enabled
// backends with an API key are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	for name, genCfg := range cfg.Generators {
		if !genCfg.Enabled || genCfg.APIKey == "" {
			continue
		}
		gen := createGenerator(genCfg)
		if gen == nil {
			r.logger.Warn("skipping backend with unknown type", "name", name, "type", genCfg.Type)
			continue
		}
		r.generators[name] = gen
	}
	return r
}

// Reload replaces the registry contents from new configuration. Backends no
// longer configured are dropped.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]Generator, len(cfg.Generators))
	for name, genCfg := range cfg.Generators {
		if !genCfg.Enabled || genCfg.APIKey == "" {
			continue
		}
		if gen := createGenerator(genCfg); gen != nil {
			next[name] = gen
		}
	}

	for name := range r.generators {
		if _, ok := next[name]; !ok {
			r.logger.Info("unregistered generation backend", "name", name)
		}
	}
	for name := range next {
		if _, ok := r.generators[name]; !ok {
			r.logger.Info("registered generation backend", "name", name)
		}
	}
	r.generators = next
}

func createGenerator(cfg GeneratorConfig) Generator {
	switch cfg.Type {
	case OpenRouterName:
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			DefaultModel:      cfg.Model,
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
	case OpenAIName:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			DefaultModel:      cfg.Model,
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
	default:
		return nil
	}
}
