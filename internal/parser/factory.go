package parser

import (
	"fmt"

	"mediabrief/internal/config"
	"mediabrief/internal/port"
)

// ProviderFactory creates a ModelProvider from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.ModelProvider, error)

// registry of provider factories, populated via RegisterProvider (see parser/providers).
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider creates a ModelProvider from a provider config using the registered factory.
func NewProvider(cfg *config.ParserProviderConfig) (port.ModelProvider, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewChain builds the provider chain. A single provider is returned as-is;
// more than one is wrapped in a FallbackProvider.
func NewChain(cfgs []*config.ParserProviderConfig) (port.ModelProvider, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no parser providers configured")
	}
	chain := make([]port.ModelProvider, 0, len(cfgs))
	for _, cfg := range cfgs {
		p, err := NewProvider(cfg)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
	}
	if len(chain) == 1 {
		return chain[0], nil
	}
	return NewFallbackProvider(chain), nil
}
