// Package providers wires the concrete model provider adapters into the parser registry.
package providers

import (
	"mediabrief/internal/config"
	"mediabrief/internal/parser"
	"mediabrief/internal/parser/claude"
	"mediabrief/internal/parser/gemini"
	"mediabrief/internal/parser/openai"
	"mediabrief/internal/port"
)

// RegisterAll registers every built-in provider.
func RegisterAll() {
	parser.RegisterProvider("claude", func(cfg *config.ParserProviderConfig) (port.ModelProvider, error) {
		return claude.NewProvider(cfg), nil
	})
	parser.RegisterProvider("gemini", func(cfg *config.ParserProviderConfig) (port.ModelProvider, error) {
		return gemini.NewProvider(cfg), nil
	})
	parser.RegisterProvider("openai", func(cfg *config.ParserProviderConfig) (port.ModelProvider, error) {
		return openai.NewProvider(cfg), nil
	})
}
