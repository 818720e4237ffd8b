package model

import "fmt"

// Provider identifies an external AI service whose credential is stored and
// tested independently.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Providers returns every known provider in display order.
func Providers() []Provider {
	return []Provider{ProviderGoogle, ProviderOpenAI, ProviderAnthropic}
}

// ParseProvider converts a raw identifier into a Provider.
func ParseProvider(raw string) (Provider, error) {
	for _, p := range Providers() {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", raw)
}
