package payment

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Settings carries provider configuration chosen at startup.
type Settings struct {
	Sandbox bool
	BaseURL string
}

// Constructor builds a provider from startup settings.
type Constructor func(settings Settings, logger *zap.Logger) Provider

var providers = map[string]Constructor{
	"moka": func(s Settings, l *zap.Logger) Provider { return NewMokaProvider(s, l) },
}

// NewProvider creates the provider registered under name (case-insensitive).
func NewProvider(name string, settings Settings, logger *zap.Logger) (Provider, error) {
	ctor, ok := providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, NewConfigurationError(
			"Unsupported provider '"+name+"'. Available providers: "+strings.Join(AvailableProviders(), ", "),
			nil,
		)
	}
	return ctor(settings, logger), nil
}

// AvailableProviders returns the registered provider names, sorted.
func AvailableProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
