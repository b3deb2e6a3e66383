package provider

import (
	"fmt"
	"sync"
)

var (
	// providers holds all registered Providers
	providers = make(map[string]Provider)
	mu        sync.RWMutex
)

// Register registers a Provider under name.
func Register(name string, provider Provider) {
	mu.Lock()
	defer mu.Unlock()
	if provider == nil {
		panic("provider: Register provider is nil")
	}
	if _, dup := providers[name]; dup {
		panic("provider: Register called twice for provider " + name)
	}
	providers[name] = provider
}

// GetProvider returns the Provider registered under name.
func GetProvider(name string) (Provider, error) {
	mu.RLock()
	defer mu.RUnlock()
	provider, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	return provider, nil
}

// ListProviders returns the names of all registered Providers.
func ListProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}

// UnregisterAll clears all registered Providers (for tests).
func UnregisterAll() {
	mu.Lock()
	defer mu.Unlock()
	providers = make(map[string]Provider)
}
