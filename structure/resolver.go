package structure

import "sync"

// Resolver composes the provider set for a language: built-in providers
// first, in registration order, then registry-discovered providers in
// registry order. Resolution results are cached per language; the cache is
// read-mostly and safe to share across concurrent requests.
type Resolver struct {
	mu       sync.RWMutex
	builtins map[string][]Provider
	registry Registry
	cache    map[string][]Provider
}

// NewResolver builds a resolver over an optional registry. A nil registry
// leaves only the built-in providers.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{
		builtins: make(map[string][]Provider),
		registry: registry,
		cache:    make(map[string][]Provider),
	}
}

// RegisterBuiltin appends built-in providers for a language. Registration
// order is the execution order. No deduplication: registering the same
// provider twice makes it contribute twice.
func (r *Resolver) RegisterBuiltin(languageID string, providers ...Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[languageID] = append(r.builtins[languageID], providers...)
	delete(r.cache, languageID)
}

// ResolveProviders returns the ordered provider set for a language. An empty
// slice is a valid resolution, not an error.
func (r *Resolver) ResolveProviders(languageID string) []Provider {
	r.mu.RLock()
	if cached, ok := r.cache[languageID]; ok {
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[languageID]; ok {
		return cached
	}
	resolved := make([]Provider, 0, len(r.builtins[languageID]))
	resolved = append(resolved, r.builtins[languageID]...)
	if r.registry != nil {
		resolved = append(resolved, r.registry.ProvidersForLanguage(languageID)...)
	}
	r.cache[languageID] = resolved
	return resolved
}

// Invalidate drops every cached resolution. Call after the registry reloads.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string][]Provider)
}

// Languages lists every language with at least one built-in provider.
func (r *Resolver) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.builtins))
	for lang := range r.builtins {
		langs = append(langs, lang)
	}
	return langs
}
