package structure

// Provider detects structural regions for one language and appends them into
// a request's Context. Implementations must be independent of each other: no
// shared mutable state beyond the context's append operation, and no
// visibility into spans contributed by other providers.
type Provider interface {
	Name() string
	ProvideBlockSpans(sc *Context) error
}

// Registry resolves dynamically discovered providers for a language. The
// returned order is registry-defined and stable; duplicates are not filtered.
// An empty result means no registered providers, which is valid.
type Registry interface {
	ProvidersForLanguage(languageID string) []Provider
}
