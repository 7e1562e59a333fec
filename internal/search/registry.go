package search

// Registry holds the registered search providers in priority order:
// the first provider is queried first, later ones are fallbacks.
type Registry struct {
	providers []Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: []Provider{}}
}

// Register appends a provider at the end of the priority order.
func (r *Registry) Register(provider Provider) {
	r.providers = append(r.providers, provider)
}

// All returns the providers in priority order.
func (r *Registry) All() []Provider {
	return r.providers
}

func (r *Registry) Count() int {
	return len(r.providers)
}
