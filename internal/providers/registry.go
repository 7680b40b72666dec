package providers

import (
	"log/slog"
	"sort"

	apperrors "esgmap/internal/errors"
	"esgmap/internal/match"
)

// Registry holds the configured provider adapters by name.
type Registry struct {
	providers map[string]match.Provider
}

// NewRegistry creates a registry with all built-in adapters.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{providers: make(map[string]match.Provider)}
	r.Register(NewRefinitiv(logger))
	r.Register(NewMSCI(logger))
	r.Register(NewFMP(logger))
	return r
}

// Register adds a provider adapter under its own name.
func (r *Registry) Register(p match.Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (match.Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, apperrors.NewNotFoundError("unknown provider "+name, nil)
	}
	return p, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered providers in name order.
func (r *Registry) All() []match.Provider {
	all := make([]match.Provider, 0, len(r.providers))
	for _, name := range r.Names() {
		all = append(all, r.providers[name])
	}
	return all
}
