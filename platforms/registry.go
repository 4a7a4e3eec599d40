package platforms

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
)

// Registry holds the adapters for platforms that support OAuth connections, plus the
// wider set of tracked platforms that may appear on the connections page.
type Registry struct {
	adapters map[string]Adapter
	tracked  []string
	lock     sync.RWMutex
}

// NewRegistry creates a registry. A nil tracked list uses TrackedPlatforms.
func NewRegistry(tracked []string, adapters ...Adapter) *Registry {
	if tracked == nil {
		tracked = TrackedPlatforms
	}
	r := &Registry{
		adapters: make(map[string]Adapter),
		tracked:  slices.Clone(tracked),
	}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

func (r *Registry) Register(a Adapter) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.adapters[a.Platform()] = a
}

// Lookup returns the adapter for platform, or ErrUnknownPlatform.
func (r *Registry) Lookup(platform string) (Adapter, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	a, ok := r.adapters[normalize(platform)]
	if !ok {
		return nil, fmt.Errorf("[platforms Lookup] %q: %w", platform, apperrors.ErrUnknownPlatform)
	}
	return a, nil
}

// Validate normalizes platform and accepts it if it is tracked or has an adapter.
func (r *Registry) Validate(platform string) (string, error) {
	p := normalize(platform)
	if p == "" {
		return "", fmt.Errorf("[platforms Validate] platform is required: %w", apperrors.ErrInvalidRequest)
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	if _, ok := r.adapters[p]; ok || slices.Contains(r.tracked, p) {
		return p, nil
	}
	return "", fmt.Errorf("[platforms Validate] %q: %w", platform, apperrors.ErrUnknownPlatform)
}

// Tracked returns the platforms shown on the connections page.
func (r *Registry) Tracked() []string {
	return slices.Clone(r.tracked)
}

// Connectable returns the platforms with an adapter, sorted.
func (r *Registry) Connectable() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
