package checks

import (
	"fmt"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
)

// Factory builds a checker from a loaded AWS SDK config
type Factory func(cfg awssdk.Config) Checker

// Registry manages checker factories
type Registry interface {
	// Register adds a checker factory under name
	Register(name string, factory Factory) error
	// Create instantiates the named checkers in registration order. No names means every registered checker.
	Create(cfg awssdk.Config, names ...string) ([]Checker, error)
	// ListCheckers returns registered names in registration order
	ListCheckers() []string
}

type registry struct {
	mu        sync.RWMutex
	order     []string
	factories map[string]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]Factory),
	}
}

func (r *registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("checker name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("checker %q is already registered", name)
	}

	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

func (r *registry) Create(cfg awssdk.Config, names ...string) ([]Checker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(names) == 0 {
		names = r.order
	}

	requested := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := requested[name]; dup {
			return nil, fmt.Errorf("checker %q requested twice", name)
		}
		if _, exists := r.factories[name]; !exists {
			return nil, fmt.Errorf("checker %q is not registered", name)
		}
		requested[name] = struct{}{}
	}

	result := make([]Checker, 0, len(requested))
	for _, name := range r.order {
		if _, ok := requested[name]; ok {
			result = append(result, r.factories[name](cfg))
		}
	}
	return result, nil
}

func (r *registry) ListCheckers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}
