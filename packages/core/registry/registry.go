package registry

import (
	"fmt"
	"sync"

	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// Registry is an ordered, build-then-freeze collection of suites.
type Registry struct {
	mu         sync.RWMutex
	suites     []*suite.Suite
	index      map[string]int
	frozen     bool
	allowEmpty bool
}

type Option func(*Registry)

// WithAllowEmptySuites controls whether suites with zero cases may be
// registered. Empty suites are allowed by default.
func WithAllowEmptySuites(allow bool) Option {
	return func(r *Registry) {
		r.allowEmpty = allow
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		index:      make(map[string]int),
		allowEmpty: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a copy of s. It fails once the registry is frozen, when a
// suite with the same name exists, or when s is malformed.
func (r *Registry) Register(s *suite.Suite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := ""
	if s != nil {
		name = s.Name
	}

	if r.frozen {
		return &RegistrationError{Suite: name, Err: ErrRegistryFrozen}
	}
	if err := s.Validate(); err != nil {
		return &RegistrationError{Suite: name, Err: fmt.Errorf("%w: %v", ErrInvalidSuite, err)}
	}
	if _, exists := r.index[s.Name]; exists {
		return &RegistrationError{Suite: name, Err: ErrDuplicateSuite}
	}
	if !r.allowEmpty && len(s.Cases) == 0 {
		return &RegistrationError{Suite: name, Err: ErrEmptySuite}
	}

	r.index[s.Name] = len(r.suites)
	r.suites = append(r.suites, s.Clone())
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(suites ...*suite.Suite) {
	for _, s := range suites {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Freeze makes the registry read-only. Calling it again is a no-op.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Suites returns copies of the registered suites in registration order.
// Changing them does not affect the registry.
func (r *Registry) Suites() ([]*suite.Suite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.frozen {
		return nil, ErrRegistryNotFrozen
	}
	out := make([]*suite.Suite, len(r.suites))
	for i, s := range r.suites {
		out[i] = s.Clone()
	}
	return out, nil
}

// Lookup finds a registered suite by name and returns a copy of it.
func (r *Registry) Lookup(name string) (*suite.Suite, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.suites[i].Clone(), true
}

// Len returns the number of registered suites.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.suites)
}

// CaseCount returns the total number of cases across all suites.
func (r *Registry) CaseCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.suites {
		n += len(s.Cases)
	}
	return n
}
