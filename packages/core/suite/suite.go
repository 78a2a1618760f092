package suite

import (
	"errors"
	"fmt"
)

// Func is the body of a test case.
type Func func() Outcome

// Hook is a suite setup or teardown function.
type Hook func() error

// Case is a named test case.
type Case struct {
	Name string
	Body Func
}

// Suite is an ordered collection of cases with optional hooks.
type Suite struct {
	Name     string
	Setup    Hook
	Teardown Hook
	Cases    []Case
}

// Option configures a Suite at construction time.
type Option func(*Suite)

// WithSetup sets the hook run before the suite's cases.
func WithSetup(h Hook) Option {
	return func(s *Suite) {
		s.Setup = h
	}
}

// WithTeardown sets the hook run after the suite's cases.
func WithTeardown(h Hook) Option {
	return func(s *Suite) {
		s.Teardown = h
	}
}

// WithCase appends a case.
func WithCase(name string, body Func) Option {
	return func(s *Suite) {
		s.Cases = append(s.Cases, Case{Name: name, Body: body})
	}
}

func New(name string, opts ...Option) *Suite {
	s := &Suite{Name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a case and returns the suite for chaining.
func (s *Suite) Add(name string, body Func) *Suite {
	s.Cases = append(s.Cases, Case{Name: name, Body: body})
	return s
}

// Validate checks that the suite is well formed: a non-empty name, named
// cases with bodies, and no duplicate case names.
func (s *Suite) Validate() error {
	if s == nil {
		return errors.New("suite is nil")
	}
	if s.Name == "" {
		return errors.New("suite name is empty")
	}
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case #%d in suite %q has no name", i+1, s.Name)
		}
		if c.Body == nil {
			return fmt.Errorf("case %q in suite %q has no body", c.Name, s.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate case %q in suite %q", c.Name, s.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Clone returns a copy that shares no case slice with s.
func (s *Suite) Clone() *Suite {
	c := *s
	c.Cases = append([]Case(nil), s.Cases...)
	return &c
}
