package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistration is the root of every error returned by Register.
	ErrRegistration = errors.New("registration error")

	ErrDuplicateSuite = fmt.Errorf("%w: duplicate suite", ErrRegistration)
	ErrRegistryFrozen = fmt.Errorf("%w: registry is frozen", ErrRegistration)
	ErrEmptySuite     = fmt.Errorf("%w: suite has no cases", ErrRegistration)
	ErrInvalidSuite   = fmt.Errorf("%w: invalid suite", ErrRegistration)

	// ErrRegistryNotFrozen is returned by Suites before Freeze has been called.
	ErrRegistryNotFrozen = errors.New("registry is not frozen")
)

// RegistrationError reports why a suite could not be registered.
type RegistrationError struct {
	Suite string
	Err   error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering suite %q: %v", e.Suite, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
