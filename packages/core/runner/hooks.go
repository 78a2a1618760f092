package runner

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

var (
	ErrSetup    = errors.New("setup failed")
	ErrTeardown = errors.New("teardown failed")
)

// HookError wraps a failed setup or teardown hook. It matches both the phase
// sentinel (ErrSetup or ErrTeardown) and the hook's own error.
type HookError struct {
	Suite string
	Phase error
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("suite %q: %v: %v", e.Suite, e.Phase, e.Err)
}

func (e *HookError) Unwrap() []error {
	return []error{e.Phase, e.Err}
}

// executeSetup runs the suite's setup hook, if any
func (r *Runner) executeSetup(s *suite.Suite) error {
	if s.Setup == nil {
		return nil
	}
	if err := runHook(s.Setup); err != nil {
		return &HookError{Suite: s.Name, Phase: ErrSetup, Err: err}
	}
	return nil
}

// executeTeardown runs the suite's teardown hook, if any
func (r *Runner) executeTeardown(s *suite.Suite) error {
	if s.Teardown == nil {
		return nil
	}
	if err := runHook(s.Teardown); err != nil {
		return &HookError{Suite: s.Name, Phase: ErrTeardown, Err: err}
	}
	return nil
}

func runHook(h suite.Hook) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = recovered(rec)
		}
	}()
	return h()
}
