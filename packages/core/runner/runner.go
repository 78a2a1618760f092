package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/registry"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TeardownCaseName is the case name of the synthetic result recorded when a
// suite's teardown fails.
const TeardownCaseName = "teardown"

// ErrTimeout is the cause recorded for a case that exceeded CaseTimeout.
var ErrTimeout = errors.New("timeout")

// ErrExited is the cause recorded for a case body that ended its goroutine
// with runtime.Goexit instead of returning.
var ErrExited = errors.New("case body exited without returning")

type Runner struct {
	config *Config
	log    logrus.FieldLogger
}

type Config struct {
	// CaseTimeout bounds each case body. Zero disables the limit.
	CaseTimeout time.Duration
	// NameFilter selects cases by "suite.case" or case name. Supports a
	// leading and/or trailing '*'.
	NameFilter string
	Logger     logrus.FieldLogger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Runner{
		config: cfg,
		log:    log,
	}
}

// Execute runs every suite of a frozen registry. The only error it returns
// is for a registry that has not been frozen; faults inside suites are
// recorded in the RunResult.
//
// When ctx is done, every case that has not started yet is recorded as an
// Error outcome carrying the context error.
func (r *Runner) Execute(ctx context.Context, reg *registry.Registry) (*RunResult, error) {
	suites, err := reg.Suites()
	if err != nil {
		return nil, fmt.Errorf("executing registry: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	result := &RunResult{
		ID:        uuid.NewString(),
		StartedAt: start,
	}
	log := r.log.WithField("run_id", result.ID)
	log.WithField("suites", len(suites)).Debug("Starting run")

	for _, s := range suites {
		r.runSuite(ctx, s, result, log.WithField("suite", s.Name))
	}

	result.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"total":    result.Total(),
		"failed":   result.Failed(),
		"errored":  result.Errored(),
		"setups":   len(result.FailedSetups),
		"duration": result.Duration,
	}).Debug("Run finished")

	return result, nil
}

func (r *Runner) runSuite(ctx context.Context, s *suite.Suite, result *RunResult, log logrus.FieldLogger) {
	cases := r.selectCases(s)
	if r.config.NameFilter != "" && len(cases) == 0 {
		log.Debug("No cases match filter, skipping suite")
		return
	}

	if err := ctx.Err(); err != nil {
		for _, c := range cases {
			result.Results = append(result.Results, CaseResult{
				Suite:   s.Name,
				Case:    c.Name,
				Outcome: suite.Errored(err),
			})
		}
		return
	}

	if err := r.executeSetup(s); err != nil {
		log.WithError(err).Warn("Suite setup failed, skipping its cases")
		result.FailedSetups = append(result.FailedSetups, SuiteFailure{
			Suite:   s.Name,
			Message: err.Error(),
			Err:     err,
		})
		return
	}

	for _, c := range cases {
		cr := r.runCase(ctx, s.Name, c)
		log.WithFields(logrus.Fields{
			"case":     c.Name,
			"outcome":  cr.Outcome.Kind,
			"duration": cr.Duration,
		}).Debug("Case finished")
		result.Results = append(result.Results, cr)
	}

	if err := r.executeTeardown(s); err != nil {
		log.WithError(err).Warn("Suite teardown failed")
		result.Results = append(result.Results, CaseResult{
			Suite:     s.Name,
			Case:      TeardownCaseName,
			Outcome:   suite.Errored(err),
			Synthetic: true,
		})
	}
}

func (r *Runner) runCase(ctx context.Context, suiteName string, c suite.Case) CaseResult {
	start := time.Now()
	out := r.invoke(ctx, c.Body)
	return CaseResult{
		Suite:    suiteName,
		Case:     c.Name,
		Outcome:  out,
		Duration: time.Since(start),
	}
}

// invoke calls body on the current goroutine unless a timeout or a
// cancellable context requires watching it from a second one. A body that
// outlives its timeout keeps running in the background; its outcome is
// discarded. A body that calls runtime.Goexit on the second goroutine is
// recorded as an Error. On the current goroutine Goexit ends the caller.
func (r *Runner) invoke(ctx context.Context, body suite.Func) suite.Outcome {
	if err := ctx.Err(); err != nil {
		return suite.Errored(err)
	}
	if r.config.CaseTimeout <= 0 && ctx.Done() == nil {
		return call(body)
	}

	done := make(chan suite.Outcome, 1)
	go func() {
		returned := false
		defer func() {
			if !returned {
				done <- suite.Errored(ErrExited)
			}
		}()
		out := call(body)
		returned = true
		done <- out
	}()

	var timeout <-chan time.Time
	if r.config.CaseTimeout > 0 {
		timer := time.NewTimer(r.config.CaseTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case out := <-done:
		return out
	case <-timeout:
		return suite.Errored(ErrTimeout)
	case <-ctx.Done():
		select {
		case out := <-done:
			return out
		default:
		}
		return suite.Errored(ctx.Err())
	}
}

// call runs body and converts a panic into an Error outcome.
func call(body suite.Func) (out suite.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = suite.Errored(recovered(rec))
		}
	}()

	out = body()
	switch out.Kind {
	case suite.KindPass, suite.KindFail, suite.KindError:
		return out
	default:
		return suite.Errorf("invalid outcome kind %d", int(out.Kind))
	}
}

// recovered turns a recovered panic value into an error with a stack trace.
func recovered(rec any) error {
	if err, ok := rec.(error); ok {
		return pkgerrors.WithStack(fmt.Errorf("panic: %w", err))
	}
	return pkgerrors.Errorf("panic: %v", rec)
}

func (r *Runner) selectCases(s *suite.Suite) []suite.Case {
	if r.config.NameFilter == "" {
		return s.Cases
	}
	var out []suite.Case
	for _, c := range s.Cases {
		if matchesPattern(s.Name+"."+c.Name, r.config.NameFilter) || matchesPattern(c.Name, r.config.NameFilter) {
			out = append(out, c)
		}
	}
	return out
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	prefix := strings.HasPrefix(pattern, "*")
	suffix := strings.HasSuffix(pattern, "*")
	core := strings.TrimSuffix(strings.TrimPrefix(pattern, "*"), "*")

	switch {
	case prefix && suffix:
		return strings.Contains(name, core)
	case prefix:
		return strings.HasSuffix(name, core)
	case suffix:
		return strings.HasPrefix(name, core)
	}
	return name == pattern
}
