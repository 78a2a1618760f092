package runner

import (
	"context"
	"errors"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/registry"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Logger = quietLogger()
	return NewRunner(cfg)
}

func frozen(t *testing.T, suites ...*suite.Suite) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, s := range suites {
		require.NoError(t, reg.Register(s))
	}
	reg.Freeze()
	return reg
}

func names(results []CaseResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.FullName())
	}
	return out
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.config)
		assert.NotNil(t, r.log)
	})

	t.Run("with custom config", func(t *testing.T) {
		r := newTestRunner(&Config{CaseTimeout: time.Second, NameFilter: "Arith.*"})
		assert.Equal(t, time.Second, r.config.CaseTimeout)
		assert.Equal(t, "Arith.*", r.config.NameFilter)
	})
}

func TestRunner_Execute_RequiresFrozenRegistry(t *testing.T) {
	reg := registry.New()
	_, err := newTestRunner(nil).Execute(context.Background(), reg)
	assert.ErrorIs(t, err, registry.ErrRegistryNotFrozen)
}

func TestRunner_Execute_EmptySuite(t *testing.T) {
	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, suite.New("Dummy")))
	require.NoError(t, err)

	assert.Empty(t, result.Results)
	assert.Empty(t, result.SuitesFailedToInitialize())
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, ExitSuccess, ExitCode(result))
}

func TestRunner_Execute_Arith(t *testing.T) {
	s := suite.New("Arith").
		Add("add", suite.Pass).
		Add("sub", func() suite.Outcome { return suite.Fail("expected 2 got 3") })

	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, s))
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	assert.Equal(t, []string{"Arith.add", "Arith.sub"}, names(result.Results))
	assert.Equal(t, suite.KindPass, result.Results[0].Outcome.Kind)
	assert.Equal(t, suite.KindFail, result.Results[1].Outcome.Kind)
	assert.Equal(t, "expected 2 got 3", result.Results[1].Outcome.Message)
	assert.Equal(t, 1, result.Passed())
	assert.Equal(t, 1, result.Failed())
	assert.NotEqual(t, ExitSuccess, ExitCode(result))

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "sub", failures[0].Case)
}

func TestRunner_Execute_OrderAndCount(t *testing.T) {
	var calls []string
	record := func(name string) suite.Func {
		return func() suite.Outcome {
			calls = append(calls, name)
			return suite.Pass()
		}
	}

	a := suite.New("A").Add("1", record("A.1")).Add("2", record("A.2"))
	b := suite.New("B").Add("1", record("B.1"))
	c := suite.New("C").Add("1", record("C.1")).Add("2", record("C.2")).Add("3", record("C.3"))

	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, a, b, c))
	require.NoError(t, err)

	want := []string{"A.1", "A.2", "B.1", "C.1", "C.2", "C.3"}
	assert.Equal(t, want, calls)
	assert.Equal(t, want, names(result.Results))
	assert.True(t, result.Success())
}

func TestRunner_Execute_PanicBecomesError(t *testing.T) {
	s := suite.New("Faulty").
		Add("panics", func() suite.Outcome { panic("boom") }).
		Add("panics with error", func() suite.Outcome { panic(errors.New("bad state")) }).
		Add("after", suite.Pass)

	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, s))
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	assert.Equal(t, suite.KindError, result.Results[0].Outcome.Kind)
	assert.Contains(t, result.Results[0].Outcome.Message, "panic: boom")
	assert.Equal(t, suite.KindError, result.Results[1].Outcome.Kind)
	assert.Contains(t, result.Results[1].Outcome.Message, "bad state")
	assert.Equal(t, suite.KindPass, result.Results[2].Outcome.Kind)
	assert.Equal(t, ExitTestFailure, ExitCode(result))
}

func TestRunner_Execute_InvalidOutcomeKind(t *testing.T) {
	s := suite.New("S").Add("weird", func() suite.Outcome { return suite.Outcome{Kind: suite.Kind(42)} })

	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, s))
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, suite.KindError, result.Results[0].Outcome.Kind)
}

func TestRunner_Execute_MissingOutcomeKind(t *testing.T) {
	s := suite.New("S").
		Add("empty", func() suite.Outcome { return suite.Outcome{} }).
		Add("message only", func() suite.Outcome { return suite.Outcome{Message: "oops"} })

	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, s))
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	for _, cr := range result.Results {
		assert.Equal(t, suite.KindError, cr.Outcome.Kind, cr.FullName())
		assert.Contains(t, cr.Outcome.Message, "invalid outcome kind 0")
	}
	assert.False(t, result.Success())
	assert.Equal(t, ExitTestFailure, ExitCode(result))
}

func TestRunner_Execute_GoexitBecomesError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := suite.New("S").
		Add("exits", func() suite.Outcome {
			runtime.Goexit()
			return suite.Pass()
		}).
		Add("after", suite.Pass)

	done := make(chan struct{})
	var result *RunResult
	var err error
	go func() {
		defer close(done)
		result, err = newTestRunner(nil).Execute(ctx, frozen(t, s))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not finish after a case body called runtime.Goexit")
	}

	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, suite.KindError, result.Results[0].Outcome.Kind)
	assert.ErrorIs(t, result.Results[0].Outcome.Err, ErrExited)
	assert.Equal(t, suite.KindPass, result.Results[1].Outcome.Kind)
	assert.Equal(t, ExitTestFailure, ExitCode(result))
}

func TestRunner_Execute_FrozenRegistryIgnoresCopies(t *testing.T) {
	reg := frozen(t, suite.New("A").Add("ok", suite.Pass))

	got, ok := reg.Lookup("A")
	require.True(t, ok)
	got.Add("injected", func() suite.Outcome { return suite.Fail("injected after freeze") })

	suites, err := reg.Suites()
	require.NoError(t, err)
	suites[0].Add("appended", suite.Pass)
	suites[0].Setup = func() error { return errors.New("swapped setup") }
	suites[0] = suite.New("Replaced").Add("x", suite.Pass)

	result, err := newTestRunner(nil).Execute(context.Background(), reg)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "A.ok", result.Results[0].FullName())
	assert.Equal(t, suite.KindPass, result.Results[0].Outcome.Kind)
	assert.Equal(t, ExitSuccess, ExitCode(result))
}

func TestRunner_Execute_SetupFailure(t *testing.T) {
	ran := false
	broken := suite.New("Broken",
		suite.WithSetup(func() error { return errors.New("no database") }),
		suite.WithTeardown(func() error { t.Error("teardown must not run after failed setup"); return nil }),
	).Add("never", func() suite.Outcome { ran = true; return suite.Pass() })
	next := suite.New("Next").Add("ok", suite.Pass)

	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, broken, next))
	require.NoError(t, err)

	assert.False(t, ran)
	assert.Equal(t, []string{"Broken"}, result.SuitesFailedToInitialize())
	assert.Equal(t, []string{"Next.ok"}, names(result.Results))
	assert.ErrorIs(t, result.FailedSetups[0].Err, ErrSetup)
	assert.Contains(t, result.FailedSetups[0].Message, "no database")
	assert.Equal(t, ExitSetupFailure, ExitCode(result))
}

func TestRunner_Execute_SetupPanic(t *testing.T) {
	s := suite.New("S", suite.WithSetup(func() error { panic("init exploded") })).Add("a", suite.Pass)

	result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, s))
	require.NoError(t, err)
	require.Len(t, result.FailedSetups, 1)
	assert.Contains(t, result.FailedSetups[0].Message, "init exploded")
	assert.Empty(t, result.Results)
}

func TestRunner_Execute_Teardown(t *testing.T) {
	t.Run("runs after failing cases", func(t *testing.T) {
		tornDown := false
		s := suite.New("S", suite.WithTeardown(func() error { tornDown = true; return nil })).
			Add("fails", func() suite.Outcome { return suite.Fail("nope") })

		result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, s))
		require.NoError(t, err)
		assert.True(t, tornDown)
		assert.Len(t, result.Results, 1)
	})

	t.Run("failure is a synthetic result", func(t *testing.T) {
		s := suite.New("S", suite.WithTeardown(func() error { return errors.New("leak") })).
			Add("a", suite.Pass).
			Add("b", suite.Pass)

		result, err := newTestRunner(nil).Execute(context.Background(), frozen(t, s))
		require.NoError(t, err)

		assert.Equal(t, []string{"S.a", "S.b", "S.teardown"}, names(result.Results))
		last := result.Results[2]
		assert.True(t, last.Synthetic)
		assert.Equal(t, suite.KindError, last.Outcome.Kind)
		assert.ErrorIs(t, last.Outcome.Err, ErrTeardown)
		assert.Equal(t, suite.KindPass, result.Results[0].Outcome.Kind)
		assert.Equal(t, ExitTestFailure, ExitCode(result))
	})
}

func TestRunner_Execute_CaseTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := suite.New("Slow").
		Add("hangs", func() suite.Outcome { <-release; return suite.Pass() }).
		Add("fast", suite.Pass)

	r := newTestRunner(&Config{CaseTimeout: 20 * time.Millisecond})
	result, err := r.Execute(context.Background(), frozen(t, s))
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	assert.Equal(t, suite.KindError, result.Results[0].Outcome.Kind)
	assert.Equal(t, "timeout", result.Results[0].Outcome.Message)
	assert.Equal(t, suite.KindPass, result.Results[1].Outcome.Kind)
}

func TestRunner_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := suite.New("First", suite.WithTeardown(func() error { cancel(); return nil })).
		Add("ok", suite.Pass)
	second := suite.New("Second", suite.WithSetup(func() error { t.Error("setup ran after cancellation"); return nil })).
		Add("a", suite.Pass).
		Add("b", suite.Pass)

	result, err := newTestRunner(nil).Execute(ctx, frozen(t, first, second))
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	assert.Equal(t, suite.KindPass, result.Results[0].Outcome.Kind)
	for _, cr := range result.Results[1:] {
		assert.Equal(t, suite.KindError, cr.Outcome.Kind, cr.FullName())
		assert.ErrorIs(t, cr.Outcome.Err, context.Canceled)
	}
	assert.Equal(t, ExitTestFailure, ExitCode(result))
}

func TestRunner_NameFilter(t *testing.T) {
	a := suite.New("Arith").Add("add", suite.Pass).Add("sub", suite.Pass)
	b := suite.New("Strings", suite.WithSetup(func() error { t.Error("setup of unmatched suite ran"); return nil })).
		Add("concat", suite.Pass)

	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: "Arith.add", want: []string{"Arith.add"}},
		{pattern: "Arith.*", want: []string{"Arith.add", "Arith.sub"}},
		{pattern: "*sub", want: []string{"Arith.sub"}},
		{pattern: "add", want: []string{"Arith.add"}},
		{pattern: "*ri*", want: []string{"Arith.add", "Arith.sub"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			result, err := newTestRunner(&Config{NameFilter: tt.pattern}).Execute(context.Background(), frozen(t, a, b))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(result.Results))
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	assert.True(t, matchesPattern("anything", ""))
	assert.True(t, matchesPattern("anything", "*"))
	assert.True(t, matchesPattern("Arith.add", "Arith.add"))
	assert.False(t, matchesPattern("Arith.add", "Arith"))
	assert.True(t, matchesPattern("Arith.add", "Arith*"))
	assert.True(t, matchesPattern("Arith.add", "*add"))
	assert.True(t, matchesPattern("Arith.add", "*th.a*"))
	assert.False(t, matchesPattern("Arith.add", "*sub*"))
}

func TestExitCode(t *testing.T) {
	pass := CaseResult{Suite: "s", Case: "a", Outcome: suite.Pass()}
	fail := CaseResult{Suite: "s", Case: "b", Outcome: suite.Fail("x")}
	errd := CaseResult{Suite: "s", Case: "c", Outcome: suite.Errorf("y")}

	tests := []struct {
		name   string
		result *RunResult
		want   int
	}{
		{name: "nil", result: nil, want: ExitSetupFailure},
		{name: "empty", result: &RunResult{}, want: ExitSuccess},
		{name: "all pass", result: &RunResult{Results: []CaseResult{pass, pass}}, want: ExitSuccess},
		{name: "fail", result: &RunResult{Results: []CaseResult{pass, fail}}, want: ExitTestFailure},
		{name: "error", result: &RunResult{Results: []CaseResult{errd}}, want: ExitTestFailure},
		{
			name:   "setup failure wins",
			result: &RunResult{Results: []CaseResult{fail}, FailedSetups: []SuiteFailure{{Suite: "x"}}},
			want:   ExitSetupFailure,
		},
		{
			name:   "setup failure with passing cases",
			result: &RunResult{Results: []CaseResult{pass}, FailedSetups: []SuiteFailure{{Suite: "x"}}},
			want:   ExitSetupFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.result))
			assert.Equal(t, tt.want, ExitCode(tt.result), "must be deterministic")
		})
	}
}

func TestRunResult_SuiteNames(t *testing.T) {
	r := &RunResult{
		Results: []CaseResult{
			{Suite: "A", Case: "1"}, {Suite: "A", Case: "2"}, {Suite: "C", Case: "1"},
		},
		FailedSetups: []SuiteFailure{{Suite: "B"}},
	}
	assert.Equal(t, []string{"A", "C", "B"}, r.SuiteNames())
}
