package suites

import (
	"context"
	"testing"

	"github.com/abdul-hamid-achik/suitekit/packages/core/registry"
	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Register(reg))
	assert.Equal(t, 2, reg.Len())

	// a second registration collides on names
	assert.ErrorIs(t, Register(reg), registry.ErrDuplicateSuite)
}

func TestBuiltinSuitesPass(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Register(reg))
	reg.Freeze()

	result, err := runner.NewRunner(nil).Execute(context.Background(), reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Arith.add", "Arith.sub", "Arith.mul", "Arith.div"}, fullNames(result))
	assert.Empty(t, result.Failures())
	assert.Equal(t, runner.ExitSuccess, runner.ExitCode(result))
}

func TestDivide(t *testing.T) {
	got, err := divide(10, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	_, err = divide(1, 0)
	assert.ErrorIs(t, err, errDivideByZero)
}

func fullNames(result *runner.RunResult) []string {
	names := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		names = append(names, r.FullName())
	}
	return names
}
