package registry

import (
	"errors"
	"testing"

	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndFreeze(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(suite.New("Dummy")))
	require.NoError(t, r.Register(suite.New("Arith").Add("add", suite.Pass)))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, r.CaseCount())
	assert.False(t, r.Frozen())

	r.Freeze()
	r.Freeze()
	assert.True(t, r.Frozen())

	suites, err := r.Suites()
	require.NoError(t, err)
	require.Len(t, suites, 2)
	assert.Equal(t, "Dummy", suites[0].Name)
	assert.Equal(t, "Arith", suites[1].Name)
}

func TestRegistry_DuplicateSuite(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(suite.New("Arith")))

	err := r.Register(suite.New("Arith"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSuite)
	assert.ErrorIs(t, err, ErrRegistration)

	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, "Arith", regErr.Suite)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RegisterAfterFreeze(t *testing.T) {
	r := New()
	r.Freeze()

	err := r.Register(suite.New("Late"))
	assert.ErrorIs(t, err, ErrRegistryFrozen)
	assert.ErrorIs(t, err, ErrRegistration)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_SuitesBeforeFreeze(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(suite.New("Dummy")))

	_, err := r.Suites()
	assert.ErrorIs(t, err, ErrRegistryNotFrozen)
}

func TestRegistry_EmptySuitePolicy(t *testing.T) {
	t.Run("allowed by default", func(t *testing.T) {
		assert.NoError(t, New().Register(suite.New("Dummy")))
	})

	t.Run("rejected when strict", func(t *testing.T) {
		err := New(WithAllowEmptySuites(false)).Register(suite.New("Dummy"))
		assert.ErrorIs(t, err, ErrEmptySuite)
	})
}

func TestRegistry_InvalidSuite(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Register(nil), ErrInvalidSuite)
	assert.ErrorIs(t, r.Register(suite.New("")), ErrInvalidSuite)
	assert.ErrorIs(t, r.Register(suite.New("s").Add("a", nil)), ErrInvalidSuite)
}

func TestRegistry_KeepsPrivateCopy(t *testing.T) {
	s := suite.New("Arith").Add("add", suite.Pass)
	r := New()
	require.NoError(t, r.Register(s))
	s.Add("sub", suite.Pass)
	r.Freeze()

	got, ok := r.Lookup("Arith")
	require.True(t, ok)
	assert.Len(t, got.Cases, 1)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_FrozenReturnsCopies(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(suite.New("A").Add("ok", suite.Pass)))
	r.Freeze()

	got, ok := r.Lookup("A")
	require.True(t, ok)
	got.Add("injected", suite.Pass)
	got.Setup = func() error { return errors.New("swapped") }

	suites, err := r.Suites()
	require.NoError(t, err)
	suites[0].Add("appended", suite.Pass)
	suites[0].Teardown = func() error { return errors.New("swapped") }

	again, err := r.Suites()
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Len(t, again[0].Cases, 1)
	assert.Nil(t, again[0].Setup)
	assert.Nil(t, again[0].Teardown)
	assert.Equal(t, 1, r.CaseCount())
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := New()
	r.MustRegister(suite.New("a"), suite.New("b"))
	assert.Panics(t, func() { r.MustRegister(suite.New("a")) })
}
