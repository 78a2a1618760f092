// Package suites holds the suites compiled into the suitekit binary.
package suites

import (
	"errors"

	"github.com/abdul-hamid-achik/suitekit/packages/assertions"
	"github.com/abdul-hamid-achik/suitekit/packages/core/registry"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// Register adds every built-in suite to reg.
func Register(reg *registry.Registry) error {
	for _, s := range []*suite.Suite{Dummy(), Arith()} {
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// Dummy is a placeholder suite with no cases.
func Dummy() *suite.Suite {
	return suite.New("Dummy")
}

var errDivideByZero = errors.New("divide by zero")

func divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivideByZero
	}
	return a / b, nil
}

// Arith checks integer arithmetic.
func Arith() *suite.Suite {
	return suite.New("Arith").
		Add("add", func() suite.Outcome {
			return assertions.Equal(5, 2+3)
		}).
		Add("sub", func() suite.Outcome {
			return suite.Check(5-3 == 2, "expected 5-3 to be 2")
		}).
		Add("mul", func() suite.Outcome {
			return assertions.All(
				assertions.Equal(24, 4*6),
				assertions.Equal(0, 7*0),
			)
		}).
		Add("div", func() suite.Outcome {
			got, err := divide(9, 3)
			if o := assertions.NoError(err); !o.Passed() {
				return o
			}
			if _, err := divide(1, 0); !errors.Is(err, errDivideByZero) {
				return suite.Failf("expected divide by zero error, got %v", err)
			}
			return assertions.Equal(3, got)
		})
}
