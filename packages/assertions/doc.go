// Package assertions provides checks for case bodies. Every check returns a
// suite.Outcome: Pass when the check holds, Fail with a message describing
// the mismatch otherwise.
//
// Values are compared loosely in the way JSON documents are: numbers compare
// by value regardless of their Go type, and anything else falls back to its
// printed form.
//
//	func() suite.Outcome {
//		return assertions.All(
//			assertions.Equal(5, add(2, 3)),
//			assertions.Compare(elapsed, "<", 100),
//		)
//	}
package assertions
