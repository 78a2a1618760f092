// Package suite defines the data model for suitekit: test cases, their
// outcomes, and the suites that group them.
//
// A Suite is an ordered collection of named cases plus optional setup and
// teardown hooks. Cases return an Outcome:
//   - Pass: the case succeeded
//   - Fail: an assertion-style, expected failure
//   - Error: an unexpected fault, including recovered panics
package suite
