// Package registry holds the suites of a run.
//
// A Registry is built once with Register, then frozen. The runner only
// accepts a frozen registry, so it never observes a partially built one.
package registry
