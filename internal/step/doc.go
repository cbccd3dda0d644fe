// Package step defines the unit the task graph executes: a named Step whose
// Run reports either a Result (success, with an optional note and structured
// output) or an error classified by one of the taxonomy sentinels.
//
// Errors are values, never panics: a Step never propagates a failure in a
// way that could tear down sibling work running in the same fan-out batch.
package step
