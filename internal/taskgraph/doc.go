// Package taskgraph is the declarative composition layer. Given the resolved
// profile and the step registry, it registers the named tasks an external
// caller can trigger and runs a task's flattened step sequence strictly in
// order, stopping at the first failure.
//
// Every available step is also a task of the same name, as is every alias.
// Composite tasks (the built-in "i18n" plus any `task` blocks from the
// configuration) list step or task names; references are resolved and checked
// for cycles before anything runs.
package taskgraph
