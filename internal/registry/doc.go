// Package registry provides the central "glue" for the module system.
//
// Step modules register a named Factory for each step they provide, plus any
// legacy alias names. The taskgraph later asks the registry for the steps
// available to the resolved profile and instantiates them lazily with a
// shared Env, so a step that no task references is never constructed.
package registry
