// Package preflight provides readiness checks for the external services and
// filesystem paths an identification run depends on.
//
// RunAll executes before the pipeline so a broken catalog, missing API key,
// or read-only disk directory fails in seconds instead of minutes into a run.
// Individual check functions are exported for the CLI to display per-check
// results.
package preflight
