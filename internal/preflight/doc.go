// Package preflight provides readiness checks for the Stash host and the
// filesystem paths a sweep depends on.
//
// The CLI "stashsweep check" command runs RunAll and renders one status line
// per result. The sweep itself never calls preflight; a run discovers
// connectivity problems through its own first request.
//
// Checks are gated by config -- unconfigured features are skipped.
package preflight
