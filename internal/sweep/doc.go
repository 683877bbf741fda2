// Package sweep drives the scan-and-convert pass over a Stash library.
//
// A Runner enumerates every scene once, inspects each served screenshot by
// content, and converts WebP covers to JPEG in place via the host API. The
// pass is deliberately synchronous and stateless: enumeration failure aborts
// the run before any scene is touched, while every later failure is recorded
// against its scene and the pass moves on. Re-running after a partial pass
// is safe because already converted screenshots sniff as JPEG and are
// skipped.
package sweep
