// Package trace records what the bondrewd driver and parser are doing.
//
// Events form spans (begin/end pairs) and points, each tagged with a Scope:
//
//   - ScopeDriver: one command invocation
//   - ScopePass: tokenize, parse, cache lookups
//   - ScopeFile: one source file within a pass
//   - ScopeRule: parser internals such as seed growth of left-recursive
//     rules and forced-rule failures
//
// The Level decides which scopes are kept. Events are streamed (text or
// NDJSON), kept in a ring buffer that the driver dumps when a parse fails,
// or both:
//
//	bondrewd parse --trace=parse.ndjson --trace-level=debug src/
//
// Tracers travel through the driver in a context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.ParentID(ctx))
//	defer span.End("")
package trace
