// Package trace records where incode spends its time.
//
// Tracing is enabled from the command line:
//
//	incode run --trace=- --trace-level=detail
//	incode run --trace=run.ndjson --trace-level=debug
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelPhase: command phases (discover, load templates, process, report)
//   - LevelDetail: one span per file
//   - LevelDebug: per-file steps (extract, render, write) and cache lookups
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", parent)
//	defer span.End("")
package trace
