// Package session provides stateful Lua evaluation sessions with
// structured results.
//
// A Session owns one gopher-lua interpreter for its whole lifetime. The
// LState is NOT goroutine-safe, so the session confines it to a single
// worker goroutine and bridges requests to it over a channel; callers never
// touch the interpreter directly.
//
//	sess, err := session.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	resp, err := sess.Evaluate(ctx, "x = {1, 2}; return x")
//
// Interpreter state persists across calls: globals set by one expression
// are visible to the next. Evaluations are fully serialized in submission
// order, and each caller receives the response for its own expression.
//
// A Response describes the result structurally: scalars map directly, and
// tables are flattened into an identity-keyed map with cycle-safe
// references (see internal/value). Table identities are stable across
// calls for the lifetime of the underlying table, so a caller can track an
// aggregate's mutation from one evaluation to the next.
//
// There is no way to interrupt a running expression; a non-terminating
// script blocks the session indefinitely.
package session
