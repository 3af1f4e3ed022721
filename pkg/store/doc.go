// Package store persists interactive terminal sessions keyed by the shell's
// process id, so a stateless front end can reconnect to an in-progress
// session across requests.
//
// A Store maps a pid to a serialized engine state plus an owner token in a
// durable physical store. Lookups return a Handle: a short-lived proxy that
// forwards every terminal operation to the underlying engine and re-persists
// the full session state after each successful call, so the durable record
// never lags observable state by more than one in-flight operation.
//
// Engine failures surface through a small taxonomy: Unavailable (no record,
// or the terminal is gone), Invalid (the engine rejected the arguments), and
// Unauthorized (owner token mismatch). Anything else propagates unchanged.
//
// The store holds no per-pid locks. Concurrent mutation of the same session
// from separate callers races, and the last persist wins; callers are
// expected to serialize operations per session.
package store
