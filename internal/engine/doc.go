// Package engine implements the graph reducer.
//
// The reducer is a state machine over the node graph with a single global
// state: either a redex exists or none does. Each step locates one redex
// and fires one rewrite rule; firing allocates the replacement nodes fully
// before installing any substitution, so a rule either fires completely or
// not at all.
//
// Reduction is single-threaded and synchronous. No operation suspends or
// blocks; the only cancellation primitive is the step budget, checked
// between rewrites and never mid-rewrite. An embedding system that wants
// parallel reduction must serialize mutation of any node reachable from
// more than one in-flight redex; this core assumes one reducing goroutine.
//
// Rules (whnf-driven, normal order):
//   - beta:      (λx(body) arg) rewires x's single occurrence to arg
//   - dup-num:   duplicating a number yields two copies of the value
//   - dup-ctr:   duplication distributes over constructor/function args
//   - dup-lam:   duplicating a lambda superposes its variable and
//     duplicates its body under the same label
//   - dup-sup:   same label annihilates, different label commutes
//   - app-sup:   application distributes over a superposition
//   - op2-sup:   binary operators distribute over superposed operands
//   - op2-num:   operators evaluate over the wraparound U120 domain
//   - fun:       function calls match book equations in declaration order
//
// Termination is not guaranteed; Normalize runs to normal form or to the
// step budget, whichever comes first. A call with no matching equation is
// a stuck term, surfaced in Stats rather than as a failure.
package engine
