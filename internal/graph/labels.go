package graph

import "sync/atomic"

// Labels is a monotonic source of duplication labels. Every dup binder
// built and every equation body instantiated during reduction draws from
// the same source, so a label is globally unique for the lifetime of the
// graph.
//
// The counter is explicit state threaded through construction and
// reduction, never a package global. It is atomic so outer layers may
// share one source across goroutines, though the core itself reduces on a
// single goroutine.
type Labels struct {
	n atomic.Uint64
}

// NewLabels creates a label source starting at zero.
func NewLabels() *Labels {
	return &Labels{}
}

// Fresh returns the next unused label. The first call returns 1.
func (l *Labels) Fresh() Label {
	return Label(l.n.Add(1))
}

// Current returns the most recently issued label without consuming one.
func (l *Labels) Current() Label {
	return Label(l.n.Load())
}
