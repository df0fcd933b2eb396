// Package telemetry exposes an optional, no-op-by-default counter
// sink for CRDT operations, wrapping armon/go-metrics — a dependency
// the teacher's go.mod already carried transitively (via memberlist)
// but never called directly.
package telemetry

import "github.com/armon/go-metrics"

// Sink counts CRDT operations. A nil *Sink is usable: every method is
// a no-op on a nil receiver. A non-nil Sink is built with NewSink or
// Noop.
type Sink struct {
	m *metrics.Metrics
}

// NewSink builds a Sink backed by its own armon/go-metrics instance
// named service, not the package-global one. That instance writes to a
// BlackholeSink, so the counters are not exported anywhere.
func NewSink(service string) (*Sink, error) {
	conf := metrics.DefaultConfig(service)
	conf.EnableHostname = false
	m, err := metrics.New(conf, &metrics.BlackholeSink{})
	if err != nil {
		return nil, err
	}
	return &Sink{m: m}, nil
}

// Noop returns a Sink that discards every counter. The CRDT types'
// plain New constructors do not use it; they leave their sink nil.
func Noop() *Sink {
	s, _ := NewSink("crdt-noop")
	return s
}

// IncrUpdate counts one successful update against kind (orswot,
// odflag, map).
func (s *Sink) IncrUpdate(kind string) {
	if s == nil {
		return
	}
	s.m.IncrCounter([]string{"crdt", kind, "update"}, 1)
}

// IncrMerge counts one merge against kind.
func (s *Sink) IncrMerge(kind string) {
	if s == nil {
		return
	}
	s.m.IncrCounter([]string{"crdt", kind, "merge"}, 1)
}

// IncrPreconditionFailed counts one precondition failure against kind.
func (s *Sink) IncrPreconditionFailed(kind string) {
	if s == nil {
		return
	}
	s.m.IncrCounter([]string{"crdt", kind, "precondition_failed"}, 1)
}
