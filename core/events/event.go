package events

import "governcore/core/types"

// Emitter broadcasts structured events to downstream subscribers (e.g. RPC,
// indexers, audit logs). Each package defines its own typed event structs
// with an Event() *types.Event converter and calls Emitter.Emit with the
// result.
type Emitter interface {
	Emit(*types.Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while
// discarding all events. It is useful when a component wants to optionally
// expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(*types.Event) {}

// MultiEmitter fans each event out to every wrapped emitter in order. The
// host process uses it to feed the same event stream to its log sink and
// its metrics recorder without the core subsystems knowing about either.
type MultiEmitter []Emitter

// Emit implements the Emitter interface.
func (m MultiEmitter) Emit(ev *types.Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(ev)
		}
	}
}
