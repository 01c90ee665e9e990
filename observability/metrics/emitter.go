package metrics

import (
	"strconv"

	"governcore/core/events"
	"governcore/core/types"
)

// EventEmitter adapts the per-subsystem metric registries to the
// events.Emitter interface: each lifecycle event a core subsystem emits is
// translated into the matching counter or gauge update. Wiring it into the
// host's emitter fan-out keeps prometheus out of the core packages while
// still recording every commit, reveal, slash, and route decision.
type EventEmitter struct{}

// Emit implements events.Emitter.
func (EventEmitter) Emit(ev *types.Event) {
	if ev == nil {
		return
	}
	attrs := ev.Attributes
	switch ev.Type {
	case events.TypeOracleCommitAccepted:
		Consensus().RecordCommit(attrOr(attrs, "layer", "unknown"))
	case events.TypeOracleRevealAccepted:
		Consensus().RecordReveal(attrOr(attrs, "layer", "unknown"))
	case events.TypeOracleNonReveal:
		Consensus().RecordNonReveal(attrOr(attrs, "layer", "unknown"))
	case events.TypeOracleRoundTallied:
		Consensus().RecordRoundClosed(attrs["quorum_reached"] == "true")
	case events.TypeOracleRegistered:
		Registry().RecordRegistration("candidate")
	case events.TypeOracleEjected:
		Registry().RecordEjection(attrOr(attrs, "reason", "unknown"))
	case events.TypeOracleEpochRotated:
		if n, err := strconv.Atoi(attrs["active_size"]); err == nil {
			Registry().SetActiveSetSize(n)
		}
	case events.TypeBondSlashed:
		Slashing().RecordSlash(attrOr(attrs, "reason", "unknown"))
	case events.TypeFraudProven:
		Slashing().RecordFraudProof(true)
	case events.TypeProposalRouted:
		Router().RecordRoute(attrOr(attrs, "route", "unknown"))
	}
}

func attrOr(attrs map[string]string, key, fallback string) string {
	if v, ok := attrs[key]; ok && v != "" {
		return v
	}
	return fallback
}
