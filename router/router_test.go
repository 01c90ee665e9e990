package router

import (
	"testing"

	"governcore/core/types"
)

func TestScenarioAStandardVotingFriction(t *testing.T) {
	a := types.ChannelAVerdict{Pass: true}
	b := types.ChannelBVerdict{AlignmentScore: 0.85, DecidabilityClass: types.DecidabilityClassII}

	route := Route(types.LayerOperational, a, b)
	if route != types.RouteStandardVoting {
		t.Fatalf("expected StandardVoting, got %s", route)
	}
	friction := Friction(types.LayerOperational, b)
	if diff := friction.RequiredQuorum - 0.1075; diff < -1e-9 || diff > 1e-9 {
		t.Fatalf("expected required_quorum ~0.1075, got %v", friction.RequiredQuorum)
	}
	if friction.TimelockDurationS != 112320 {
		t.Fatalf("expected timelock 112320s, got %d", friction.TimelockDurationS)
	}
}

func TestScenarioCLayerZeroAlwaysRejected(t *testing.T) {
	a := types.ChannelAVerdict{Pass: true}
	b := types.ChannelBVerdict{AlignmentScore: 0.99, DecidabilityClass: types.DecidabilityClassI}
	if route := Route(types.LayerImmutable, a, b); route != types.RouteRejected {
		t.Fatalf("expected Rejected for L0 regardless of verdicts, got %s", route)
	}
}

func TestScenarioFAIInterestConflict(t *testing.T) {
	a := types.ChannelAVerdict{Pass: true}
	b := types.ChannelBVerdict{AlignmentScore: 0.5, DecidabilityClass: types.DecidabilityClassII, AIInterestConflict: true}

	if route := Route(types.LayerOperational, a, b); route != types.RouteHumanMajorityJury {
		t.Fatalf("expected HumanMajorityJury, got %s", route)
	}
	friction := Friction(types.LayerOperational, b)
	if friction.RequiredQuorum < 0.5 {
		t.Fatalf("expected required_quorum >= 0.5, got %v", friction.RequiredQuorum)
	}
	if friction.TimelockDurationS < 604800 {
		t.Fatalf("expected timelock >= 604800s, got %d", friction.TimelockDurationS)
	}
}

func TestChannelAFailureIsRejectedBeforeAnythingElse(t *testing.T) {
	a := types.ChannelAVerdict{Pass: false}
	b := types.ChannelBVerdict{AlignmentScore: 0.99, DecidabilityClass: types.DecidabilityClassII}
	if route := Route(types.LayerOperational, a, b); route != types.RouteRejected {
		t.Fatalf("expected Rejected on Channel A failure, got %s", route)
	}
}

func TestClassIRoutesToFormalVerification(t *testing.T) {
	a := types.ChannelAVerdict{Pass: true}
	b := types.ChannelBVerdict{AlignmentScore: 0.9, DecidabilityClass: types.DecidabilityClassI}
	if route := Route(types.LayerOperational, a, b); route != types.RouteFormalVerification {
		t.Fatalf("expected FormalVerification, got %s", route)
	}
}

func TestClassIIIRoutesToConstitutionalJury(t *testing.T) {
	a := types.ChannelAVerdict{Pass: true}
	b := types.ChannelBVerdict{AlignmentScore: 0.6, DecidabilityClass: types.DecidabilityClassIII}
	if route := Route(types.LayerOperational, a, b); route != types.RouteConstitutionalJury {
		t.Fatalf("expected ConstitutionalJury, got %s", route)
	}
}

func TestFrictionMonotonicity(t *testing.T) {
	low := Friction(types.LayerOperational, types.ChannelBVerdict{AlignmentScore: 0.2, DecidabilityClass: types.DecidabilityClassII})
	high := Friction(types.LayerOperational, types.ChannelBVerdict{AlignmentScore: 0.9, DecidabilityClass: types.DecidabilityClassII})
	if low.RequiredQuorum < high.RequiredQuorum {
		t.Fatalf("expected lower alignment to require higher quorum: low=%v high=%v", low.RequiredQuorum, high.RequiredQuorum)
	}
	if low.TimelockDurationS < high.TimelockDurationS {
		t.Fatalf("expected lower alignment to require longer timelock: low=%v high=%v", low.TimelockDurationS, high.TimelockDurationS)
	}
}

func TestLayerFloors(t *testing.T) {
	b := types.ChannelBVerdict{AlignmentScore: 1.0, DecidabilityClass: types.DecidabilityClassII}
	l1 := Friction(types.LayerConstitutional, b)
	if l1.RequiredQuorum < 0.67 {
		t.Fatalf("expected L1 quorum floor 0.67, got %v", l1.RequiredQuorum)
	}
	if l1.TimelockDurationS < 30*86400 {
		t.Fatalf("expected L1 timelock floor 30 days, got %d", l1.TimelockDurationS)
	}
	l3 := Friction(types.LayerExecution, b)
	if l3.RequiredQuorum < 0.05 {
		t.Fatalf("expected L3 quorum floor 0.05, got %v", l3.RequiredQuorum)
	}
	if l3.TimelockDurationS < 12*3600 {
		t.Fatalf("expected L3 timelock floor 12h, got %d", l3.TimelockDurationS)
	}
}

func TestPolicyOverridesFrictionConstants(t *testing.T) {
	p := Policy{
		BaseQuorum:          0.20,
		BaseTimelockS:       1000,
		L1MinQuorum:         0.80,
		L1MinTimelockS:      50_000_000,
		L3MinQuorum:         0.01,
		L3MinTimelockS:      60,
		ClassIVMinQuorum:    0.9,
		ClassIVMinTimelockS: 2_000_000,
	}
	b := types.ChannelBVerdict{AlignmentScore: 1.0, DecidabilityClass: types.DecidabilityClassII}

	f := p.Friction(types.LayerOperational, b)
	if f.RequiredQuorum != 0.20 {
		t.Fatalf("expected configured base quorum 0.20 at perfect alignment, got %v", f.RequiredQuorum)
	}
	if f.TimelockDurationS != 1000 {
		t.Fatalf("expected configured base timelock 1000s, got %d", f.TimelockDurationS)
	}

	l1 := p.Friction(types.LayerConstitutional, b)
	if l1.RequiredQuorum != 0.80 || l1.TimelockDurationS != 50_000_000 {
		t.Fatalf("expected configured L1 floors, got %+v", l1)
	}

	iv := p.Friction(types.LayerOperational, types.ChannelBVerdict{AlignmentScore: 1.0, DecidabilityClass: types.DecidabilityClassIV})
	if iv.RequiredQuorum < 0.9 || iv.TimelockDurationS < 2_000_000 {
		t.Fatalf("expected configured Class IV floors, got %+v", iv)
	}
}
