// Package router implements the decidability router: it maps a proposal's
// layer plus its Channel A and Channel B verdicts to one of the fixed
// routes, and computes the friction (required quorum, timelock duration)
// that applies wherever voting occurs along that route.
package router

import (
	"math"

	"governcore/core/types"
)

const secondsPerDay = int64(86400)

// Policy carries the friction constants and per-layer floors. Operators
// retune them per deployment: the base quorum and timelock through the
// config's Params section, the floors through its Policy section;
// DefaultPolicy returns the normative defaults.
type Policy struct {
	BaseQuorum          float64
	BaseTimelockS       int64
	L1MinQuorum         float64
	L1MinTimelockS      int64
	L3MinQuorum         float64
	L3MinTimelockS      int64
	ClassIVMinQuorum    float64
	ClassIVMinTimelockS int64
}

// DefaultPolicy returns the normative friction constants.
func DefaultPolicy() Policy {
	return Policy{
		BaseQuorum:          0.10,
		BaseTimelockS:       86400,
		L1MinQuorum:         0.67,
		L1MinTimelockS:      30 * secondsPerDay,
		L3MinQuorum:         0.05,
		L3MinTimelockS:      12 * 3600,
		ClassIVMinQuorum:    0.5,
		ClassIVMinTimelockS: 7 * secondsPerDay,
	}
}

// Route decides the route for a proposal given its layer and verdicts. The
// routing table is evaluated top-to-bottom; the first matching condition
// wins.
func Route(layer types.Layer, a types.ChannelAVerdict, b types.ChannelBVerdict) types.Route {
	switch {
	case layer == types.LayerImmutable:
		return types.RouteRejected
	case !a.Pass:
		return types.RouteRejected
	case b.AIInterestConflict || b.DecidabilityClass == types.DecidabilityClassIV:
		return types.RouteHumanMajorityJury
	case b.DecidabilityClass == types.DecidabilityClassI:
		return types.RouteFormalVerification
	case b.DecidabilityClass == types.DecidabilityClassIII:
		return types.RouteConstitutionalJury
	default:
		return types.RouteStandardVoting
	}
}

// Friction computes the quorum and timelock a proposal must clear under
// the default policy. Deployments with operator-tuned constants call
// Policy.Friction instead.
func Friction(layer types.Layer, b types.ChannelBVerdict) types.FrictionParams {
	return DefaultPolicy().Friction(layer, b)
}

// Friction computes the quorum and timelock a proposal must clear,
// combining the alignment-score-derived formulas with the proposal's
// layer floor and, where applicable, the Class IV override.
func (p Policy) Friction(layer types.Layer, b types.ChannelBVerdict) types.FrictionParams {
	score := clamp01(b.AlignmentScore)

	quorumMultiplier := 1.0 + (1.0-score)*0.5
	timelockMultiplier := 1.0 + (1.0-score)*2.0

	// The Class IV override also applies whenever the AI-interest-conflict
	// flag alone routes a proposal to Human-Majority-Jury, even if Channel
	// B reported a lower class: recusal carries the same minimum friction
	// as an explicit Class IV verdict.
	classIVOverride := b.DecidabilityClass == types.DecidabilityClassIV || b.AIInterestConflict
	if classIVOverride {
		quorumMultiplier *= 1.5
		timelockMultiplier *= 2.0
	}

	requiredQuorum := p.BaseQuorum * quorumMultiplier
	timelockDurationS := int64(math.Floor(float64(p.BaseTimelockS) * timelockMultiplier))

	if classIVOverride {
		requiredQuorum = maxFloat(requiredQuorum, p.ClassIVMinQuorum)
		timelockDurationS = maxInt64(timelockDurationS, p.ClassIVMinTimelockS)
	}

	switch layer {
	case types.LayerConstitutional:
		requiredQuorum = maxFloat(requiredQuorum, p.L1MinQuorum)
		timelockDurationS = maxInt64(timelockDurationS, p.L1MinTimelockS)
	case types.LayerExecution:
		requiredQuorum = maxFloat(requiredQuorum, p.L3MinQuorum)
		timelockDurationS = maxInt64(timelockDurationS, p.L3MinTimelockS)
	}

	return types.FrictionParams{
		RequiredQuorum:      requiredQuorum,
		TimelockDurationS:   timelockDurationS,
		QuorumMultiplier:    quorumMultiplier,
		TimelockMultiplier:  timelockMultiplier,
		AlignmentScoreInput: score,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
