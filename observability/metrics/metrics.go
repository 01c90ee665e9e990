// Package metrics exposes one lazily-initialized prometheus.Registerer-backed
// struct per core subsystem, following the sync.Once singleton-getter idiom
// this module's lineage uses throughout its own metrics packages.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ConsensusMetrics tracks commit-reveal round activity.
type ConsensusMetrics struct {
	commits      *prometheus.CounterVec
	reveals      *prometheus.CounterVec
	nonReveals   *prometheus.CounterVec
	roundsClosed *prometheus.CounterVec
}

// RegistryMetrics tracks oracle registry churn.
type RegistryMetrics struct {
	registrations *prometheus.CounterVec
	ejections     *prometheus.CounterVec
	activeSetSize prometheus.Gauge
}

// SlashingMetrics tracks the staking/slashing ledger.
type SlashingMetrics struct {
	slashes          *prometheus.CounterVec
	fraudProofs      *prometheus.CounterVec
	epochPoolBalance prometheus.Gauge
}

// RouterMetrics tracks decidability routing outcomes.
type RouterMetrics struct {
	routes *prometheus.CounterVec
}

var (
	consensusOnce sync.Once
	consensusReg  *ConsensusMetrics

	registryOnce sync.Once
	registryReg  *RegistryMetrics

	slashingOnce sync.Once
	slashingReg  *SlashingMetrics

	routerOnce sync.Once
	routerReg  *RouterMetrics
)

// Consensus returns the singleton commit-reveal metrics registry.
func Consensus() *ConsensusMetrics {
	consensusOnce.Do(func() {
		consensusReg = &ConsensusMetrics{
			commits:      newCounterVec("governcore", "consensus", "commits_total", "Accepted oracle commitments.", "proposal_layer"),
			reveals:      newCounterVec("governcore", "consensus", "reveals_total", "Accepted oracle reveals.", "proposal_layer"),
			nonReveals:   newCounterVec("governcore", "consensus", "non_reveals_total", "Committers who never revealed by the round deadline.", "proposal_layer"),
			roundsClosed: newCounterVec("governcore", "consensus", "rounds_closed_total", "Commit-reveal rounds that reached Complete.", "quorum_reached"),
		}
	})
	return consensusReg
}

// RecordCommit increments the commit counter for a proposal's layer.
func (m *ConsensusMetrics) RecordCommit(layer string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(layer).Inc()
}

// RecordReveal increments the reveal counter for a proposal's layer.
func (m *ConsensusMetrics) RecordReveal(layer string) {
	if m == nil {
		return
	}
	m.reveals.WithLabelValues(layer).Inc()
}

// RecordNonReveal increments the non-reveal counter for a proposal's layer.
func (m *ConsensusMetrics) RecordNonReveal(layer string) {
	if m == nil {
		return
	}
	m.nonReveals.WithLabelValues(layer).Inc()
}

// RecordRoundClosed records a tallied round, segmented by whether quorum was
// reached.
func (m *ConsensusMetrics) RecordRoundClosed(quorumReached bool) {
	if m == nil {
		return
	}
	m.roundsClosed.WithLabelValues(boolLabel(quorumReached)).Inc()
}

// Registry returns the singleton oracle registry metrics registry.
func Registry() *RegistryMetrics {
	registryOnce.Do(func() {
		registryReg = &RegistryMetrics{
			registrations: newCounterVec("governcore", "registry", "registrations_total", "Oracles that posted a bond.", "status"),
			ejections:     newCounterVec("governcore", "registry", "ejections_total", "Oracles permanently ejected.", "reason"),
			activeSetSize: newGauge("governcore", "registry", "active_set_size", "Number of oracles currently in the active set."),
		}
	})
	return registryReg
}

// RecordRegistration increments the registration counter.
func (m *RegistryMetrics) RecordRegistration(status string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(status).Inc()
}

// RecordEjection increments the ejection counter for a reason.
func (m *RegistryMetrics) RecordEjection(reason string) {
	if m == nil {
		return
	}
	m.ejections.WithLabelValues(reason).Inc()
}

// SetActiveSetSize sets the active-set gauge to n.
func (m *RegistryMetrics) SetActiveSetSize(n int) {
	if m == nil {
		return
	}
	m.activeSetSize.Set(float64(n))
}

// Slashing returns the singleton staking/slashing metrics registry.
func Slashing() *SlashingMetrics {
	slashingOnce.Do(func() {
		slashingReg = &SlashingMetrics{
			slashes:          newCounterVec("governcore", "slashing", "slashes_total", "Applied slash events.", "type"),
			fraudProofs:      newCounterVec("governcore", "slashing", "fraud_proofs_total", "Submitted fraud proofs.", "proven"),
			epochPoolBalance: newGauge("governcore", "slashing", "epoch_pool_balance_drops", "Remaining reward pool balance for the current epoch, in drops."),
		}
	})
	return slashingReg
}

// RecordSlash increments the slash counter for a slash type.
func (m *SlashingMetrics) RecordSlash(slashType string) {
	if m == nil {
		return
	}
	m.slashes.WithLabelValues(slashType).Inc()
}

// RecordFraudProof increments the fraud-proof counter, segmented by verdict.
func (m *SlashingMetrics) RecordFraudProof(proven bool) {
	if m == nil {
		return
	}
	m.fraudProofs.WithLabelValues(boolLabel(proven)).Inc()
}

// SetEpochPoolBalance sets the epoch reward pool gauge.
func (m *SlashingMetrics) SetEpochPoolBalance(drops float64) {
	if m == nil {
		return
	}
	m.epochPoolBalance.Set(drops)
}

// Router returns the singleton decidability router metrics registry.
func Router() *RouterMetrics {
	routerOnce.Do(func() {
		routerReg = &RouterMetrics{
			routes: newCounterVec("governcore", "router", "routes_total", "Decidability route decisions.", "route"),
		}
	})
	return routerReg
}

// RecordRoute increments the route counter for the chosen route.
func (m *RouterMetrics) RecordRoute(route string) {
	if m == nil {
		return
	}
	m.routes.WithLabelValues(route).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func newCounterVec(namespace, subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGauge(namespace, subsystem, name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
	prometheus.MustRegister(g)
	return g
}
