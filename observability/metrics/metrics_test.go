package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestConsensusMetricsRecordCommitAndReveal(t *testing.T) {
	m := Consensus()
	before := testutil.ToFloat64(m.commits.WithLabelValues("L2-Operational"))
	m.RecordCommit("L2-Operational")
	require.Equal(t, before+1, testutil.ToFloat64(m.commits.WithLabelValues("L2-Operational")))

	m.RecordReveal("L2-Operational")
	m.RecordNonReveal("L2-Operational")
	m.RecordRoundClosed(true)
}

func TestRegistryMetricsActiveSetSize(t *testing.T) {
	m := Registry()
	m.SetActiveSetSize(101)
	require.Equal(t, float64(101), testutil.ToFloat64(m.activeSetSize))
}

func TestSlashingMetricsNilSafe(t *testing.T) {
	var m *SlashingMetrics
	require.NotPanics(t, func() {
		m.RecordSlash("FRAUD")
		m.RecordFraudProof(true)
		m.SetEpochPoolBalance(100)
	})
}

func TestRouterMetricsRecordRoute(t *testing.T) {
	m := Router()
	before := testutil.ToFloat64(m.routes.WithLabelValues("StandardVoting"))
	m.RecordRoute("StandardVoting")
	require.Equal(t, before+1, testutil.ToFloat64(m.routes.WithLabelValues("StandardVoting")))
}
