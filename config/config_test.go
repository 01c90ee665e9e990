package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "governcore.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(10000), cfg.Params.MaxComplexity)
	require.Equal(t, 101, cfg.Params.ActiveOracleSetSize)
	require.NoError(t, Validate(*cfg))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Params, reloaded.Params)
	require.Equal(t, cfg.Policy, reloaded.Policy)
}

func TestValidateRejectsInvertedFrictionFloors(t *testing.T) {
	cfg := Config{
		Params: ProtocolParams{
			MaxComplexity:       10000,
			ActiveOracleSetSize: 101,
			JurySize:            21,
			BaseQuorum:          0.10,
		},
		Policy: Policy{
			SlashFraudBps:     10000,
			L1MinQuorum:       0.05,
			L3MinQuorum:       0.67,
			L1MinTimelockSecs: 100,
			L3MinTimelockSecs: 200,
		},
	}
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsSlashRateInversion(t *testing.T) {
	cfg := Config{
		Params: ProtocolParams{
			MaxComplexity:       10000,
			ActiveOracleSetSize: 101,
			JurySize:            21,
			BaseQuorum:          0.10,
		},
		Policy: Policy{
			SlashNonRevealBps: 9000,
			SlashFraudBps:     1000,
			L1MinQuorum:       0.67,
			L3MinQuorum:       0.05,
			L1MinTimelockSecs: 2592000,
			L3MinTimelockSecs: 43200,
		},
	}
	require.Error(t, Validate(cfg))
}
