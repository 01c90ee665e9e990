package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// defaultOracleBondDrops matches ORACLE_BOND from spec §6.
const defaultOracleBondDrops = "100000000000"

// Load reads the TOML document at path. A missing file is not an error: a
// default configuration is written to path and returned, matching the
// config-bootstrap idiom this module inherited from its lineage.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.Params.OracleBondDrops == "" {
		cfg.Params.OracleBondDrops = defaultOracleBondDrops
	}
	return cfg, nil
}

// createDefault writes and returns the normative defaults of spec §6.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir: "./governcore-data",
		Params: ProtocolParams{
			MaxComplexity:        10000,
			OracleBondDrops:      defaultOracleBondDrops,
			OracleEpochLedgers:   201_600,
			OracleWindowLedgers:  1000,
			ActiveOracleSetSize:  101,
			JurySize:             21,
			JuryVotingPeriodSecs: 72 * 3600,
			BaseQuorum:           0.10,
			BaseTimelockSecs:     86400,
		},
		Policy: Policy{
			SlashNonRevealBps:      1500,
			SlashInactivityBps:     500,
			SlashFraudBps:          10000,
			L1MinQuorum:            0.67,
			L1MinTimelockSecs:      30 * 86400,
			L3MinQuorum:            0.05,
			L3MinTimelockSecs:      12 * 3600,
			ClassIVMinQuorum:       0.5,
			ClassIVMinTimelockSecs: 7 * 86400,
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
