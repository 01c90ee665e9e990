package config

import "fmt"

// Validate checks the cross-field invariants a loaded Config must satisfy
// before any subsystem is constructed from it. It never mutates cfg.
func Validate(cfg Config) error {
	if cfg.Params.MaxComplexity == 0 {
		return fmt.Errorf("params: max_complexity must be positive")
	}
	if cfg.Params.ActiveOracleSetSize <= 0 {
		return fmt.Errorf("params: active_oracle_set_size must be positive")
	}
	if cfg.Params.JurySize <= 0 {
		return fmt.Errorf("params: jury_size must be positive")
	}
	if cfg.Params.BaseQuorum <= 0 || cfg.Params.BaseQuorum > 1 {
		return fmt.Errorf("params: base_quorum must be in (0,1]")
	}
	if cfg.Policy.SlashFraudBps > 10000 {
		return fmt.Errorf("policy: slash_fraud_bps exceeds 10000 (100%%)")
	}
	if cfg.Policy.SlashNonRevealBps > cfg.Policy.SlashFraudBps {
		return fmt.Errorf("policy: slash_non_reveal_bps must not exceed slash_fraud_bps")
	}
	if cfg.Policy.L1MinQuorum <= cfg.Policy.L3MinQuorum {
		return fmt.Errorf("policy: l1_min_quorum must exceed l3_min_quorum")
	}
	if cfg.Policy.L1MinTimelockSecs <= cfg.Policy.L3MinTimelockSecs {
		return fmt.Errorf("policy: l1_min_timelock must exceed l3_min_timelock")
	}
	return nil
}
