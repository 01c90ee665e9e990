package config

// ProtocolParams mirrors the normative constants of spec section 6.
// cmd/governcored passes OracleBondDrops, ActiveOracleSetSize and
// OracleEpochLedgers to registry.WithLimits and BaseQuorum and
// BaseTimelockSecs to router.Policy; MaxComplexity, OracleWindowLedgers,
// JurySize and JuryVotingPeriodSecs are not passed to any subsystem, which
// use their compiled-in constants.
type ProtocolParams struct {
	MaxComplexity        uint64  `toml:"MaxComplexity"`
	OracleBondDrops      string  `toml:"OracleBondDrops"`
	OracleEpochLedgers   uint64  `toml:"OracleEpochLedgers"`
	OracleWindowLedgers  uint64  `toml:"OracleWindowLedgers"`
	ActiveOracleSetSize  int     `toml:"ActiveOracleSetSize"`
	JurySize             int     `toml:"JurySize"`
	JuryVotingPeriodSecs uint64  `toml:"JuryVotingPeriodSecs"`
	BaseQuorum           float64 `toml:"BaseQuorum"`
	BaseTimelockSecs     uint64  `toml:"BaseTimelockSecs"`
}

// Policy carries the slash rates and friction floors an operator may retune
// without recompiling (§4.7, §4.6). Fractions are in
// [0,1] unless noted.
type Policy struct {
	SlashNonRevealBps  uint64 `toml:"SlashNonRevealBps"`
	SlashInactivityBps uint64 `toml:"SlashInactivityBps"`
	SlashFraudBps      uint64 `toml:"SlashFraudBps"`

	L1MinQuorum       float64 `toml:"L1MinQuorum"`
	L1MinTimelockSecs uint64  `toml:"L1MinTimelockSecs"`
	L3MinQuorum       float64 `toml:"L3MinQuorum"`
	L3MinTimelockSecs uint64  `toml:"L3MinTimelockSecs"`

	ClassIVMinQuorum       float64 `toml:"ClassIVMinQuorum"`
	ClassIVMinTimelockSecs uint64  `toml:"ClassIVMinTimelockSecs"`
}

// Config is the top-level document persisted to and loaded from TOML.
type Config struct {
	DataDir string         `toml:"DataDir"`
	Params  ProtocolParams `toml:"Params"`
	Policy  Policy         `toml:"Policy"`
}
