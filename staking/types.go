// Package staking implements the bond, slash, and reward ledger for
// registered oracles. It never decides who is active (the registry
// package's concern) and never slashes for Channel B disagreement: only
// non-reveal, sustained inactivity, and proven fraud are punishable.
package staking

import (
	"math/big"
	"time"
)

// SlashType names the three punishable conditions.
type SlashType string

const (
	SlashNonReveal  SlashType = "NON_REVEAL"
	SlashInactivity SlashType = "INACTIVITY"
	SlashFraud      SlashType = "FRAUD"
)

// Slash rates, expressed in basis points of the oracle's current bond at
// the moment the slash is applied.
const (
	NonRevealSlashBps  uint64 = 1500
	InactivitySlashBps uint64 = 500
	FraudSlashBps      uint64 = 10000
)

// InactivityMissedRevealThreshold is the cumulative missed-reveal count
// (within an epoch) that triggers an inactivity slash.
const InactivityMissedRevealThreshold uint64 = 3

// EjectionSlashFractionBps is the cumulative-slash-against-original-bond
// fraction beyond which an oracle is automatically ejected, expressed in
// basis points (5000 = 50%).
const EjectionSlashFractionBps uint64 = 5000

const bpsDenominator = uint64(10000)

// Rates carries the slash rates and auto-ejection threshold the ledger
// applies, in basis points. Operators retune the three slash rates per
// deployment through the config's Policy section; the host keeps the
// ejection threshold at EjectionSlashFractionBps. DefaultRates returns the
// normative defaults.
type Rates struct {
	NonRevealBps        uint64
	InactivityBps       uint64
	FraudBps            uint64
	EjectionFractionBps uint64
}

// DefaultRates returns the normative slash rates.
func DefaultRates() Rates {
	return Rates{
		NonRevealBps:        NonRevealSlashBps,
		InactivityBps:       InactivitySlashBps,
		FraudBps:            FraudSlashBps,
		EjectionFractionBps: EjectionSlashFractionBps,
	}
}

// scaleByBps returns value * bps / 10000, floored. Mirrors the bond-decay
// scaling idiom used for weight penalties elsewhere in the module.
func scaleByBps(value *big.Int, bps uint64) *big.Int {
	if value == nil || value.Sign() <= 0 || bps == 0 {
		return big.NewInt(0)
	}
	scaled := new(big.Int).Mul(value, new(big.Int).SetUint64(bps))
	scaled.Div(scaled, new(big.Int).SetUint64(bpsDenominator))
	return scaled
}

// SlashEvent is one entry in the ledger's append-only slash history. Once
// written with Executed=true it is never mutated; replaying the proof that
// produced it is recognized by ReplayKey and applied as a no-op.
type SlashEvent struct {
	ID          string
	OracleID    string
	Type        SlashType
	AmountDrops *big.Int
	ProposalID  string
	Epoch       uint64
	Timestamp   time.Time
	Executed    bool
	ReplayKey   string
}

// SlashRecord is the outcome of applying a single slash.
type SlashRecord struct {
	OracleID       string
	Type           SlashType
	BpsApplied     uint64
	AmountDrops    *big.Int
	RemainingBond  *big.Int
	Ejected        bool
	EjectionReason string
}
