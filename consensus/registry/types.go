// Package registry implements the oracle registry: bonding, unbonding,
// participation tracking, fraud ejection, and epoch-based active-set
// rotation for the commit-reveal oracle pool.
package registry

import (
	"math/big"
	"time"
)

// MinimumBondDrops is the bond an oracle must post to register, denominated
// in drops (the fixed-point unit all economic quantities use).
var MinimumBondDrops = big.NewInt(100_000_000_000)

// EpochLength is the number of blocks/ticks between active-set rotations.
const EpochLength uint64 = 201_600

// ActiveSetSize bounds the number of oracles selected into the active set
// for a given epoch.
const ActiveSetSize = 101

// Epoch is one active-set rotation window, measured in ledger intervals.
type Epoch struct {
	Number      uint64
	StartLedger uint64
	EndLedger   uint64
	ActiveSet   []string
}

// Record is one oracle's registry entry.
type Record struct {
	OracleID            string
	BondDrops           *big.Int
	RegisteredAt        time.Time
	UnbondingAt         *time.Time
	MissedReveals       uint64
	SuccessfulReveals   uint64
	TotalParticipations uint64
	FraudCount          uint64
	CumulativeSlashBps  uint64
	Ejected             bool
}

// Clone returns a deep copy so callers cannot mutate registry internals.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	if r.BondDrops != nil {
		clone.BondDrops = new(big.Int).Set(r.BondDrops)
	}
	if r.UnbondingAt != nil {
		t := *r.UnbondingAt
		clone.UnbondingAt = &t
	}
	return &clone
}

// Active reports whether the record is eligible for active-set selection:
// bonded, not unbonding, and not ejected.
func (r *Record) Active() bool {
	return r != nil && !r.Ejected && r.UnbondingAt == nil && r.BondDrops != nil && r.BondDrops.Sign() > 0
}
