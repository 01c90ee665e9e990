package staking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"

	"governcore/consensus/potso/rewards"
	"governcore/core/events"
)

// EpochPerformance is the per-oracle participation tally for one epoch,
// supplied by the caller. It never reflects Channel B disagreement.
type EpochPerformance struct {
	OracleID           string
	BondDrops          *big.Int
	SuccessfulReveals  uint64
	ProposalsInEpoch   uint64
	MissedReveals      uint64
	FraudProofsAgainst uint64
}

// oracleAddress derives a deterministic 20-byte key for an oracle ID so
// the reward split can reuse the weighted-distribution arithmetic built
// for address-keyed ledgers.
func oracleAddress(oracleID string) [20]byte {
	sum := sha256.Sum256([]byte(oracleID))
	var addr [20]byte
	copy(addr[:], sum[:20])
	return addr
}

// performanceMultiplier implements the reward performance curve: below
// 50% success the multiplier floors at 0.5; above it, it scales linearly
// to 1.5 at 100% success, then missed reveals and a no-fraud bonus adjust
// it, clamped to [0.5, 1.5] and rounded to the nearest 0.01.
func performanceMultiplier(perf EpochPerformance) float64 {
	var p float64
	if perf.ProposalsInEpoch > 0 {
		p = float64(perf.SuccessfulReveals) / float64(perf.ProposalsInEpoch)
	}

	var m float64
	if p < 0.5 {
		m = 0.5
	} else {
		m = 0.5 + (p-0.5)/0.5
	}

	m -= 0.05 * float64(perf.MissedReveals)

	if perf.FraudProofsAgainst == 0 && p >= 0.95 {
		m += 0.1
	}

	if m < 0.5 {
		m = 0.5
	}
	if m > 1.5 {
		m = 1.5
	}
	return math.Round(m*100) / 100
}

// RewardShare is one oracle's payout for an epoch.
type RewardShare struct {
	OracleID string
	Base     *big.Int
	Weight   float64
	Amount   *big.Int
}

// DistributeRewards splits pool across performances proportionally to
// bond, then scales each share by that oracle's performance multiplier,
// flooring the final amount. Rounding dust accumulates in bucket for the
// next epoch rather than being lost.
func DistributeRewards(epoch uint64, pool *big.Int, performances []EpochPerformance, bucket *rewards.RoundingBucket, emitter events.Emitter) ([]RewardShare, error) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}

	weights := make([]rewards.WeightEntry, 0, len(performances))
	byAddr := make(map[[20]byte]EpochPerformance, len(performances))
	for _, perf := range performances {
		addr := oracleAddress(perf.OracleID)
		byAddr[addr] = perf
		bond := perf.BondDrops
		if bond == nil {
			bond = big.NewInt(0)
		}
		weights = append(weights, rewards.WeightEntry{Address: addr, Weight: bond})
	}

	distribution, err := rewards.SplitRewards(pool, weights, bucket)
	if err != nil {
		return nil, err
	}

	shares := make([]RewardShare, 0, len(distribution.Shares))
	for _, share := range distribution.Shares {
		perf := byAddr[share.Address]
		multiplier := performanceMultiplier(perf)

		scaled := new(big.Float).Mul(new(big.Float).SetInt(share.Amount), big.NewFloat(multiplier))
		final, _ := scaled.Int(nil)
		if final.Sign() < 0 {
			final.SetInt64(0)
		}

		if bucket != nil {
			leftover := new(big.Int).Sub(share.Amount, final)
			if leftover.Sign() > 0 {
				bucket.AddDust(leftover)
			}
		}

		shares = append(shares, RewardShare{
			OracleID: perf.OracleID,
			Base:     share.Amount,
			Weight:   multiplier,
			Amount:   final,
		})
		emitter.Emit(events.RewardDistributed{
			Epoch:      epoch,
			OracleID:   perf.OracleID,
			AmountDrop: final.String(),
		}.Event())
	}
	return shares, nil
}

const pendingRewardKeyFormat = "staking/pending/%s"

func pendingKey(oracleID string) []byte {
	return []byte(fmt.Sprintf(pendingRewardKeyFormat, hex.EncodeToString([]byte(oracleID))))
}

// DistributeEpochRewards splits the epoch pool across performances and
// accrues every share as a pending balance. Nothing is paid out here:
// claiming is a separate, explicit operation.
func (l *Ledger) DistributeEpochRewards(epoch uint64, pool *big.Int, performances []EpochPerformance, bucket *rewards.RoundingBucket) ([]RewardShare, error) {
	shares, err := DistributeRewards(epoch, pool, performances, bucket, l.emitter)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, share := range shares {
		if share.Amount == nil || share.Amount.Sign() <= 0 {
			continue
		}
		pending, err := l.pendingLocked(share.OracleID)
		if err != nil {
			return nil, err
		}
		pending.Add(pending, share.Amount)
		if err := l.db.Put(pendingKey(share.OracleID), pending.Bytes()); err != nil {
			return nil, err
		}
	}
	return shares, nil
}

// PendingReward returns an oracle's accrued, unclaimed reward balance.
func (l *Ledger) PendingReward(oracleID string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pendingLocked(oracleID)
}

// Claim zeroes an oracle's pending balance and returns the amount owed.
// Claiming with nothing pending returns zero without error.
func (l *Ledger) Claim(oracleID string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pending, err := l.pendingLocked(oracleID)
	if err != nil {
		return nil, err
	}
	if pending.Sign() > 0 {
		if err := l.db.Put(pendingKey(oracleID), nil); err != nil {
			return nil, err
		}
		l.emitter.Emit(events.RewardClaimed{OracleID: oracleID, AmountDrop: pending.String()}.Event())
	}
	return pending, nil
}

func (l *Ledger) pendingLocked(oracleID string) (*big.Int, error) {
	data, err := l.db.Get(pendingKey(oracleID))
	if err != nil || len(data) == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(data), nil
}
