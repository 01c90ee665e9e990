package voting

import (
	"math/big"
	"testing"

	"governcore/core/types"
)

func frictionWithQuorum(q float64) types.FrictionParams {
	return types.FrictionParams{RequiredQuorum: q}
}

func TestCastVoteOncePerVoter(t *testing.T) {
	e := New(nil)
	if err := e.OpenPeriod("p1", frictionWithQuorum(0.1)); err != nil {
		t.Fatalf("open period: %v", err)
	}
	if err := e.CastVote("p1", "voter1", ChoiceYes, big.NewInt(10)); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if err := e.CastVote("p1", "voter1", ChoiceNo, big.NewInt(10)); err != ErrAlreadyVoted {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestDelegationAddsToEffectivePower(t *testing.T) {
	e := New(nil)
	if err := e.OpenPeriod("p1", frictionWithQuorum(0.1)); err != nil {
		t.Fatalf("open period: %v", err)
	}
	if err := e.Delegate("voterA", "voterB", big.NewInt(40)); err != nil {
		t.Fatalf("delegate: %v", err)
	}
	if err := e.CastVote("p1", "voterB", ChoiceYes, big.NewInt(10)); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	tally, err := e.ClosePeriod("p1", big.NewInt(100))
	if err != nil {
		t.Fatalf("close period: %v", err)
	}
	if tally.YesPower.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected yes power 50 (10 own + 40 delegated), got %s", tally.YesPower)
	}
}

func TestDelegatorOwnVoteIsNotDoubleCounted(t *testing.T) {
	e := New(nil)
	if err := e.OpenPeriod("p1", frictionWithQuorum(0.1)); err != nil {
		t.Fatalf("open period: %v", err)
	}
	if err := e.Delegate("voterA", "voterB", big.NewInt(40)); err != nil {
		t.Fatalf("delegate: %v", err)
	}
	if err := e.CastVote("p1", "voterA", ChoiceNo, big.NewInt(5)); err != nil {
		t.Fatalf("cast vote A: %v", err)
	}
	if err := e.CastVote("p1", "voterB", ChoiceYes, big.NewInt(10)); err != nil {
		t.Fatalf("cast vote B: %v", err)
	}
	tally, err := e.ClosePeriod("p1", big.NewInt(100))
	if err != nil {
		t.Fatalf("close period: %v", err)
	}
	if tally.YesPower.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected yes power 50, got %s", tally.YesPower)
	}
	if tally.NoPower.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("expected no power 5 (voterA's own power only), got %s", tally.NoPower)
	}
}

func TestSelfDelegationRejected(t *testing.T) {
	e := New(nil)
	if err := e.Delegate("voterA", "voterA", big.NewInt(10)); err != ErrSelfDelegation {
		t.Fatalf("expected ErrSelfDelegation, got %v", err)
	}
}

func TestClosePeriodIsIdempotent(t *testing.T) {
	e := New(nil)
	if err := e.OpenPeriod("p1", frictionWithQuorum(0.1)); err != nil {
		t.Fatalf("open period: %v", err)
	}
	if err := e.CastVote("p1", "voter1", ChoiceYes, big.NewInt(20)); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	first, err := e.ClosePeriod("p1", big.NewInt(100))
	if err != nil {
		t.Fatalf("close period: %v", err)
	}
	second, err := e.ClosePeriod("p1", big.NewInt(999))
	if err != nil {
		t.Fatalf("close period again: %v", err)
	}
	if first.ParticipationRate != second.ParticipationRate {
		t.Fatalf("expected idempotent tally, got %v then %v", first, second)
	}
}

func TestQuorumAndPassThreshold(t *testing.T) {
	e := New(nil)
	if err := e.OpenPeriod("p1", frictionWithQuorum(0.3)); err != nil {
		t.Fatalf("open period: %v", err)
	}
	if err := e.CastVote("p1", "voter1", ChoiceYes, big.NewInt(20)); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if err := e.CastVote("p1", "voter2", ChoiceAbstain, big.NewInt(5)); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	tally, err := e.ClosePeriod("p1", big.NewInt(100))
	if err != nil {
		t.Fatalf("close period: %v", err)
	}
	if tally.QuorumReached {
		t.Fatalf("expected quorum not reached at 25%% participation vs 30%% threshold")
	}
	if tally.Passed {
		t.Fatalf("expected not passed since quorum not reached")
	}
}
