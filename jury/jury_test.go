package jury

import (
	"math/big"
	"testing"
	"time"
)

func eligiblePool(n int, now time.Time) []EligibleAccount {
	pool := make([]EligibleAccount, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, EligibleAccount{
			Address:      string(rune('a' + i)),
			BalanceDrops: big.NewInt(int64(1_000_000 * (i + 1))),
			LastActiveAt: now.Add(-time.Hour),
		})
	}
	return pool
}

func TestSelectDeterministic(t *testing.T) {
	now := time.Now()
	pool := eligiblePool(30, now)
	seed := []byte("ledger-hash-at-submission")

	a, err := Select("prop-1", seed, pool, now)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	b, err := Select("prop-1", seed, pool, now)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(a) != JurySize {
		t.Fatalf("expected %d jurors, got %d", JurySize, len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("selection not deterministic at index %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestSelectInsufficientEligible(t *testing.T) {
	now := time.Now()
	pool := eligiblePool(10, now)
	if _, err := Select("prop-1", []byte("seed"), pool, now); err != ErrInsufficientEligible {
		t.Fatalf("expected ErrInsufficientEligible, got %v", err)
	}
}

func TestSelectExcludesStaleAccounts(t *testing.T) {
	now := time.Now()
	pool := eligiblePool(25, now)
	for i := range pool {
		pool[i].LastActiveAt = now.Add(-100 * 24 * time.Hour)
	}
	if _, err := Select("prop-1", []byte("seed"), pool, now); err != ErrInsufficientEligible {
		t.Fatalf("expected stale accounts to be filtered out, got %v", err)
	}
}

func TestPanelResolveApproved(t *testing.T) {
	now := time.Now()
	p := NewPanel(nil)
	jurors := []string{"j1", "j2", "j3"}
	if err := p.Open("prop-1", jurors, now); err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, j := range jurors {
		if err := p.CastVote("prop-1", j, ChoiceYes, now); err != nil {
			t.Fatalf("cast vote: %v", err)
		}
	}
	verdict, err := p.Resolve("prop-1", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if verdict != VerdictApproved {
		t.Fatalf("expected APPROVED, got %s", verdict)
	}
	// Idempotent re-resolve.
	again, err := p.Resolve("prop-1", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again != verdict {
		t.Fatalf("resolve not idempotent: %s vs %s", again, verdict)
	}
}

func TestPanelResolveNoVerdictOnSplit(t *testing.T) {
	now := time.Now()
	p := NewPanel(nil)
	jurors := []string{"j1", "j2", "j3"}
	if err := p.Open("prop-1", jurors, now); err != nil {
		t.Fatalf("open: %v", err)
	}
	p.CastVote("prop-1", "j1", ChoiceYes, now)
	p.CastVote("prop-1", "j2", ChoiceNo, now)
	p.CastVote("prop-1", "j3", ChoiceAbstain, now)

	verdict, err := p.Resolve("prop-1", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if verdict != VerdictNoVerdict {
		t.Fatalf("expected NO_VERDICT, got %s", verdict)
	}
}

func TestPanelRejectsDoubleVoteAndNonJurors(t *testing.T) {
	now := time.Now()
	p := NewPanel(nil)
	if err := p.Open("prop-1", []string{"j1"}, now); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := p.CastVote("prop-1", "j1", ChoiceYes, now); err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if err := p.CastVote("prop-1", "j1", ChoiceNo, now); err != ErrAlreadyVoted {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if err := p.CastVote("prop-1", "intruder", ChoiceYes, now); err != ErrNotAJuror {
		t.Fatalf("expected ErrNotAJuror, got %v", err)
	}
}

func TestPanelResolveAfterDeadlineWithPartialVotes(t *testing.T) {
	now := time.Now()
	p := NewPanel(nil)
	jurors := []string{"j1", "j2", "j3"}
	if err := p.Open("prop-1", jurors, now); err != nil {
		t.Fatalf("open: %v", err)
	}
	p.CastVote("prop-1", "j1", ChoiceYes, now)

	if _, err := p.Resolve("prop-1", now); err == nil {
		t.Fatalf("expected resolve to refuse before deadline with partial votes")
	}
	verdict, err := p.Resolve("prop-1", now.Add(VotingPeriod+time.Second))
	if err != nil {
		t.Fatalf("resolve after deadline: %v", err)
	}
	if verdict != VerdictNoVerdict {
		t.Fatalf("expected NO_VERDICT with only 1/3 voting, got %s", verdict)
	}
}
