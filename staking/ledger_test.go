package staking

import (
	"math/big"
	"testing"
	"time"

	"governcore/consensus/registry"
	"governcore/core/types"
	"governcore/internal/fraud"
	"governcore/storage"
)

func newTestLedger(t *testing.T) (*Ledger, *registry.Registry) {
	t.Helper()
	reg := registry.New(storage.NewMemDB(), nil)
	if err := reg.Register("oracle-1", registry.MinimumBondDrops, time.Now()); err != nil {
		t.Fatalf("register: %v", err)
	}
	ledger, err := NewLedger(reg, storage.NewMemDB(), nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return ledger, reg
}

func TestApplyNonRevealSlashReducesBond(t *testing.T) {
	ledger, reg := newTestLedger(t)
	rec, err := ledger.ApplyNonRevealSlash("oracle-1", "proposal-1", time.Now())
	if err != nil {
		t.Fatalf("apply slash: %v", err)
	}
	if rec.BpsApplied != NonRevealSlashBps {
		t.Fatalf("expected %d bps, got %d", NonRevealSlashBps, rec.BpsApplied)
	}
	updated, err := reg.Get("oracle-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.BondDrops.Cmp(registry.MinimumBondDrops) >= 0 {
		t.Fatalf("expected bond to shrink, still %s", updated.BondDrops)
	}
}

func TestApplyNonRevealSlashIsIdempotentPerProposal(t *testing.T) {
	ledger, reg := newTestLedger(t)
	if _, err := ledger.ApplyNonRevealSlash("oracle-1", "proposal-1", time.Now()); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first, _ := reg.Get("oracle-1")
	if _, err := ledger.ApplyNonRevealSlash("oracle-1", "proposal-1", time.Now()); err != nil {
		t.Fatalf("replay apply: %v", err)
	}
	second, _ := reg.Get("oracle-1")
	if first.BondDrops.Cmp(second.BondDrops) != 0 {
		t.Fatalf("replaying the same proof must not double-slash: %s vs %s", first.BondDrops, second.BondDrops)
	}
}

func TestApplyInactivitySlashRespectsCooldown(t *testing.T) {
	ledger, _ := newTestLedger(t)
	now := time.Now()
	if _, err := ledger.ApplyInactivitySlash("oracle-1", 1, 3, now); err != nil {
		t.Fatalf("first inactivity slash: %v", err)
	}
	if _, err := ledger.ApplyInactivitySlash("oracle-1", 1, 5, now); err != ErrCooldownActive {
		t.Fatalf("expected cooldown error, got %v", err)
	}
	if _, err := ledger.ApplyInactivitySlash("oracle-1", 2, 3, now); err != nil {
		t.Fatalf("next epoch slash should succeed: %v", err)
	}
}

func TestApplyFraudSlashEjectsImmediately(t *testing.T) {
	ledger, reg := newTestLedger(t)
	rec, err := ledger.ApplyFraudSlash("oracle-1", "proposal-1", time.Now())
	if err != nil {
		t.Fatalf("fraud slash: %v", err)
	}
	if !rec.Ejected {
		t.Fatalf("fraud must eject immediately")
	}
	updated, err := reg.Get("oracle-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !updated.Ejected {
		t.Fatalf("registry record should reflect ejection")
	}
	if updated.BondDrops.Sign() != 0 {
		t.Fatalf("fraud slashes the full bond, left with %s", updated.BondDrops)
	}
}

func TestCumulativeSlashingEjectsPastHalfBond(t *testing.T) {
	ledger, reg := newTestLedger(t)
	for i := 0; i < 5; i++ {
		if _, err := ledger.ApplyNonRevealSlash("oracle-1", proposalID(i), time.Now()); err != nil {
			t.Fatalf("slash %d: %v", i, err)
		}
	}
	updated, err := reg.Get("oracle-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !updated.Ejected {
		t.Fatalf("expected ejection once cumulative slashing passed 50%% of bond")
	}
}

func TestSlashHistoryIsAppendOnlyAndSurvivesRestart(t *testing.T) {
	reg := registry.New(storage.NewMemDB(), nil)
	if err := reg.Register("oracle-1", registry.MinimumBondDrops, time.Now()); err != nil {
		t.Fatalf("register: %v", err)
	}
	db := storage.NewMemDB()
	ledger, err := NewLedger(reg, db, nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	now := time.Now()
	if _, err := ledger.ApplyNonRevealSlash("oracle-1", "proposal-1", now); err != nil {
		t.Fatalf("slash: %v", err)
	}
	if _, err := ledger.ApplyNonRevealSlash("oracle-1", "proposal-2", now); err != nil {
		t.Fatalf("slash: %v", err)
	}

	history, err := ledger.History("oracle-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	for _, ev := range history {
		if !ev.Executed {
			t.Fatalf("persisted slash events must be marked executed")
		}
		if ev.ID == "" || ev.ReplayKey == "" {
			t.Fatalf("slash event missing id or replay key: %+v", ev)
		}
	}

	// A ledger reopened over the same store must treat already-applied
	// proofs as replays.
	reopened, err := NewLedger(reg, db, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	before, _ := reg.Get("oracle-1")
	if _, err := reopened.ApplyNonRevealSlash("oracle-1", "proposal-1", now); err != nil {
		t.Fatalf("replay after restart: %v", err)
	}
	after, _ := reg.Get("oracle-1")
	if before.BondDrops.Cmp(after.BondDrops) != 0 {
		t.Fatalf("replay after restart double-slashed: %s vs %s", before.BondDrops, after.BondDrops)
	}
}

func TestProcessFraudProofSlashesOnlyWhenProven(t *testing.T) {
	ledger, reg := newTestLedger(t)
	now := time.Now()

	notProven := fraud.Result{ProposalID: "proposal-1"}
	if _, err := ledger.ProcessFraudProof("oracle-1", notProven, now); err != ErrFraudNotProven {
		t.Fatalf("expected ErrFraudNotProven, got %v", err)
	}
	intact, _ := reg.Get("oracle-1")
	if intact.BondDrops.Cmp(registry.MinimumBondDrops) != 0 {
		t.Fatalf("unproven fraud must not touch the bond")
	}

	proven := fraud.Result{
		ProposalID: "proposal-1",
		Proven:     true,
		Discrepancies: []fraud.Discrepancy{
			{Field: "pass", Claimed: true, Recomputed: false},
		},
		RecomputedVerdict: types.ChannelAVerdict{},
	}
	rec, err := ledger.ProcessFraudProof("oracle-1", proven, now)
	if err != nil {
		t.Fatalf("process proven fraud: %v", err)
	}
	if !rec.Ejected {
		t.Fatalf("proven fraud must eject")
	}
}

func proposalID(i int) string {
	return "proposal-" + string(rune('a'+i))
}

func TestWithRatesAppliesConfiguredBps(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ledger = ledger.WithRates(Rates{
		NonRevealBps:        100,
		InactivityBps:       50,
		FraudBps:            10000,
		EjectionFractionBps: EjectionSlashFractionBps,
	})
	rec, err := ledger.ApplyNonRevealSlash("oracle-1", "proposal-1", time.Now())
	if err != nil {
		t.Fatalf("apply slash: %v", err)
	}
	if rec.BpsApplied != 100 {
		t.Fatalf("expected configured 100 bps, got %d", rec.BpsApplied)
	}
	want := new(big.Int).Div(new(big.Int).Mul(registry.MinimumBondDrops, big.NewInt(100)), big.NewInt(10000))
	if rec.AmountDrops.Cmp(want) != 0 {
		t.Fatalf("expected slash amount %s, got %s", want, rec.AmountDrops)
	}
}
