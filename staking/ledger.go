package staking

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/google/uuid"

	"governcore/consensus/registry"
	"governcore/core/events"
	"governcore/internal/fraud"
	"governcore/storage"
)

var (
	// ErrCooldownActive is returned when an inactivity slash is attempted
	// twice against the same oracle within one epoch.
	ErrCooldownActive = errors.New("staking: inactivity slash already applied this epoch")
	// ErrFraudNotProven is returned by ProcessFraudProof when the supplied
	// result did not prove fraud; no economic consequence applies.
	ErrFraudNotProven = errors.New("staking: fraud proof not proven")
)

const (
	slashEventKeyFormat = "staking/slash/%016x"
	slashCountKey       = "staking/slash/count"
)

// Ledger applies slashes and reward distributions against a registry and
// owns the append-only slash-event history. Every applied slash is
// persisted with a replay key so re-submitting the same proof (e.g. after
// a crash-restart) is a no-op; inactivity slashing is additionally limited
// to once per oracle per epoch.
type Ledger struct {
	mu       sync.Mutex
	registry *registry.Registry
	db       storage.Database
	emitter  events.Emitter
	rates    Rates

	seq                uint64
	applied            map[string]struct{}
	inactivityCooldown map[string]uint64 // oracleID -> last epoch slashed
}

// NewLedger constructs a slashing and reward ledger over reg, rebuilding
// its replay guard and inactivity cooldowns from the slash history already
// persisted in db. A nil db falls back to an in-memory store; a nil
// emitter is treated as events.NoopEmitter.
func NewLedger(reg *registry.Registry, db storage.Database, emitter events.Emitter) (*Ledger, error) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if db == nil {
		db = storage.NewMemDB()
	}
	l := &Ledger{
		registry:           reg,
		db:                 db,
		emitter:            emitter,
		rates:              DefaultRates(),
		applied:            make(map[string]struct{}),
		inactivityCooldown: make(map[string]uint64),
	}
	if err := l.loadHistory(); err != nil {
		return nil, err
	}
	return l, nil
}

// WithRates swaps in operator-configured slash rates in place of the
// normative defaults.
func (l *Ledger) WithRates(r Rates) *Ledger {
	l.rates = r
	return l
}

// storedSlashEvent is the RLP shape of one history entry. RLP carries only
// unsigned integers, so the timestamp is stored as Unix seconds.
type storedSlashEvent struct {
	ID          string
	OracleID    string
	Type        string
	AmountDrops []byte
	ProposalID  string
	Epoch       uint64
	Timestamp   uint64
	Executed    bool
	ReplayKey   string
}

func toStoredEvent(ev SlashEvent) storedSlashEvent {
	s := storedSlashEvent{
		ID:         ev.ID,
		OracleID:   ev.OracleID,
		Type:       string(ev.Type),
		ProposalID: ev.ProposalID,
		Epoch:      ev.Epoch,
		Timestamp:  uint64(ev.Timestamp.Unix()),
		Executed:   ev.Executed,
		ReplayKey:  ev.ReplayKey,
	}
	if ev.AmountDrops != nil {
		s.AmountDrops = ev.AmountDrops.Bytes()
	}
	return s
}

func fromStoredEvent(s storedSlashEvent) SlashEvent {
	ev := SlashEvent{
		ID:         s.ID,
		OracleID:   s.OracleID,
		Type:       SlashType(s.Type),
		ProposalID: s.ProposalID,
		Epoch:      s.Epoch,
		Timestamp:  time.Unix(int64(s.Timestamp), 0).UTC(),
		Executed:   s.Executed,
		ReplayKey:  s.ReplayKey,
	}
	if len(s.AmountDrops) == 0 {
		ev.AmountDrops = big.NewInt(0)
	} else {
		ev.AmountDrops = new(big.Int).SetBytes(s.AmountDrops)
	}
	return ev
}

func (l *Ledger) loadHistory() error {
	count, err := l.loadCount()
	if err != nil {
		return err
	}
	for i := uint64(0); i < count; i++ {
		ev, err := l.loadEvent(i)
		if err != nil {
			return err
		}
		l.applied[ev.ReplayKey] = struct{}{}
		if ev.Type == SlashInactivity {
			l.inactivityCooldown[ev.OracleID] = ev.Epoch
		}
	}
	l.seq = count
	return nil
}

func (l *Ledger) loadCount() (uint64, error) {
	data, err := l.db.Get([]byte(slashCountKey))
	if err != nil {
		return 0, nil
	}
	var count uint64
	if err := rlp.DecodeBytes(data, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (l *Ledger) loadEvent(seq uint64) (SlashEvent, error) {
	data, err := l.db.Get([]byte(fmt.Sprintf(slashEventKeyFormat, seq)))
	if err != nil {
		return SlashEvent{}, fmt.Errorf("staking: slash history entry %d missing: %w", seq, err)
	}
	var stored storedSlashEvent
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return SlashEvent{}, err
	}
	return fromStoredEvent(stored), nil
}

// appendEventLocked persists one executed slash to the history. The caller
// holds l.mu.
func (l *Ledger) appendEventLocked(ev SlashEvent) error {
	encoded, err := rlp.EncodeToBytes(toStoredEvent(ev))
	if err != nil {
		return err
	}
	if err := l.db.Put([]byte(fmt.Sprintf(slashEventKeyFormat, l.seq)), encoded); err != nil {
		return err
	}
	l.seq++
	countBytes, err := rlp.EncodeToBytes(l.seq)
	if err != nil {
		return err
	}
	return l.db.Put([]byte(slashCountKey), countBytes)
}

// History returns the append-only slash history in application order,
// filtered to oracleID when it is non-empty.
func (l *Ledger) History(oracleID string) ([]SlashEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	count, err := l.loadCount()
	if err != nil {
		return nil, err
	}
	var out []SlashEvent
	for i := uint64(0); i < count; i++ {
		ev, err := l.loadEvent(i)
		if err != nil {
			return nil, err
		}
		if oracleID == "" || ev.OracleID == oracleID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// slashHash derives a stable replay key for one slash application, so that
// re-submitting the same proof (same oracle, type, and cause) never
// double-charges a bond.
func slashHash(oracleID string, typ SlashType, cause string) string {
	h := sha256.New()
	h.Write([]byte(oracleID))
	h.Write([]byte{0})
	h.Write([]byte(typ))
	h.Write([]byte{0})
	h.Write([]byte(cause))
	return hex.EncodeToString(h.Sum(nil))
}

// ApplyNonRevealSlash punishes an oracle that committed but failed to
// reveal for proposalID. Safe to call once per missed reveal.
func (l *Ledger) ApplyNonRevealSlash(oracleID, proposalID string, now time.Time) (SlashRecord, error) {
	return l.apply(oracleID, SlashNonReveal, l.rates.NonRevealBps, proposalID, 0, slashHash(oracleID, SlashNonReveal, proposalID), now)
}

// ApplyInactivitySlash punishes an oracle whose cumulative missed reveals
// within the current epoch reached InactivityMissedRevealThreshold. It is
// a no-op (ErrCooldownActive) if already applied to this oracle this epoch.
func (l *Ledger) ApplyInactivitySlash(oracleID string, epoch uint64, missedReveals uint64, now time.Time) (SlashRecord, error) {
	if missedReveals < InactivityMissedRevealThreshold {
		return SlashRecord{}, fmt.Errorf("staking: missed reveals %d below inactivity threshold", missedReveals)
	}
	l.mu.Lock()
	last, seen := l.inactivityCooldown[oracleID]
	if seen && last == epoch {
		l.mu.Unlock()
		return SlashRecord{}, ErrCooldownActive
	}
	l.inactivityCooldown[oracleID] = epoch
	l.mu.Unlock()

	return l.apply(oracleID, SlashInactivity, l.rates.InactivityBps, "", epoch, slashHash(oracleID, SlashInactivity, fmt.Sprintf("epoch:%d", epoch)), now)
}

// ApplyFraudSlash punishes an oracle whose submitted verdict was proven
// fraudulent. Fraud always slashes the full bond and ejects the oracle
// permanently, regardless of its prior slash history.
func (l *Ledger) ApplyFraudSlash(oracleID, proposalID string, now time.Time) (SlashRecord, error) {
	record, err := l.apply(oracleID, SlashFraud, l.rates.FraudBps, proposalID, 0, slashHash(oracleID, SlashFraud, proposalID), now)
	if err != nil {
		return record, err
	}
	if !record.Ejected {
		if err := l.registry.EjectForFraud(oracleID, "fraud proven for proposal "+proposalID); err != nil {
			return record, err
		}
		record.Ejected = true
		record.EjectionReason = "fraud"
	}
	if err := l.registry.RecordFraud(oracleID); err != nil {
		return record, err
	}
	return record, nil
}

// ProcessFraudProof applies the economic consequence of a fraud-proof
// verification: a proven result slashes and ejects the accused oracle and
// emits the fraud-proven event; anything else, including an unverifiable
// witness, is ErrFraudNotProven with no state change. The accused oracle
// is named by the caller, who matched the claimed verdict to that
// oracle's reveal.
func (l *Ledger) ProcessFraudProof(oracleID string, res fraud.Result, now time.Time) (SlashRecord, error) {
	if !res.Proven {
		return SlashRecord{}, ErrFraudNotProven
	}
	fields := make([]string, len(res.Discrepancies))
	for i, d := range res.Discrepancies {
		fields[i] = d.Field
	}
	l.emitter.Emit(events.FraudProven{
		ProposalID:    res.ProposalID,
		DiscrepancyAt: strings.Join(fields, ","),
	}.Event())
	return l.ApplyFraudSlash(oracleID, res.ProposalID, now)
}

func (l *Ledger) apply(oracleID string, typ SlashType, bps uint64, proposalID string, epoch uint64, hash string, now time.Time) (SlashRecord, error) {
	l.mu.Lock()
	if _, done := l.applied[hash]; done {
		l.mu.Unlock()
		existing, err := l.registry.Get(oracleID)
		if err != nil {
			return SlashRecord{}, err
		}
		return SlashRecord{OracleID: oracleID, Type: typ, RemainingBond: existing.BondDrops, Ejected: existing.Ejected}, nil
	}
	l.applied[hash] = struct{}{}
	l.mu.Unlock()

	rec, err := l.registry.Get(oracleID)
	if err != nil {
		return SlashRecord{}, err
	}

	amount := scaleByBps(rec.BondDrops, bps)
	remaining := new(big.Int).Sub(rec.BondDrops, amount)
	if remaining.Sign() < 0 {
		// A slash can never exceed the bond it is drawn from; bps scaling
		// guarantees amount <= rec.BondDrops, so this would indicate a
		// corrupted ledger entry.
		panic(fmt.Sprintf("staking: slash amount %s exceeds bond %s for oracle %s", amount, rec.BondDrops, oracleID))
	}

	if err := l.registry.ApplySlash(oracleID, remaining, bps); err != nil {
		return SlashRecord{}, err
	}

	l.mu.Lock()
	appendErr := l.appendEventLocked(SlashEvent{
		ID:          uuid.NewString(),
		OracleID:    oracleID,
		Type:        typ,
		AmountDrops: new(big.Int).Set(amount),
		ProposalID:  proposalID,
		Epoch:       epoch,
		Timestamp:   now,
		Executed:    true,
		ReplayKey:   hash,
	})
	l.mu.Unlock()
	if appendErr != nil {
		return SlashRecord{}, appendErr
	}

	updated, err := l.registry.Get(oracleID)
	if err != nil {
		return SlashRecord{}, err
	}

	ejected := updated.Ejected
	reason := ""
	if !ejected && updated.CumulativeSlashBps > l.rates.EjectionFractionBps {
		if err := l.registry.EjectForFraud(oracleID, "cumulative slashing exceeded 50% of bond"); err != nil {
			return SlashRecord{}, err
		}
		ejected = true
		reason = "cumulative-slash-threshold"
	}

	l.emitter.Emit(events.BondSlashed{
		OracleID:   oracleID,
		Reason:     string(typ),
		AmountDrop: amount.String(),
		Ejected:    ejected,
	}.Event())

	return SlashRecord{
		OracleID:       oracleID,
		Type:           typ,
		BpsApplied:     bps,
		AmountDrops:    amount,
		RemainingBond:  remaining,
		Ejected:        ejected,
		EjectionReason: reason,
	}, nil
}
