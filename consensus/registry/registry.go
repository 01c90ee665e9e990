package registry

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"governcore/core/events"
	"governcore/storage"
)

const (
	recordKeyFormat = "consensus/registry/oracle/%s"
	indexKey        = "consensus/registry/index"
)

var (
	// ErrAlreadyRegistered is returned when an oracle ID is registered twice.
	ErrAlreadyRegistered = errors.New("registry: oracle already registered")
	// ErrNotRegistered is returned for operations against an unknown oracle.
	ErrNotRegistered = errors.New("registry: oracle not registered")
	// ErrBelowMinimumBond is returned when a registration's bond is too small.
	ErrBelowMinimumBond = errors.New("registry: bond below minimum")
	// ErrAlreadyUnbonding is returned when unbonding is initiated twice.
	ErrAlreadyUnbonding = errors.New("registry: oracle already unbonding")
	// ErrNotUnbonding is returned when completing unbond for a bonded oracle.
	ErrNotUnbonding = errors.New("registry: oracle is not unbonding")
	// ErrEjected is returned for operations against an ejected oracle.
	ErrEjected = errors.New("registry: oracle has been ejected")
)

// UnbondingPeriod is the delay between initiating and completing an
// oracle's unbond.
const UnbondingPeriod = 14 * 24 * time.Hour

// Registry persists oracle records in a key-value store and computes the
// active set for each epoch.
type Registry struct {
	mu      sync.RWMutex
	db      storage.Database
	emitter events.Emitter

	minBond       *big.Int
	activeSetSize int
	epochLength   uint64
}

// New constructs a registry backed by db with the normative bond minimum,
// active-set bound, and epoch length. A nil emitter is treated as
// events.NoopEmitter.
func New(db storage.Database, emitter events.Emitter) *Registry {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Registry{
		db:            db,
		emitter:       emitter,
		minBond:       MinimumBondDrops,
		activeSetSize: ActiveSetSize,
		epochLength:   EpochLength,
	}
}

// WithLimits swaps in operator-configured bond minimum, active-set bound,
// and epoch length in place of the normative defaults. Zero or nil values
// leave the corresponding default untouched.
func (g *Registry) WithLimits(minBond *big.Int, activeSetSize int, epochLength uint64) *Registry {
	if minBond != nil {
		g.minBond = new(big.Int).Set(minBond)
	}
	if activeSetSize > 0 {
		g.activeSetSize = activeSetSize
	}
	if epochLength > 0 {
		g.epochLength = epochLength
	}
	return g
}

// RLP carries only unsigned integers, so timestamps are stored as Unix
// seconds in uint64 fields.
type storedRecord struct {
	OracleID            string
	BondDrops           []byte
	RegisteredAt        uint64
	UnbondingAt         uint64
	MissedReveals       uint64
	SuccessfulReveals   uint64
	TotalParticipations uint64
	FraudCount          uint64
	CumulativeSlashBps  uint64
	Ejected             bool
}

func toStored(r *Record) storedRecord {
	s := storedRecord{
		OracleID:            r.OracleID,
		RegisteredAt:        uint64(r.RegisteredAt.Unix()),
		MissedReveals:       r.MissedReveals,
		SuccessfulReveals:   r.SuccessfulReveals,
		TotalParticipations: r.TotalParticipations,
		FraudCount:          r.FraudCount,
		CumulativeSlashBps:  r.CumulativeSlashBps,
		Ejected:             r.Ejected,
	}
	if r.BondDrops != nil {
		s.BondDrops = r.BondDrops.Bytes()
	}
	if r.UnbondingAt != nil {
		s.UnbondingAt = uint64(r.UnbondingAt.Unix())
	}
	return s
}

func fromStored(s storedRecord) *Record {
	r := &Record{
		OracleID:            s.OracleID,
		RegisteredAt:        time.Unix(int64(s.RegisteredAt), 0).UTC(),
		MissedReveals:       s.MissedReveals,
		SuccessfulReveals:   s.SuccessfulReveals,
		TotalParticipations: s.TotalParticipations,
		FraudCount:          s.FraudCount,
		CumulativeSlashBps:  s.CumulativeSlashBps,
		Ejected:             s.Ejected,
	}
	if len(s.BondDrops) == 0 {
		r.BondDrops = big.NewInt(0)
	} else {
		r.BondDrops = new(big.Int).SetBytes(s.BondDrops)
	}
	if s.UnbondingAt > 0 {
		t := time.Unix(int64(s.UnbondingAt), 0).UTC()
		r.UnbondingAt = &t
	}
	return r
}

func recordKey(oracleID string) []byte {
	return []byte(fmt.Sprintf(recordKeyFormat, hex.EncodeToString([]byte(oracleID))))
}

func (g *Registry) loadIndex() ([]string, error) {
	data, err := g.db.Get([]byte(indexKey))
	if err != nil {
		return nil, nil
	}
	var ids []string
	if err := rlp.DecodeBytes(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (g *Registry) saveIndex(ids []string) error {
	encoded, err := rlp.EncodeToBytes(ids)
	if err != nil {
		return err
	}
	return g.db.Put([]byte(indexKey), encoded)
}

func (g *Registry) loadRecord(oracleID string) (*Record, error) {
	data, err := g.db.Get(recordKey(oracleID))
	if err != nil {
		return nil, ErrNotRegistered
	}
	var stored storedRecord
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, err
	}
	return fromStored(stored), nil
}

func (g *Registry) saveRecord(r *Record) error {
	encoded, err := rlp.EncodeToBytes(toStored(r))
	if err != nil {
		return err
	}
	return g.db.Put(recordKey(r.OracleID), encoded)
}

// Register bonds a new oracle into the registry.
func (g *Registry) Register(oracleID string, bondDrops *big.Int, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if bondDrops == nil || bondDrops.Cmp(g.minBond) < 0 {
		return ErrBelowMinimumBond
	}
	if _, err := g.loadRecord(oracleID); err == nil {
		return ErrAlreadyRegistered
	}

	record := &Record{
		OracleID:     oracleID,
		BondDrops:    new(big.Int).Set(bondDrops),
		RegisteredAt: now,
	}
	if err := g.saveRecord(record); err != nil {
		return err
	}
	index, err := g.loadIndex()
	if err != nil {
		return err
	}
	index = append(index, oracleID)
	if err := g.saveIndex(index); err != nil {
		return err
	}
	g.emitter.Emit(events.OracleRegistered{OracleID: oracleID, BondDrops: bondDrops.String()}.Event())
	return nil
}

// Get returns a copy of the named oracle's record.
func (g *Registry) Get(oracleID string) (*Record, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, err := g.loadRecord(oracleID)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

// InitiateUnbond starts the unbonding clock for an oracle, removing it from
// future active-set eligibility immediately.
func (g *Registry) InitiateUnbond(oracleID string, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.loadRecord(oracleID)
	if err != nil {
		return err
	}
	if r.Ejected {
		return ErrEjected
	}
	if r.UnbondingAt != nil {
		return ErrAlreadyUnbonding
	}
	r.UnbondingAt = &now
	return g.saveRecord(r)
}

// CompleteUnbond finalizes an unbond once the unbonding period has elapsed,
// returning the bond amount to be released to the oracle.
func (g *Registry) CompleteUnbond(oracleID string, now time.Time) (*big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.loadRecord(oracleID)
	if err != nil {
		return nil, err
	}
	if r.UnbondingAt == nil {
		return nil, ErrNotUnbonding
	}
	if now.Before(r.UnbondingAt.Add(UnbondingPeriod)) {
		return nil, fmt.Errorf("registry: unbonding period not yet elapsed")
	}
	released := new(big.Int).Set(r.BondDrops)
	r.BondDrops = big.NewInt(0)
	if err := g.saveRecord(r); err != nil {
		return nil, err
	}
	return released, nil
}

// RecordParticipation records whether an oracle revealed in a round it had
// committed to.
func (g *Registry) RecordParticipation(oracleID string, revealed bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.loadRecord(oracleID)
	if err != nil {
		return err
	}
	r.TotalParticipations++
	if revealed {
		r.SuccessfulReveals++
	} else {
		r.MissedReveals++
	}
	return g.saveRecord(r)
}

// RecordFraud increments an oracle's fraud count. Ejection is decided by
// the staking package's slashing ledger, not here; the registry only
// records the tally and, once told to eject, flips the flag.
func (g *Registry) RecordFraud(oracleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.loadRecord(oracleID)
	if err != nil {
		return err
	}
	r.FraudCount++
	return g.saveRecord(r)
}

// ApplySlash adds to the oracle's cumulative slash bps tally and persists
// its post-slash bond balance.
func (g *Registry) ApplySlash(oracleID string, remainingBond *big.Int, additionalSlashBps uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.loadRecord(oracleID)
	if err != nil {
		return err
	}
	r.BondDrops = new(big.Int).Set(remainingBond)
	r.CumulativeSlashBps += additionalSlashBps
	return g.saveRecord(r)
}

// EjectForFraud permanently removes an oracle from active-set eligibility.
func (g *Registry) EjectForFraud(oracleID string, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.loadRecord(oracleID)
	if err != nil {
		return err
	}
	r.Ejected = true
	if err := g.saveRecord(r); err != nil {
		return err
	}
	g.emitter.Emit(events.OracleEjected{OracleID: oracleID, Reason: reason}.Event())
	return nil
}

// StartNewEpoch resets the per-epoch missed-reveal counter for every
// registered oracle; successful_reveals, total_participations, and
// fraud_proofs remain cumulative for the oracle's lifetime.
func (g *Registry) StartNewEpoch() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids, err := g.loadIndex()
	if err != nil {
		return err
	}
	for _, id := range ids {
		r, err := g.loadRecord(id)
		if err != nil {
			continue
		}
		r.MissedReveals = 0
		if err := g.saveRecord(r); err != nil {
			return err
		}
	}
	return nil
}

// Rotate begins epoch number at startLedger: per-epoch counters reset,
// the active set is recomputed from current bonds, and the resulting Epoch
// record is returned for the consensus module to run its rounds against.
func (g *Registry) Rotate(number, startLedger uint64) (*Epoch, error) {
	if err := g.StartNewEpoch(); err != nil {
		return nil, err
	}
	active, err := g.ActiveSet(number)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(active))
	for i, r := range active {
		ids[i] = r.OracleID
	}
	return &Epoch{
		Number:      number,
		StartLedger: startLedger,
		EndLedger:   startLedger + g.epochLength,
		ActiveSet:   ids,
	}, nil
}

// ActiveSet selects up to the registry's active-set size (ActiveSetSize
// unless WithLimits set another) eligible oracles ordered by bond size
// descending, breaking ties by earliest registration.
func (g *Registry) ActiveSet(epoch uint64) ([]*Record, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids, err := g.loadIndex()
	if err != nil {
		return nil, err
	}
	var eligible []*Record
	for _, id := range ids {
		r, err := g.loadRecord(id)
		if err != nil {
			continue
		}
		if r.Active() {
			eligible = append(eligible, r)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		cmp := eligible[i].BondDrops.Cmp(eligible[j].BondDrops)
		if cmp != 0 {
			return cmp > 0
		}
		if !eligible[i].RegisteredAt.Equal(eligible[j].RegisteredAt) {
			return eligible[i].RegisteredAt.Before(eligible[j].RegisteredAt)
		}
		return eligible[i].OracleID < eligible[j].OracleID
	})
	if len(eligible) > g.activeSetSize {
		eligible = eligible[:g.activeSetSize]
	}
	g.emitter.Emit(events.OracleEpochRotated{Epoch: epoch, ActiveSize: len(eligible)}.Event())

	clones := make([]*Record, len(eligible))
	for i, r := range eligible {
		clones[i] = r.Clone()
	}
	return clones, nil
}
