package oracle

import (
	"sort"
	"sync"
	"time"

	"governcore/core/events"
	"governcore/core/types"
)

// Round is a single commit-reveal session for one proposal, run against a
// fixed snapshot of the active oracle set. Bond size plays no role in the
// consensus arithmetic; it only determines which oracles were admitted to
// the active set in the first place (the registry package's concern).
type Round struct {
	mu sync.Mutex

	proposalID   string
	activeSet    map[string]struct{}
	activeCount  int
	deadlines    Deadlines
	emitter      events.Emitter
	nextSequence uint64

	phase   Phase
	commits map[string]Commitment
	reveals map[string]sequencedReveal

	sigVerifier SignatureVerifier
}

type sequencedReveal struct {
	Reveal
	Seq uint64
}

// NewRound constructs a round for proposalID against the supplied set of
// active oracle IDs. A nil emitter is treated as events.NoopEmitter.
func NewRound(proposalID string, activeOracles []string, deadlines Deadlines, emitter events.Emitter) *Round {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	set := make(map[string]struct{}, len(activeOracles))
	for _, id := range activeOracles {
		set[id] = struct{}{}
	}
	return &Round{
		proposalID:  proposalID,
		activeSet:   set,
		activeCount: len(set),
		deadlines:   deadlines,
		emitter:     emitter,
		phase:       PhaseCommit,
		commits:     make(map[string]Commitment),
		reveals:     make(map[string]sequencedReveal),
		sigVerifier: NoopSignatureVerifier{},
	}
}

// WithSignatureVerifier swaps in a non-default SignatureVerifier, for
// deployments that authenticate commit/reveal submissions against the
// oracle's registered key rather than at the transport layer.
func (r *Round) WithSignatureVerifier(v SignatureVerifier) *Round {
	if v != nil {
		r.sigVerifier = v
	}
	return r
}

// SubmitCommitSigned verifies sig against digest for oracleID before
// delegating to SubmitCommit.
func (r *Round) SubmitCommitSigned(oracleID string, hash [32]byte, digest [32]byte, sig []byte, now time.Time) error {
	if err := r.sigVerifier.Verify(oracleID, digest, sig); err != nil {
		return err
	}
	return r.SubmitCommit(oracleID, hash, now)
}

// SubmitRevealSigned verifies sig against digest for oracleID before
// delegating to SubmitReveal.
func (r *Round) SubmitRevealSigned(oracleID string, a types.ChannelAVerdict, b types.ChannelBVerdict, nonce [16]byte, digest [32]byte, sig []byte, now time.Time) error {
	if err := r.sigVerifier.Verify(oracleID, digest, sig); err != nil {
		return err
	}
	return r.SubmitReveal(oracleID, a, b, nonce, now)
}

// Phase returns the round's current stage.
func (r *Round) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// SubmitCommit records a commitment during the commit phase.
func (r *Round) SubmitCommit(oracleID string, hash [32]byte, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseCommit {
		return &ValidationError{Reason: RejectReasonWrongPhase}
	}
	if _, ok := r.activeSet[oracleID]; !ok {
		return &ValidationError{Reason: RejectReasonUnknownOracle}
	}
	if now.After(r.deadlines.CommitBy) {
		return &ValidationError{Reason: RejectReasonDeadlineElapsed}
	}
	if _, exists := r.commits[oracleID]; exists {
		return &ValidationError{Reason: RejectReasonDuplicateCommit}
	}

	r.commits[oracleID] = Commitment{OracleID: oracleID, Hash: hash, SubmittedAt: now}
	if len(r.commits) == r.activeCount {
		r.phase = PhaseReveal
	}
	r.emitter.Emit(events.OracleCommitAccepted{ProposalID: r.proposalID, OracleID: oracleID}.Event())
	return nil
}

// SubmitReveal records a reveal during the reveal phase, verifying it
// against the oracle's prior commitment. A reveal that fails verification
// is silently dropped per the protocol's failure semantics: the oracle is
// simply treated as non-revealing, the caller still receives the reason.
func (r *Round) SubmitReveal(oracleID string, a types.ChannelAVerdict, b types.ChannelBVerdict, nonce [16]byte, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseReveal {
		return &ValidationError{Reason: RejectReasonWrongPhase}
	}
	commitment, ok := r.commits[oracleID]
	if !ok {
		return &ValidationError{Reason: RejectReasonNoCommit}
	}
	if now.After(r.deadlines.RevealBy) {
		return &ValidationError{Reason: RejectReasonDeadlineElapsed}
	}
	if _, exists := r.reveals[oracleID]; exists {
		return &ValidationError{Reason: RejectReasonDuplicateReveal}
	}

	computed := CommitHash(a, b, nonce)
	if computed != commitment.Hash {
		return &ValidationError{Reason: RejectReasonHashMismatch}
	}

	r.reveals[oracleID] = sequencedReveal{
		Reveal: Reveal{OracleID: oracleID, ChannelA: a, ChannelB: b, Nonce: nonce, SubmittedAt: now},
		Seq:    r.nextSequence,
	}
	r.nextSequence++
	if len(r.reveals) == len(r.commits) {
		r.phase = PhaseTallying
	}
	r.emitter.Emit(events.OracleRevealAccepted{ProposalID: r.proposalID, OracleID: oracleID}.Event())
	return nil
}

// AdvancePhase moves the round to the next phase once now has passed the
// relevant deadline. It is idempotent and safe to call on every tick.
func (r *Round) AdvancePhase(now time.Time) Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.phase {
	case PhaseCommit:
		if now.After(r.deadlines.CommitBy) {
			r.phase = PhaseReveal
		}
	case PhaseReveal:
		if now.After(r.deadlines.RevealBy) {
			r.phase = PhaseTallying
		}
	}
	return r.phase
}

// NonRevealers lists committers who never revealed.
func (r *Round) NonRevealers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nonRevealersLocked()
}

func (r *Round) nonRevealersLocked() []string {
	var missed []string
	for id := range r.commits {
		if _, revealed := r.reveals[id]; !revealed {
			missed = append(missed, id)
		}
	}
	sort.Strings(missed)
	return missed
}

// quorumRequiredLocked returns ⌈ACTIVE_ORACLE_SET_SIZE × 2/3⌉, the fixed
// figure §4.4 and §6 pin quorum to. It intentionally does not scale down
// with r.activeCount: a round run against a not-yet-full active set still
// owes the same quorum as a full one.
func (r *Round) quorumRequiredLocked() int {
	return (ActiveOracleSetSize*2 + 2) / 3
}
