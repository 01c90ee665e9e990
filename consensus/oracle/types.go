// Package oracle implements the commit-reveal consensus protocol the
// oracle set runs to agree on a proposal's Channel A and Channel B
// verdicts. Oracles commit to a hash of their computed verdicts and a
// nonce, then reveal the preimage once the commit window closes; the round
// rejects any reveal that does not hash back to its commitment.
package oracle

import (
	"time"

	"governcore/core/types"
)

// Phase is the commit-reveal round's current stage.
type Phase string

const (
	PhaseCommit   Phase = "Commit"
	PhaseReveal   Phase = "Reveal"
	PhaseTallying Phase = "Tallying"
	PhaseComplete Phase = "Complete"
)

// RejectReason enumerates deterministic reasons a commit or reveal
// submission is refused.
type RejectReason string

const (
	RejectReasonWrongPhase      RejectReason = "wrong_phase"
	RejectReasonUnknownOracle   RejectReason = "unknown_oracle"
	RejectReasonDuplicateCommit RejectReason = "duplicate_commit"
	RejectReasonNoCommit        RejectReason = "no_commit"
	RejectReasonDuplicateReveal RejectReason = "duplicate_reveal"
	RejectReasonHashMismatch    RejectReason = "hash_mismatch"
	RejectReasonDeadlineElapsed RejectReason = "deadline_elapsed"
)

// ValidationError surfaces a rejected submission to the caller.
type ValidationError struct {
	Reason  RejectReason
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Reason)
}

// Commitment is a recorded commit-phase submission.
type Commitment struct {
	OracleID    string
	Hash        [32]byte
	SubmittedAt time.Time
}

// Reveal is a recorded reveal-phase submission, already verified against its
// commitment.
type Reveal struct {
	OracleID    string
	ChannelA    types.ChannelAVerdict
	ChannelB    types.ChannelBVerdict
	Nonce       [16]byte
	SubmittedAt time.Time
}

// Deadlines bounds the commit and reveal windows of a round.
type Deadlines struct {
	CommitBy time.Time
	RevealBy time.Time
}

// ActiveOracleSetSize is the spec's normative ACTIVE_ORACLE_SET_SIZE
// constant. Quorum is pinned to this fixed figure (§4.4, §6), not to
// whatever subset of it happens to be active in a given round.
const ActiveOracleSetSize = 101
