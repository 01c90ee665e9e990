// Package orchestrator implements the governance orchestrator: the state
// machine that sequences a submitted proposal through oracle review,
// routing, voting or jury resolution, timelock, and execution. It is the
// sole writer of GovernanceProposal records; every other subsystem
// (consensus rounds, the oracle registry, the slashing ledger) owns its
// own state and reports results back to the orchestrator as external
// events.
package orchestrator

import (
	"errors"
	"time"

	"governcore/core/types"
	"governcore/jury"
	"governcore/voting"
)

// Phase enumerates the orchestrator's lifecycle stages for a proposal.
type Phase string

const (
	PhaseSubmitted          Phase = "Submitted"
	PhaseOracleReview       Phase = "OracleReview"
	PhaseRouting            Phase = "Routing"
	PhaseVoting             Phase = "Voting"
	PhaseJuryReview         Phase = "JuryReview"
	PhaseHumanMajorityJury  Phase = "HumanMajorityJury"
	PhaseFormalVerification Phase = "FormalVerification"
	PhaseTimelock           Phase = "Timelock"
	PhaseReadyToExecute     Phase = "ReadyToExecute"
	PhaseExecuted           Phase = "Executed"
	PhaseRejected           Phase = "Rejected"
)

var (
	// ErrUnknownProposal is returned for operations against a proposal id
	// the orchestrator has never seen.
	ErrUnknownProposal = errors.New("orchestrator: unknown proposal")
	// ErrAlreadyExists is returned by Submit for a proposal id already on
	// record.
	ErrAlreadyExists = errors.New("orchestrator: proposal already submitted")
	// ErrWrongPhase is returned when an operation is attempted against a
	// proposal not currently in the phase that operation requires.
	ErrWrongPhase = errors.New("orchestrator: proposal is not in the required phase")
)

// GovernanceProposal is the orchestrator's envelope around a Proposal,
// carrying every field the lifecycle accumulates as it advances.
type GovernanceProposal struct {
	Proposal        types.Proposal
	Phase           Phase
	ChannelA        types.ChannelAVerdict
	ChannelB        types.ChannelBVerdict
	Route           types.Route
	Friction        types.FrictionParams
	VotingTally     *voting.VotingTally
	JuryVerdict     *jury.Verdict
	TimelockExpiry  time.Time
	ExecutionTx     string
	RejectionReason string
}

// Clone returns a deep-enough copy for safe return to callers outside the
// orchestrator's lock.
func (g *GovernanceProposal) Clone() *GovernanceProposal {
	if g == nil {
		return nil
	}
	c := *g
	if g.VotingTally != nil {
		tally := *g.VotingTally
		c.VotingTally = &tally
	}
	if g.JuryVerdict != nil {
		v := *g.JuryVerdict
		c.JuryVerdict = &v
	}
	return &c
}
