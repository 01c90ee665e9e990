// Package voting implements token-weighted voting periods with additive,
// revocable delegation. A period's lifecycle is owned entirely by the
// caller (the orchestrator): open_period, cast_vote any number of times
// by distinct voters, close_period exactly once (idempotently).
package voting

import "math/big"

// Choice is a voter's ballot.
type Choice string

const (
	ChoiceYes     Choice = "YES"
	ChoiceNo      Choice = "NO"
	ChoiceAbstain Choice = "ABSTAIN"
)

func (c Choice) valid() bool {
	switch c {
	case ChoiceYes, ChoiceNo, ChoiceAbstain:
		return true
	default:
		return false
	}
}

// VotingTally is the outcome of a closed period.
type VotingTally struct {
	ProposalID        string
	YesPower          *big.Int
	NoPower           *big.Int
	AbstainPower      *big.Int
	ParticipationRate float64
	QuorumReached     bool
	Passed            bool
}

// recordedVote remembers the effective power a voter used, locked in at
// the moment they voted so that later delegation changes cannot retroactively
// alter an already-cast ballot.
type recordedVote struct {
	choice Choice
	power  *big.Int
}
