package events

import (
	"fmt"

	"governcore/core/types"
)

const (
	// TypeProposalSubmitted is emitted when a proposal enters the
	// orchestrator's lifecycle.
	TypeProposalSubmitted = "governance.proposal.submitted"
	// TypeProposalRouted is emitted once the decidability router assigns a
	// route to a proposal.
	TypeProposalRouted = "governance.proposal.routed"
	// TypeProposalRejected is emitted whenever a proposal reaches a terminal
	// rejection, at any lifecycle stage.
	TypeProposalRejected = "governance.proposal.rejected"
	// TypeProposalExecuted is emitted when a proposal clears its timelock
	// and is marked ready, then executed.
	TypeProposalExecuted = "governance.proposal.executed"
	// TypePhaseTransition is emitted on every lifecycle phase change.
	TypePhaseTransition = "governance.proposal.phase_transition"

	// TypeOracleCommitAccepted is emitted when an oracle's commitment is
	// recorded for a round.
	TypeOracleCommitAccepted = "oracle.commit.accepted"
	// TypeOracleRevealAccepted is emitted when an oracle's reveal matches
	// its commitment.
	TypeOracleRevealAccepted = "oracle.reveal.accepted"
	// TypeOracleRoundTallied is emitted once a commit-reveal round closes
	// and an aggregate verdict is produced.
	TypeOracleRoundTallied = "oracle.round.tallied"
	// TypeOracleNonReveal is emitted for each oracle that committed but
	// never revealed by the round deadline.
	TypeOracleNonReveal = "oracle.round.non_reveal"

	// TypeOracleRegistered is emitted when an oracle bonds into the
	// registry.
	TypeOracleRegistered = "oracle.registry.registered"
	// TypeOracleEjected is emitted when an oracle is removed from the
	// active set for cause.
	TypeOracleEjected = "oracle.registry.ejected"
	// TypeOracleEpochRotated is emitted when the active oracle set is
	// recomputed for a new epoch.
	TypeOracleEpochRotated = "oracle.registry.epoch_rotated"

	// TypeBondSlashed is emitted whenever a bond is slashed.
	TypeBondSlashed = "staking.bond.slashed"
	// TypeRewardDistributed is emitted for each reward share accrued at
	// epoch end.
	TypeRewardDistributed = "staking.reward.distributed"
	// TypeRewardClaimed is emitted when an oracle claims its pending
	// reward balance.
	TypeRewardClaimed = "staking.reward.claimed"

	// TypeVoteCast is emitted when a voter casts a ballot.
	TypeVoteCast = "voting.vote.cast"
	// TypeVotingClosed is emitted when a voting period closes and a tally
	// is finalized.
	TypeVotingClosed = "voting.period.closed"

	// TypeJuryResolved is emitted when a constitutional or human-majority
	// jury reaches a verdict.
	TypeJuryResolved = "jury.verdict.resolved"

	// TypeFraudProven is emitted when a submitted fraud proof is accepted.
	TypeFraudProven = "fraud.proof.proven"
)

// ProposalSubmitted captures a newly submitted proposal entering the
// lifecycle.
type ProposalSubmitted struct {
	ProposalID string
	Layer      string
	Proposer   string
}

func (e ProposalSubmitted) Event() *types.Event {
	return &types.Event{
		Type: TypeProposalSubmitted,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"layer":       e.Layer,
			"proposer":    e.Proposer,
		},
	}
}

// ProposalRouted captures the route assigned to a proposal.
type ProposalRouted struct {
	ProposalID string
	Route      string
	Quorum     string
	Timelock   string
}

func (e ProposalRouted) Event() *types.Event {
	return &types.Event{
		Type: TypeProposalRouted,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"route":       e.Route,
			"quorum":      e.Quorum,
			"timelock":    e.Timelock,
		},
	}
}

// ProposalRejected captures a terminal rejection, naming the phase it
// occurred in and the reason recorded.
type ProposalRejected struct {
	ProposalID string
	Phase      string
	Reason     string
}

func (e ProposalRejected) Event() *types.Event {
	return &types.Event{
		Type: TypeProposalRejected,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"phase":       e.Phase,
			"reason":      e.Reason,
		},
	}
}

// ProposalExecuted captures a proposal reaching the terminal Executed state.
type ProposalExecuted struct {
	ProposalID string
}

func (e ProposalExecuted) Event() *types.Event {
	return &types.Event{
		Type:       TypeProposalExecuted,
		Attributes: map[string]string{"proposal_id": e.ProposalID},
	}
}

// PhaseTransition captures any lifecycle phase change.
type PhaseTransition struct {
	ProposalID string
	From       string
	To         string
}

func (e PhaseTransition) Event() *types.Event {
	return &types.Event{
		Type: TypePhaseTransition,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"from":        e.From,
			"to":          e.To,
		},
	}
}

// OracleCommitAccepted captures a recorded commitment.
type OracleCommitAccepted struct {
	ProposalID string
	OracleID   string
}

func (e OracleCommitAccepted) Event() *types.Event {
	return &types.Event{
		Type: TypeOracleCommitAccepted,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"oracle_id":   e.OracleID,
		},
	}
}

// OracleRevealAccepted captures a reveal that matched its commitment.
type OracleRevealAccepted struct {
	ProposalID string
	OracleID   string
}

func (e OracleRevealAccepted) Event() *types.Event {
	return &types.Event{
		Type: TypeOracleRevealAccepted,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"oracle_id":   e.OracleID,
		},
	}
}

// OracleRoundTallied captures the aggregate outcome of a commit-reveal
// round.
type OracleRoundTallied struct {
	ProposalID    string
	QuorumReached bool
	ChannelAPass  bool
}

func (e OracleRoundTallied) Event() *types.Event {
	return &types.Event{
		Type: TypeOracleRoundTallied,
		Attributes: map[string]string{
			"proposal_id":    e.ProposalID,
			"quorum_reached": fmt.Sprintf("%t", e.QuorumReached),
			"channel_a_pass": fmt.Sprintf("%t", e.ChannelAPass),
		},
	}
}

// OracleNonReveal captures an oracle that committed but did not reveal.
type OracleNonReveal struct {
	ProposalID string
	OracleID   string
}

func (e OracleNonReveal) Event() *types.Event {
	return &types.Event{
		Type: TypeOracleNonReveal,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"oracle_id":   e.OracleID,
		},
	}
}

// OracleRegistered captures a newly bonded oracle.
type OracleRegistered struct {
	OracleID  string
	BondDrops string
}

func (e OracleRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeOracleRegistered,
		Attributes: map[string]string{
			"oracle_id":  e.OracleID,
			"bond_drops": e.BondDrops,
		},
	}
}

// OracleEjected captures an oracle removed from the active set for cause.
type OracleEjected struct {
	OracleID string
	Reason   string
}

func (e OracleEjected) Event() *types.Event {
	return &types.Event{
		Type: TypeOracleEjected,
		Attributes: map[string]string{
			"oracle_id": e.OracleID,
			"reason":    e.Reason,
		},
	}
}

// OracleEpochRotated captures a recomputed active oracle set.
type OracleEpochRotated struct {
	Epoch      uint64
	ActiveSize int
}

func (e OracleEpochRotated) Event() *types.Event {
	return &types.Event{
		Type: TypeOracleEpochRotated,
		Attributes: map[string]string{
			"epoch":       fmt.Sprintf("%d", e.Epoch),
			"active_size": fmt.Sprintf("%d", e.ActiveSize),
		},
	}
}

// BondSlashed captures a slash applied to an oracle's bond.
type BondSlashed struct {
	OracleID   string
	Reason     string
	AmountDrop string
	Ejected    bool
}

func (e BondSlashed) Event() *types.Event {
	return &types.Event{
		Type: TypeBondSlashed,
		Attributes: map[string]string{
			"oracle_id":   e.OracleID,
			"reason":      e.Reason,
			"amount_drop": e.AmountDrop,
			"ejected":     fmt.Sprintf("%t", e.Ejected),
		},
	}
}

// RewardDistributed captures one reward share paid at epoch end.
type RewardDistributed struct {
	Epoch      uint64
	OracleID   string
	AmountDrop string
}

func (e RewardDistributed) Event() *types.Event {
	return &types.Event{
		Type: TypeRewardDistributed,
		Attributes: map[string]string{
			"epoch":       fmt.Sprintf("%d", e.Epoch),
			"oracle_id":   e.OracleID,
			"amount_drop": e.AmountDrop,
		},
	}
}

// RewardClaimed captures an oracle drawing down its pending reward
// balance.
type RewardClaimed struct {
	OracleID   string
	AmountDrop string
}

func (e RewardClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeRewardClaimed,
		Attributes: map[string]string{
			"oracle_id":   e.OracleID,
			"amount_drop": e.AmountDrop,
		},
	}
}

// VoteCast captures a single ballot, with effective power already
// resolved (own power plus any delegations directed at the voter).
type VoteCast struct {
	ProposalID string
	Voter      string
	Choice     string
	Power      string
}

func (e VoteCast) Event() *types.Event {
	return &types.Event{
		Type: TypeVoteCast,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"voter":       e.Voter,
			"choice":      e.Choice,
			"power":       e.Power,
		},
	}
}

// VotingClosed captures a finalized voting tally.
type VotingClosed struct {
	ProposalID    string
	QuorumReached bool
	Passed        bool
}

func (e VotingClosed) Event() *types.Event {
	return &types.Event{
		Type: TypeVotingClosed,
		Attributes: map[string]string{
			"proposal_id":    e.ProposalID,
			"quorum_reached": fmt.Sprintf("%t", e.QuorumReached),
			"passed":         fmt.Sprintf("%t", e.Passed),
		},
	}
}

// JuryResolved captures a jury's final resolution.
type JuryResolved struct {
	ProposalID string
	Verdict    string
	JurySize   int
}

func (e JuryResolved) Event() *types.Event {
	return &types.Event{
		Type: TypeJuryResolved,
		Attributes: map[string]string{
			"proposal_id": e.ProposalID,
			"verdict":     e.Verdict,
			"jury_size":   fmt.Sprintf("%d", e.JurySize),
		},
	}
}

// FraudProven captures an accepted fraud proof against a prior verdict.
type FraudProven struct {
	ProposalID    string
	DiscrepancyAt string
}

func (e FraudProven) Event() *types.Event {
	return &types.Event{
		Type: TypeFraudProven,
		Attributes: map[string]string{
			"proposal_id":    e.ProposalID,
			"discrepancy_at": e.DiscrepancyAt,
		},
	}
}
