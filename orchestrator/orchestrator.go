package orchestrator

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"governcore/core/events"
	"governcore/core/types"
	"governcore/jury"
	"governcore/router"
	"governcore/voting"
)

// Orchestrator drives every GovernanceProposal through its lifecycle. It
// coordinates the voting engine and jury panel but never mutates their
// internal state directly; it calls their exported, self-locking methods
// exactly as any other caller would. Oracle commit-reveal rounds and the
// slashing ledger live entirely outside the orchestrator: it learns their
// outcomes only through RecordOracleVerdict, an external event.
type Orchestrator struct {
	mu      sync.Mutex
	emitter events.Emitter
	votes   *voting.Engine
	juries  *jury.Panel
	policy  router.Policy

	proposals map[string]*GovernanceProposal
}

// New constructs an Orchestrator wired to the given voting engine and jury
// panel, using the normative friction policy. A nil emitter is treated as
// events.NoopEmitter.
func New(emitter events.Emitter, votes *voting.Engine, juries *jury.Panel) *Orchestrator {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Orchestrator{
		emitter:   emitter,
		votes:     votes,
		juries:    juries,
		policy:    router.DefaultPolicy(),
		proposals: make(map[string]*GovernanceProposal),
	}
}

// WithPolicy swaps in operator-configured friction constants in place of
// the normative defaults.
func (o *Orchestrator) WithPolicy(p router.Policy) *Orchestrator {
	o.policy = p
	return o
}

// Submit admits a new proposal into the lifecycle at Submitted, then
// immediately advances it to OracleReview: nothing else needs to happen
// before the consensus module can open a commit-reveal round for it.
func (o *Orchestrator) Submit(p types.Proposal) (*GovernanceProposal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.proposals[p.ID]; exists {
		return nil, ErrAlreadyExists
	}
	gp := &GovernanceProposal{Proposal: p, Phase: PhaseSubmitted}
	o.proposals[p.ID] = gp

	o.emitter.Emit(events.ProposalSubmitted{ProposalID: p.ID, Layer: p.Layer.String(), Proposer: p.Proposer}.Event())
	o.transitionLocked(gp, PhaseOracleReview)
	return gp.Clone(), nil
}

// RecordOracleVerdict attaches the aggregated Channel A and Channel B
// verdicts once the consensus module's commit-reveal round has tallied,
// then routes the proposal. A route of Rejected is terminal; otherwise the
// proposal advances into whichever stage the route implies (voting, jury
// review, or external formal verification).
func (o *Orchestrator) RecordOracleVerdict(proposalID string, a types.ChannelAVerdict, b types.ChannelBVerdict) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	gp, err := o.getLocked(proposalID)
	if err != nil {
		return err
	}
	if gp.Phase != PhaseOracleReview {
		return ErrWrongPhase
	}
	gp.ChannelA = a
	gp.ChannelB = b
	o.transitionLocked(gp, PhaseRouting)

	route := router.Route(gp.Proposal.Layer, a, b)
	gp.Route = route

	if route == types.RouteRejected {
		o.rejectLocked(gp, rejectionReason(gp.Proposal.Layer, a))
		return nil
	}

	friction := o.policy.Friction(gp.Proposal.Layer, b)
	gp.Friction = friction
	o.emitter.Emit(events.ProposalRouted{
		ProposalID: proposalID,
		Route:      string(route),
		Quorum:     fmt.Sprintf("%.6f", friction.RequiredQuorum),
		Timelock:   fmt.Sprintf("%d", friction.TimelockDurationS),
	}.Event())

	switch route {
	case types.RouteStandardVoting:
		o.transitionLocked(gp, PhaseVoting)
		if o.votes != nil {
			if err := o.votes.OpenPeriod(proposalID, friction); err != nil {
				return err
			}
		}
	case types.RouteConstitutionalJury:
		o.transitionLocked(gp, PhaseJuryReview)
	case types.RouteHumanMajorityJury:
		o.transitionLocked(gp, PhaseHumanMajorityJury)
	case types.RouteFormalVerification:
		o.transitionLocked(gp, PhaseFormalVerification)
	}
	return nil
}

func rejectionReason(layer types.Layer, a types.ChannelAVerdict) string {
	switch {
	case layer == types.LayerImmutable:
		return "layer L0-Immutable cannot be modified through governance"
	case !a.Pass:
		return "Channel A verification failed"
	default:
		return "rejected by decidability router"
	}
}

// OpenJuryPanel seats the sampled jurors for a proposal currently in
// JuryReview or HumanMajorityJury. Sampling itself (jury.Select) is the
// caller's concern, since it needs the ledger substrate's account balances
// and ledger hash; the orchestrator only opens the voting window.
func (o *Orchestrator) OpenJuryPanel(proposalID string, jurors []string, now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	gp, err := o.getLocked(proposalID)
	if err != nil {
		return err
	}
	if gp.Phase != PhaseJuryReview && gp.Phase != PhaseHumanMajorityJury {
		return ErrWrongPhase
	}
	if o.juries == nil {
		return fmt.Errorf("orchestrator: no jury panel configured")
	}
	return o.juries.Open(proposalID, jurors, now)
}

// ResolveJury finalizes a jury's verdict. APPROVED proposals on L1 still
// require a standing vote (the spec's JuryReview -> Voting edge); APPROVED
// proposals on any other layer proceed straight to timelock. Anything
// other than APPROVED, including NO_VERDICT, is a terminal rejection.
func (o *Orchestrator) ResolveJury(proposalID string, now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	gp, err := o.getLocked(proposalID)
	if err != nil {
		return err
	}
	if gp.Phase != PhaseJuryReview && gp.Phase != PhaseHumanMajorityJury {
		return ErrWrongPhase
	}
	if o.juries == nil {
		return fmt.Errorf("orchestrator: no jury panel configured")
	}
	verdict, err := o.juries.Resolve(proposalID, now)
	if err != nil {
		return err
	}
	gp.JuryVerdict = &verdict

	if verdict != jury.VerdictApproved {
		o.rejectLocked(gp, fmt.Sprintf("jury resolution: %s", verdict))
		return nil
	}
	if gp.Proposal.Layer == types.LayerConstitutional {
		o.transitionLocked(gp, PhaseVoting)
		if o.votes != nil {
			return o.votes.OpenPeriod(proposalID, gp.Friction)
		}
		return nil
	}
	o.startTimelockLocked(gp, now)
	return nil
}

// RecordFormalVerificationApproval carries the external formal-verification
// service's approval for a Class I proposal back into the lifecycle.
func (o *Orchestrator) RecordFormalVerificationApproval(proposalID string, approved bool, now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	gp, err := o.getLocked(proposalID)
	if err != nil {
		return err
	}
	if gp.Phase != PhaseFormalVerification {
		return ErrWrongPhase
	}
	if !approved {
		o.rejectLocked(gp, "external formal verification did not approve")
		return nil
	}
	o.transitionLocked(gp, PhaseVoting)
	if o.votes != nil {
		return o.votes.OpenPeriod(proposalID, gp.Friction)
	}
	return nil
}

// CloseVoting finalizes an open voting period. A passed tally starts the
// timelock; a failed one is a terminal rejection.
func (o *Orchestrator) CloseVoting(proposalID string, totalSupply *big.Int, now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	gp, err := o.getLocked(proposalID)
	if err != nil {
		return err
	}
	if gp.Phase != PhaseVoting {
		return ErrWrongPhase
	}
	if o.votes == nil {
		return fmt.Errorf("orchestrator: no voting engine configured")
	}
	tally, err := o.votes.ClosePeriod(proposalID, totalSupply)
	if err != nil {
		return err
	}
	gp.VotingTally = &tally

	if !tally.Passed {
		o.rejectLocked(gp, "voting period closed without quorum or majority")
		return nil
	}
	o.startTimelockLocked(gp, now)
	return nil
}

func (o *Orchestrator) startTimelockLocked(gp *GovernanceProposal, now time.Time) {
	gp.TimelockExpiry = now.Add(time.Duration(gp.Friction.TimelockDurationS) * time.Second)
	o.transitionLocked(gp, PhaseTimelock)
}

// CheckPhaseTransitions is the idempotent ticker entry point: it advances
// every proposal whose timelock has expired to ReadyToExecute and returns
// the ids that moved. Safe to call repeatedly with the same or later now.
func (o *Orchestrator) CheckPhaseTransitions(now time.Time) []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	var advanced []string
	for id, gp := range o.proposals {
		if gp.Phase == PhaseTimelock && !now.Before(gp.TimelockExpiry) {
			o.transitionLocked(gp, PhaseReadyToExecute)
			advanced = append(advanced, id)
		}
	}
	return advanced
}

// Execute marks a ReadyToExecute proposal Executed, recording the
// substrate's execution transaction hash.
func (o *Orchestrator) Execute(proposalID, txHash string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	gp, err := o.getLocked(proposalID)
	if err != nil {
		return err
	}
	if gp.Phase != PhaseReadyToExecute {
		return ErrWrongPhase
	}
	gp.ExecutionTx = txHash
	o.transitionLocked(gp, PhaseExecuted)
	o.emitter.Emit(events.ProposalExecuted{ProposalID: proposalID}.Event())
	return nil
}

// Get returns a snapshot of a proposal's current state.
func (o *Orchestrator) Get(proposalID string) (*GovernanceProposal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	gp, err := o.getLocked(proposalID)
	if err != nil {
		return nil, err
	}
	return gp.Clone(), nil
}

func (o *Orchestrator) getLocked(proposalID string) (*GovernanceProposal, error) {
	gp, ok := o.proposals[proposalID]
	if !ok {
		return nil, ErrUnknownProposal
	}
	return gp, nil
}

func (o *Orchestrator) transitionLocked(gp *GovernanceProposal, to Phase) {
	from := gp.Phase
	gp.Phase = to
	o.emitter.Emit(events.PhaseTransition{ProposalID: gp.Proposal.ID, From: string(from), To: string(to)}.Event())
}

func (o *Orchestrator) rejectLocked(gp *GovernanceProposal, reason string) {
	gp.RejectionReason = reason
	phase := gp.Phase
	o.transitionLocked(gp, PhaseRejected)
	o.emitter.Emit(events.ProposalRejected{ProposalID: gp.Proposal.ID, Phase: string(phase), Reason: reason}.Event())
}
