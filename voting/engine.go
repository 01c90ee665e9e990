package voting

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"governcore/core/events"
	"governcore/core/types"
)

var (
	// ErrPeriodExists is returned by OpenPeriod for a proposal already open.
	ErrPeriodExists = errors.New("voting: period already open for proposal")
	// ErrNoSuchPeriod is returned when acting on a proposal with no open period.
	ErrNoSuchPeriod = errors.New("voting: no period open for proposal")
	// ErrAlreadyVoted is returned on a second vote from the same voter.
	ErrAlreadyVoted = errors.New("voting: voter has already cast a ballot")
	// ErrSelfDelegation is returned when a voter tries to delegate to themself.
	ErrSelfDelegation = errors.New("voting: self-delegation is not permitted")
	// ErrInvalidChoice is returned for a ballot outside {Yes, No, Abstain}.
	ErrInvalidChoice = errors.New("voting: invalid vote choice")
)

type period struct {
	proposalID string
	friction   types.FrictionParams
	votes      map[string]recordedVote
	closed     bool
	tally      VotingTally
}

// Engine tracks open voting periods and the standing delegation graph.
// Delegations persist across proposals; they are a property of the voter
// relationship, not of any single vote.
type Engine struct {
	mu      sync.Mutex
	emitter events.Emitter

	periods     map[string]*period
	delegations map[string]map[string]*big.Int // from -> to -> amount
}

// New constructs an Engine. A nil emitter is treated as events.NoopEmitter.
func New(emitter events.Emitter) *Engine {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Engine{
		emitter:     emitter,
		periods:     make(map[string]*period),
		delegations: make(map[string]map[string]*big.Int),
	}
}

// OpenPeriod starts accepting votes for proposalID under the supplied
// friction parameters.
func (e *Engine) OpenPeriod(proposalID string, friction types.FrictionParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.periods[proposalID]; exists {
		return ErrPeriodExists
	}
	e.periods[proposalID] = &period{
		proposalID: proposalID,
		friction:   friction,
		votes:      make(map[string]recordedVote),
	}
	return nil
}

// Delegate adds amount to the standing delegation from "from" to "to".
// Delegation is additive: calling it twice for the same pair accumulates.
func (e *Engine) Delegate(from, to string, amount *big.Int) error {
	if from == to {
		return ErrSelfDelegation
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("voting: delegation amount must be positive")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	toMap, ok := e.delegations[from]
	if !ok {
		toMap = make(map[string]*big.Int)
		e.delegations[from] = toMap
	}
	existing, ok := toMap[to]
	if !ok {
		existing = big.NewInt(0)
		toMap[to] = existing
	}
	existing.Add(existing, amount)
	return nil
}

// Undelegate fully revokes whatever standing delegation exists from "from"
// to "to".
func (e *Engine) Undelegate(from, to string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	toMap, ok := e.delegations[from]
	if !ok {
		return nil
	}
	delete(toMap, to)
	return nil
}

// delegatedPowerLocked sums every standing delegation directed at voter.
func (e *Engine) delegatedPowerLocked(voter string) *big.Int {
	total := big.NewInt(0)
	for _, toMap := range e.delegations {
		if amount, ok := toMap[voter]; ok {
			total.Add(total, amount)
		}
	}
	return total
}

// CastVote records voter's ballot on proposalID. Effective power is
// ownPower plus every active delegation directed at voter, snapshotted at
// the moment of voting; a delegator's own ballot (if cast) only ever uses
// their own power, so delegated amounts are never double-counted.
func (e *Engine) CastVote(proposalID, voter string, choice Choice, ownPower *big.Int) error {
	if !choice.valid() {
		return ErrInvalidChoice
	}
	if ownPower == nil {
		ownPower = big.NewInt(0)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.periods[proposalID]
	if !ok {
		return ErrNoSuchPeriod
	}
	if p.closed {
		return fmt.Errorf("voting: period for proposal %s is closed", proposalID)
	}
	if _, voted := p.votes[voter]; voted {
		return ErrAlreadyVoted
	}

	effective := new(big.Int).Add(ownPower, e.delegatedPowerLocked(voter))
	p.votes[voter] = recordedVote{choice: choice, power: effective}

	e.emitter.Emit(events.VoteCast{ProposalID: proposalID, Voter: voter, Choice: string(choice), Power: effective.String()}.Event())
	return nil
}

// ClosePeriod tallies every recorded ballot against totalSupply and marks
// the period closed. Re-invoking it after closure returns the stored
// tally without recomputing anything.
func (e *Engine) ClosePeriod(proposalID string, totalSupply *big.Int) (VotingTally, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.periods[proposalID]
	if !ok {
		return VotingTally{}, ErrNoSuchPeriod
	}
	if p.closed {
		return p.tally, nil
	}

	yes, no, abstain := big.NewInt(0), big.NewInt(0), big.NewInt(0)
	for _, v := range p.votes {
		switch v.choice {
		case ChoiceYes:
			yes.Add(yes, v.power)
		case ChoiceNo:
			no.Add(no, v.power)
		case ChoiceAbstain:
			abstain.Add(abstain, v.power)
		}
	}

	participating := new(big.Int).Add(yes, no)
	participating.Add(participating, abstain)

	var participationRate float64
	if totalSupply != nil && totalSupply.Sign() > 0 {
		rate := new(big.Float).Quo(new(big.Float).SetInt(participating), new(big.Float).SetInt(totalSupply))
		participationRate, _ = rate.Float64()
	}

	quorumReached := participationRate >= p.friction.RequiredQuorum
	passed := quorumReached && yes.Cmp(no) > 0

	tally := VotingTally{
		ProposalID:        proposalID,
		YesPower:          yes,
		NoPower:           no,
		AbstainPower:      abstain,
		ParticipationRate: participationRate,
		QuorumReached:     quorumReached,
		Passed:            passed,
	}
	p.tally = tally
	p.closed = true

	e.emitter.Emit(events.VotingClosed{ProposalID: proposalID, Passed: passed, QuorumReached: quorumReached}.Event())
	return tally, nil
}
