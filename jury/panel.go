package jury

import (
	"errors"
	"sync"
	"time"

	"governcore/core/events"
)

var (
	// ErrPanelExists is returned by Open for a proposal already selected.
	ErrPanelExists = errors.New("jury: panel already selected for proposal")
	// ErrNoSuchPanel is returned when acting on a proposal with no panel.
	ErrNoSuchPanel = errors.New("jury: no panel selected for proposal")
	// ErrNotAJuror is returned when a vote is cast by an address outside
	// the selected panel.
	ErrNotAJuror = errors.New("jury: address is not a selected juror")
	// ErrAlreadyVoted is returned on a second ballot from the same juror.
	ErrAlreadyVoted = errors.New("jury: juror has already voted")
	// ErrVotingClosed is returned for a ballot cast after the 72h window.
	ErrVotingClosed = errors.New("jury: voting period has closed")
)

type panelState struct {
	jurors   map[string]struct{}
	ballots  map[string]Choice
	deadline time.Time
	resolved bool
	verdict  Verdict
}

// Panel tracks selected jurors and their ballots across proposals, for both
// the Constitutional Jury and Human-Majority Jury routes.
type Panel struct {
	mu      sync.Mutex
	emitter events.Emitter
	panels  map[string]*panelState
}

// NewPanel constructs a Panel. A nil emitter is treated as
// events.NoopEmitter.
func NewPanel(emitter events.Emitter) *Panel {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Panel{emitter: emitter, panels: make(map[string]*panelState)}
}

// Open registers a proposal's selected jurors and starts its 72h voting
// window from now.
func (p *Panel) Open(proposalID string, jurors []string, now time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.panels[proposalID]; exists {
		return ErrPanelExists
	}
	set := make(map[string]struct{}, len(jurors))
	for _, j := range jurors {
		set[j] = struct{}{}
	}
	p.panels[proposalID] = &panelState{
		jurors:   set,
		ballots:  make(map[string]Choice),
		deadline: now.Add(VotingPeriod),
	}
	return nil
}

// CastVote records juror's ballot on proposalID.
func (p *Panel) CastVote(proposalID, juror string, choice Choice, now time.Time) error {
	if !choice.valid() {
		return errors.New("jury: invalid ballot choice")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.panels[proposalID]
	if !ok {
		return ErrNoSuchPanel
	}
	if _, isJuror := st.jurors[juror]; !isJuror {
		return ErrNotAJuror
	}
	if now.After(st.deadline) {
		return ErrVotingClosed
	}
	if _, voted := st.ballots[juror]; voted {
		return ErrAlreadyVoted
	}
	st.ballots[juror] = choice
	return nil
}

// Resolve tallies ballots against the 2/3 supermajority threshold. It
// resolves early once every juror has voted, or once now passes the 72h
// deadline; calling it before either condition returns the round still
// open. Re-invoking after resolution returns the stored verdict.
func (p *Panel) Resolve(proposalID string, now time.Time) (Verdict, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.panels[proposalID]
	if !ok {
		return "", ErrNoSuchPanel
	}
	if st.resolved {
		return st.verdict, nil
	}
	if len(st.ballots) < len(st.jurors) && now.Before(st.deadline) {
		return "", errors.New("jury: voting period still open")
	}

	var yes, no int
	for _, choice := range st.ballots {
		switch choice {
		case ChoiceYes:
			yes++
		case ChoiceNo:
			no++
		}
	}
	verdict := VerdictNoVerdict
	if yes+no > 0 {
		threshold := supermajorityThreshold(yes + no)
		switch {
		case yes >= threshold:
			verdict = VerdictApproved
		case no >= threshold:
			verdict = VerdictRejected
		}
	}

	st.resolved = true
	st.verdict = verdict

	p.emitter.Emit(events.JuryResolved{ProposalID: proposalID, Verdict: string(verdict), JurySize: len(st.jurors)}.Event())
	return verdict, nil
}

// supermajorityThreshold returns ceil(total * 2/3).
func supermajorityThreshold(total int) int {
	return (total*2 + 2) / 3
}
