package oracle

import (
	"sort"

	"governcore/core/events"
	"governcore/core/types"
)

// TallyResult summarizes a completed round.
type TallyResult struct {
	ProposalID     string
	Participation  int
	QuorumRequired int
	QuorumReached  bool
	ChannelA       types.ChannelAVerdict
	ChannelB       types.ChannelBVerdict
	NonRevealers   []string
}

// Tally aggregates recorded reveals into a single verdict pair. It is a
// pure function of the ordered multiset of reveals (ordered by submission
// sequence, standing in for the substrate's ledger-index ordering) and
// carries no wall-clock dependency.
func (r *Round) Tally() TallyResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	quorumRequired := r.quorumRequiredLocked()
	result := TallyResult{
		ProposalID:     r.proposalID,
		Participation:  len(r.reveals),
		QuorumRequired: quorumRequired,
		QuorumReached:  len(r.reveals) >= quorumRequired,
		NonRevealers:   r.nonRevealersLocked(),
	}
	for _, id := range result.NonRevealers {
		r.emitter.Emit(events.OracleNonReveal{ProposalID: r.proposalID, OracleID: id}.Event())
	}

	if len(r.reveals) == 0 {
		result.ChannelB = types.FallbackChannelBVerdict()
		r.emitter.Emit(events.OracleRoundTallied{ProposalID: r.proposalID, QuorumReached: result.QuorumReached, ChannelAPass: false}.Event())
		return result
	}

	ordered := make([]sequencedReveal, 0, len(r.reveals))
	for _, rev := range r.reveals {
		ordered = append(ordered, rev)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	result.ChannelA = aggregateChannelA(ordered)
	result.ChannelB = aggregateChannelB(ordered)

	r.emitter.Emit(events.OracleRoundTallied{
		ProposalID:    r.proposalID,
		QuorumReached: result.QuorumReached,
		ChannelAPass:  result.ChannelA.Pass,
	}.Event())
	return result
}

// aggregateChannelA takes a majority vote on Pass, tie-breaking toward
// false, then copies the full verdict from the first (by ledger-index
// order) reveal that agrees with the winning Pass value.
func aggregateChannelA(ordered []sequencedReveal) types.ChannelAVerdict {
	passVotes, failVotes := 0, 0
	for _, rev := range ordered {
		if rev.ChannelA.Pass {
			passVotes++
		} else {
			failVotes++
		}
	}
	majorityPass := passVotes > failVotes

	for _, rev := range ordered {
		if rev.ChannelA.Pass == majorityPass {
			return rev.ChannelA
		}
	}
	// Unreachable: the loop above always finds at least one matching
	// reveal, since majorityPass is derived from the same set.
	return ordered[0].ChannelA
}

// aggregateChannelB takes the arithmetic mean of alignment scores and the
// plurality decidability class, tie-breaking toward the highest class
// (IV > III > II > I, the conservative outcome). AI-interest-conflict is
// true whenever any oracle reports it; the epistemic flag is carried
// whenever a strict majority of reveals report uncertainty.
func aggregateChannelB(ordered []sequencedReveal) types.ChannelBVerdict {
	var sum float64
	anyConflict := false
	uncertainCount := 0
	classVotes := make(map[types.DecidabilityClass]int)
	var classOrder []types.DecidabilityClass

	for _, rev := range ordered {
		sum += rev.ChannelB.AlignmentScore
		if rev.ChannelB.AIInterestConflict {
			anyConflict = true
		}
		if rev.ChannelB.EpistemicFlag == types.EpistemicFlagUncertain {
			uncertainCount++
		}
		if _, seen := classVotes[rev.ChannelB.DecidabilityClass]; !seen {
			classOrder = append(classOrder, rev.ChannelB.DecidabilityClass)
		}
		classVotes[rev.ChannelB.DecidabilityClass]++
	}

	sort.Slice(classOrder, func(i, j int) bool {
		vi, vj := classVotes[classOrder[i]], classVotes[classOrder[j]]
		if vi != vj {
			return vi > vj
		}
		return classOrder[i].Rank() > classOrder[j].Rank()
	})

	verdict := types.ChannelBVerdict{
		AlignmentScore:     sum / float64(len(ordered)),
		DecidabilityClass:  classOrder[0],
		AIInterestConflict: anyConflict,
	}
	if uncertainCount*2 > len(ordered) {
		verdict.EpistemicFlag = types.EpistemicFlagUncertain
	}
	return verdict
}
