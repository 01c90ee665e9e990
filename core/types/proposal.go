package types

import "time"

// Proposal is the immutable input to the verification and governance
// pipeline. Its identifier is derived from the canonical reduction of
// LogicAST and Text (see the canon package), never stored independently.
type Proposal struct {
	Proposer  string    `json:"proposer"`
	LogicAST  string    `json:"logic_ast"`
	Text      string    `json:"text"`
	Layer     Layer     `json:"layer"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChannelAVerdict is the fixed-shape, deterministic output of the
// Verification Engine.
type ChannelAVerdict struct {
	Pass            bool   `json:"pass"`
	ComplexityScore uint64 `json:"complexity_score"`
	ParadoxFound    bool   `json:"paradox_found"`
	CycleFound      bool   `json:"cycle_found"`
}

// Equal reports whether two verdicts agree on all four fields, the
// comparison fraud proofs are built on.
func (v ChannelAVerdict) Equal(other ChannelAVerdict) bool {
	return v.Pass == other.Pass &&
		v.ComplexityScore == other.ComplexityScore &&
		v.ParadoxFound == other.ParadoxFound &&
		v.CycleFound == other.CycleFound
}

// DecidabilityClass is the routing tag chosen by the (external) semantic
// assessor, Channel B.
type DecidabilityClass string

const (
	DecidabilityClassI   DecidabilityClass = "I"
	DecidabilityClassII  DecidabilityClass = "II"
	DecidabilityClassIII DecidabilityClass = "III"
	DecidabilityClassIV  DecidabilityClass = "IV"
)

// Rank orders classes for tie-break comparisons (I < II < III < IV).
func (c DecidabilityClass) Rank() int {
	switch c {
	case DecidabilityClassI:
		return 1
	case DecidabilityClassII:
		return 2
	case DecidabilityClassIII:
		return 3
	case DecidabilityClassIV:
		return 4
	default:
		return 0
	}
}

// Valid reports whether the class is one of the four recognised values.
func (c DecidabilityClass) Valid() bool {
	return c.Rank() > 0
}

// EpistemicFlag captures the optional uncertainty marker a semantic
// assessor may attach to its verdict.
type EpistemicFlag string

// EpistemicFlagUncertain is the sole recognised epistemic flag value.
const EpistemicFlagUncertain EpistemicFlag = "UNCERTAIN"

// ChannelBVerdict is consumed opaquely from the external semantic assessor;
// the core never recomputes it.
type ChannelBVerdict struct {
	AlignmentScore     float64           `json:"alignment_score"`
	DecidabilityClass  DecidabilityClass `json:"decidability_class"`
	AIInterestConflict bool              `json:"ai_interest_conflict"`
	EpistemicFlag      EpistemicFlag     `json:"epistemic_flag,omitempty"`
}

// FallbackChannelBVerdict is substituted whenever the semantic assessor
// fails or times out.
func FallbackChannelBVerdict() ChannelBVerdict {
	return ChannelBVerdict{
		AlignmentScore:     0.5,
		DecidabilityClass:  DecidabilityClassIII,
		AIInterestConflict: false,
		EpistemicFlag:      EpistemicFlagUncertain,
	}
}

// FrictionParams are derived purely from the alignment score via the fixed
// formulas in the router package; they are attached to a proposal once
// routing has taken place.
type FrictionParams struct {
	RequiredQuorum      float64 `json:"required_quorum"`
	TimelockDurationS   int64   `json:"timelock_duration_s"`
	QuorumMultiplier    float64 `json:"quorum_multiplier"`
	TimelockMultiplier  float64 `json:"timelock_multiplier"`
	AlignmentScoreInput float64 `json:"alignment_score"`
}

// Route enumerates the possible decisions of the Decidability Router.
type Route string

const (
	RouteRejected           Route = "Rejected"
	RouteStandardVoting     Route = "Standard-Voting"
	RouteConstitutionalJury Route = "Constitutional-Jury"
	RouteFormalVerification Route = "Formal-Verification-external"
	RouteHumanMajorityJury  Route = "Human-Majority-Jury"
)
