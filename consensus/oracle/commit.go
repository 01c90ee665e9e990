package oracle

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"governcore/core/types"
	"governcore/internal/canon"
)

type verdictPair struct {
	Pass               bool    `json:"pass"`
	ComplexityScore    uint64  `json:"complexity_score"`
	ParadoxFound       bool    `json:"paradox_found"`
	CycleFound         bool    `json:"cycle_found"`
	AlignmentScore     float64 `json:"alignment_score"`
	DecidabilityClass  string  `json:"decidability_class"`
	AIInterestConflict bool    `json:"ai_interest_conflict"`
	EpistemicFlag      string  `json:"epistemic_flag,omitempty"`
}

// CommitHash derives the hash an oracle commits to before revealing its
// computed verdicts: sha256(canonical_json(verdict_pair) ++ nonce), exactly
// as §3 and §4.4(b) define it. Per-oracle and per-proposal binding is
// already provided by the round's oracle-keyed commitment map, so the
// digest itself carries nothing but the verdict and nonce: any conforming
// oracle implementation, and any independent verifier of a §6 ORACLE_COMMIT
// memo, must be able to recompute the identical hash from those two values
// alone.
func CommitHash(a types.ChannelAVerdict, b types.ChannelBVerdict, nonce [16]byte) [32]byte {
	pair := verdictPair{
		Pass:               a.Pass,
		ComplexityScore:    a.ComplexityScore,
		ParadoxFound:       a.ParadoxFound,
		CycleFound:         a.CycleFound,
		AlignmentScore:     b.AlignmentScore,
		DecidabilityClass:  string(b.DecidabilityClass),
		AIInterestConflict: b.AIInterestConflict,
		EpistemicFlag:      string(b.EpistemicFlag),
	}
	raw, err := json.Marshal(pair)
	if err != nil {
		// verdictPair's fields are all JSON-trivial; Marshal cannot fail.
		panic(fmt.Sprintf("oracle: marshal verdict pair: %v", err))
	}
	canonicalJSON, err := canon.CanonicalJSON(string(raw))
	if err != nil {
		panic(fmt.Sprintf("oracle: canonicalize verdict pair: %v", err))
	}

	h := sha256.New()
	h.Write(canonicalJSON)
	h.Write(nonce[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
