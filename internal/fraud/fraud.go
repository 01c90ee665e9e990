// Package fraud implements the fraud-proof verifier: given a witness (the
// canonical bytes a prior verdict was supposedly computed from) it
// re-executes the Channel A pipeline and reports whether the claimed
// verdict diverges from the recomputed one. It never itself "fails" -
// every well-formed witness produces a Result, proven or not.
package fraud

import (
	"encoding/hex"
	"fmt"

	"governcore/core/types"
	"governcore/internal/verify"
	"governcore/wire"
)

// Witness is the evidence a fraud-proof submission carries: the hex-encoded
// canonical bytes the disputed verdict was claimed to derive from (§4.3's
// canonical_payload_hex, already past canonicalization - Verify does not
// re-canonicalize it), and that claimed verdict itself.
type Witness struct {
	ProposalID          string
	CanonicalPayloadHex string
	ClaimedVerdict      types.ChannelAVerdict
}

// Discrepancy names one field on which the claimed verdict and the
// recomputed verdict disagree.
type Discrepancy struct {
	Field      string
	Claimed    interface{}
	Recomputed interface{}
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s: claimed=%v recomputed=%v", d.Field, d.Claimed, d.Recomputed)
}

// Result is the outcome of evaluating a fraud-proof witness.
type Result struct {
	ProposalID string
	Proven     bool
	// Unverifiable marks a witness that failed the §4.3 length/encoding
	// sanity check before re-execution ever ran: such a witness is always
	// reported NotProven (Proven is false), never Proven, regardless of the
	// claimed verdict.
	Unverifiable      bool
	Reason            string
	RecomputedVerdict types.ChannelAVerdict
	Discrepancies     []Discrepancy
}

// Verify decodes the witness's hex-encoded canonical payload, re-executes
// the Channel A pipeline against it, and compares the result field-by-field
// against the claimed verdict. The proof is Proven whenever at least one
// field diverges - a byte-identical canonicalization step means any
// divergence traces back to the complexity, paradox, or cycle pass, not to
// disagreement over canonicalization itself. A witness that fails hex
// decoding, or decodes to an empty payload, never reaches re-execution: it
// is reported Unverifiable/NotProven rather than Proven, per §4.3's failure
// semantics.
func Verify(w Witness) Result {
	canonicalBytes, err := hex.DecodeString(w.CanonicalPayloadHex)
	if err != nil {
		return Result{ProposalID: w.ProposalID, Unverifiable: true, Reason: "canonical_payload_hex: " + err.Error()}
	}
	if len(canonicalBytes) == 0 {
		return Result{ProposalID: w.ProposalID, Unverifiable: true, Reason: "canonical_payload_hex: decodes to empty payload"}
	}

	recomputed := verify.VerifyCanonical(canonicalBytes)

	var discrepancies []Discrepancy
	if recomputed.Pass != w.ClaimedVerdict.Pass {
		discrepancies = append(discrepancies, Discrepancy{"pass", w.ClaimedVerdict.Pass, recomputed.Pass})
	}
	if recomputed.ComplexityScore != w.ClaimedVerdict.ComplexityScore {
		discrepancies = append(discrepancies, Discrepancy{"complexity_score", w.ClaimedVerdict.ComplexityScore, recomputed.ComplexityScore})
	}
	if recomputed.ParadoxFound != w.ClaimedVerdict.ParadoxFound {
		discrepancies = append(discrepancies, Discrepancy{"paradox_found", w.ClaimedVerdict.ParadoxFound, recomputed.ParadoxFound})
	}
	if recomputed.CycleFound != w.ClaimedVerdict.CycleFound {
		discrepancies = append(discrepancies, Discrepancy{"cycle_found", w.ClaimedVerdict.CycleFound, recomputed.CycleFound})
	}

	return Result{
		ProposalID:        w.ProposalID,
		Proven:            len(discrepancies) > 0,
		RecomputedVerdict: recomputed,
		Discrepancies:     discrepancies,
	}
}

// Memo renders a proven Result as the FRAUD_PROOF wire payload submitted to
// the ledger substrate, minting a fresh receipt id so a retried submission
// after a substrate timeout is recognized as the same proof. Callers should
// only submit when Proven is true; Memo does not check this itself since a
// caller may want the encoded form of an unproven result for logging.
func (r Result) Memo(timestamp uint64) (wire.FraudProofMemo, error) {
	discrepancy := make([]string, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancy[i] = d.String()
	}
	return wire.FraudProofMemo{
		ProposalID:  r.ProposalID,
		ReceiptID:   wire.NewReceiptID(),
		Discrepancy: discrepancy,
		Timestamp:   timestamp,
	}, nil
}
