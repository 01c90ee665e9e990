package fraud

import (
	"encoding/hex"
	"testing"

	"governcore/core/types"
	"governcore/internal/canon"
)

// Scenario E from the specification: a claimed verdict that omits a
// paradox the canonical text actually contains.
func TestScenarioEFraudProven(t *testing.T) {
	payload, err := canon.Canonicalize("rA", `{"action":"noop"}`, "This statement is false.", "L2-Operational")
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}

	claimed := types.ChannelAVerdict{Pass: true, ComplexityScore: 500, ParadoxFound: false, CycleFound: false}
	result := Verify(Witness{ProposalID: "p1", CanonicalPayloadHex: hex.EncodeToString(payload.Bytes), ClaimedVerdict: claimed})

	if !result.Proven {
		t.Fatalf("expected fraud to be proven, got %+v", result)
	}
	fields := map[string]bool{}
	for _, d := range result.Discrepancies {
		fields[d.Field] = true
	}
	if !fields["pass"] || !fields["paradox_found"] {
		t.Fatalf("expected discrepancies on pass and paradox_found, got %+v", result.Discrepancies)
	}
}

func TestMemoCarriesDiscrepancyStringsAndFreshReceipt(t *testing.T) {
	payload, err := canon.Canonicalize("rA", `{"action":"noop"}`, "This statement is false.", "L2-Operational")
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	claimed := types.ChannelAVerdict{Pass: true, ComplexityScore: 500, ParadoxFound: false, CycleFound: false}
	result := Verify(Witness{ProposalID: "p1", CanonicalPayloadHex: hex.EncodeToString(payload.Bytes), ClaimedVerdict: claimed})

	memoA, err := result.Memo(1700000000)
	if err != nil {
		t.Fatalf("memo: %v", err)
	}
	memoB, err := result.Memo(1700000000)
	if err != nil {
		t.Fatalf("memo: %v", err)
	}
	if memoA.ProposalID != "p1" {
		t.Fatalf("expected proposal id p1, got %s", memoA.ProposalID)
	}
	if len(memoA.Discrepancy) != len(result.Discrepancies) {
		t.Fatalf("expected %d discrepancy strings, got %d", len(result.Discrepancies), len(memoA.Discrepancy))
	}
	if memoA.ReceiptID == "" || memoB.ReceiptID == "" || memoA.ReceiptID == memoB.ReceiptID {
		t.Fatalf("expected distinct non-empty receipt ids, got %q and %q", memoA.ReceiptID, memoB.ReceiptID)
	}
}

func TestFraudNotProvenWhenVerdictsAgree(t *testing.T) {
	payload, err := canon.Canonicalize("rA", `{"action":"transfer"}`, "Transfer funds to the treasury", "L2-Operational")
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	hexPayload := hex.EncodeToString(payload.Bytes)
	claimed := Verify(Witness{ProposalID: "p1", CanonicalPayloadHex: hexPayload}).RecomputedVerdict
	result := Verify(Witness{ProposalID: "p1", CanonicalPayloadHex: hexPayload, ClaimedVerdict: claimed})
	if result.Proven {
		t.Fatalf("expected fraud not proven when claimed matches recomputed, got %+v", result)
	}
	if len(result.Discrepancies) != 0 {
		t.Fatalf("expected no discrepancies, got %+v", result.Discrepancies)
	}
}

func TestFraudUnverifiableWitnessIsNeverProven(t *testing.T) {
	result := Verify(Witness{ProposalID: "p1", CanonicalPayloadHex: "not-hex", ClaimedVerdict: types.ChannelAVerdict{Pass: true}})
	if result.Proven {
		t.Fatalf("expected an undecodable witness to never be reported Proven, got %+v", result)
	}
	if !result.Unverifiable {
		t.Fatalf("expected Unverifiable to be set for an undecodable witness, got %+v", result)
	}

	empty := Verify(Witness{ProposalID: "p1", CanonicalPayloadHex: "", ClaimedVerdict: types.ChannelAVerdict{Pass: true}})
	if empty.Proven || !empty.Unverifiable {
		t.Fatalf("expected an empty-payload witness to be Unverifiable and never Proven, got %+v", empty)
	}
}
