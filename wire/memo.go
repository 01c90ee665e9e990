// Package wire encodes and decodes the bit-stable memo payloads the core
// hands to the ledger substrate adapter (spec §6). Every payload is JSON
// with a fixed "type" tag; amount-bearing fields are additionally rendered
// as fixed-width 256-bit words via holiman/uint256 so the wire
// representation matches what an EVM-style substrate would accept for a
// memo attachment, even though the core's own arithmetic stays in
// arbitrary-precision big.Int.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// MemoType is the fixed type tag carried by every outbound memo.
type MemoType string

const (
	MemoOracleCommit   MemoType = "ORACLE_COMMIT"
	MemoOracleReveal   MemoType = "ORACLE_REVEAL"
	MemoVote           MemoType = "VOTE"
	MemoProposal       MemoType = "PROPOSAL"
	MemoStateAnchor    MemoType = "STATE_ANCHOR"
	MemoOracleRegister MemoType = "ORACLE_REGISTER"
	MemoFraudProof     MemoType = "FRAUD_PROOF"
)

// ErrUnknownMemoType is returned when decoding a memo whose type tag does
// not match any known payload.
var ErrUnknownMemoType = errors.New("wire: unknown memo type")

// Envelope is the outermost shape every memo shares: a type tag plus the
// type-specific body, carried as raw JSON so Decode can dispatch before
// unmarshaling the body.
type Envelope struct {
	Type MemoType        `json:"type"`
	Body json.RawMessage `json:"body"`
}

// OracleCommitMemo is the ORACLE_COMMIT payload.
type OracleCommitMemo struct {
	ProposalID     string `json:"proposal_id"`
	CommitmentHash string `json:"commitment_hash"`
	Timestamp      uint64 `json:"timestamp"`
}

// EncodeOracleCommit renders an ORACLE_COMMIT memo.
func EncodeOracleCommit(m OracleCommitMemo) ([]byte, error) {
	return encode(MemoOracleCommit, m)
}

// OracleRevealMemo is the ORACLE_REVEAL payload. Verdict carries the
// oracle's combined Channel-A/Channel-B verdict as opaque JSON, matching
// the spec's "ChannelAVerdict ⊕ ChannelBVerdict" notation: the core does
// not need to know the exact shape to relay it.
type OracleRevealMemo struct {
	ProposalID string          `json:"proposal_id"`
	Verdict    json.RawMessage `json:"verdict"`
	Nonce      string          `json:"nonce"`
	Timestamp  uint64          `json:"timestamp"`
}

// EncodeOracleReveal renders an ORACLE_REVEAL memo.
func EncodeOracleReveal(m OracleRevealMemo) ([]byte, error) {
	return encode(MemoOracleReveal, m)
}

// VoteMemo is the VOTE payload. Power is rendered as a decimal string (the
// spec's "decimal_string") to preserve arbitrary precision across the wire.
type VoteMemo struct {
	ProposalID string `json:"proposal_id"`
	Vote       string `json:"vote"`
	Power      string `json:"power"`
	Timestamp  uint64 `json:"timestamp"`
}

// EncodeVote renders a VOTE memo.
func EncodeVote(m VoteMemo) ([]byte, error) {
	return encode(MemoVote, m)
}

// ProposalMemo is the PROPOSAL payload.
type ProposalMemo struct {
	ID       string `json:"id"`
	LogicAST string `json:"logic_ast"`
	Text     string `json:"text"`
	Layer    string `json:"layer"`
}

// EncodeProposal renders a PROPOSAL memo.
func EncodeProposal(m ProposalMemo) ([]byte, error) {
	return encode(MemoProposal, m)
}

// StateAnchorMemo is the STATE_ANCHOR payload, anchoring a Merkle-style
// summary of proposal and oracle state to the ledger for cross-chain
// bridging (produced by the out-of-scope anchoring adapter; the core only
// supplies the roots and counts it already tracks).
type StateAnchorMemo struct {
	Type          string `json:"type"`
	Version       int    `json:"version"`
	Root          string `json:"root"`
	ProposalsRoot string `json:"proposals_root"`
	OraclesRoot   string `json:"oracles_root"`
	ProposalCount uint64 `json:"proposal_count"`
	OracleCount   uint64 `json:"oracle_count"`
	Timestamp     uint64 `json:"timestamp"`
}

// EncodeStateAnchor renders a STATE_ANCHOR memo.
func EncodeStateAnchor(m StateAnchorMemo) ([]byte, error) {
	m.Type = string(MemoStateAnchor)
	if m.Version == 0 {
		m.Version = 1
	}
	return encode(MemoStateAnchor, m)
}

// OracleRegisterMemo is the ORACLE_REGISTER payload. BondDrops carries the
// bond as the 0x-prefixed fixed-width 256-bit word produced by AmountWord,
// the encoding an EVM-style substrate expects for an amount field; use
// NewOracleRegisterMemo to build one from the registry's big.Int bond.
type OracleRegisterMemo struct {
	OracleID  string `json:"oracle_id"`
	BondDrops string `json:"bond_drops"`
	Timestamp uint64 `json:"timestamp"`
}

// NewOracleRegisterMemo builds an ORACLE_REGISTER payload, rendering the
// bond through AmountWord.
func NewOracleRegisterMemo(oracleID string, bondDrops *big.Int, timestamp uint64) (OracleRegisterMemo, error) {
	_, word, err := AmountWord(bondDrops)
	if err != nil {
		return OracleRegisterMemo{}, err
	}
	return OracleRegisterMemo{OracleID: oracleID, BondDrops: word, Timestamp: timestamp}, nil
}

// BondAmount parses the memo's bond word back into a big.Int.
func (m OracleRegisterMemo) BondAmount() (*big.Int, error) {
	return ParseAmountWord(m.BondDrops)
}

// EncodeOracleRegister renders an ORACLE_REGISTER memo.
func EncodeOracleRegister(m OracleRegisterMemo) ([]byte, error) {
	return encode(MemoOracleRegister, m)
}

// DecodeOracleRegister decodes an ORACLE_REGISTER envelope body.
func DecodeOracleRegister(env Envelope) (OracleRegisterMemo, error) {
	var m OracleRegisterMemo
	if env.Type != MemoOracleRegister {
		return m, ErrUnknownMemoType
	}
	err := json.Unmarshal(env.Body, &m)
	return m, err
}

// FraudProofMemo is the FRAUD_PROOF payload. ReceiptID is an idempotency
// key (see wire.NewReceiptID) so a submission retried after a substrate
// timeout is recognized as the same proof rather than double-counted.
type FraudProofMemo struct {
	ProposalID  string   `json:"proposal_id"`
	ReceiptID   string   `json:"receipt_id"`
	Discrepancy []string `json:"discrepancy"`
	Timestamp   uint64   `json:"timestamp"`
}

// EncodeFraudProof renders a FRAUD_PROOF memo.
func EncodeFraudProof(m FraudProofMemo) ([]byte, error) {
	return encode(MemoFraudProof, m)
}

func encode(t MemoType, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("wire: encode %s body: %w", t, err)
	}
	return json.Marshal(Envelope{Type: t, Body: raw})
}

// DecodeEnvelope unwraps the type tag without decoding the body, so a
// caller can dispatch to the matching Decode* function.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("wire: decode envelope: %w", err)
	}
	return env, nil
}

// DecodeOracleCommit decodes an ORACLE_COMMIT envelope body.
func DecodeOracleCommit(env Envelope) (OracleCommitMemo, error) {
	var m OracleCommitMemo
	if env.Type != MemoOracleCommit {
		return m, ErrUnknownMemoType
	}
	err := json.Unmarshal(env.Body, &m)
	return m, err
}

// DecodeOracleReveal decodes an ORACLE_REVEAL envelope body.
func DecodeOracleReveal(env Envelope) (OracleRevealMemo, error) {
	var m OracleRevealMemo
	if env.Type != MemoOracleReveal {
		return m, ErrUnknownMemoType
	}
	err := json.Unmarshal(env.Body, &m)
	return m, err
}

// DecodeVote decodes a VOTE envelope body.
func DecodeVote(env Envelope) (VoteMemo, error) {
	var m VoteMemo
	if env.Type != MemoVote {
		return m, ErrUnknownMemoType
	}
	err := json.Unmarshal(env.Body, &m)
	return m, err
}

// DecodeProposal decodes a PROPOSAL envelope body.
func DecodeProposal(env Envelope) (ProposalMemo, error) {
	var m ProposalMemo
	if env.Type != MemoProposal {
		return m, ErrUnknownMemoType
	}
	err := json.Unmarshal(env.Body, &m)
	return m, err
}
