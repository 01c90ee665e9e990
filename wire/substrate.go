package wire

// LedgerSubstrate is the external ledger the core never implements, only
// consumes: it supplies the current ledger index, submits outbound memos,
// and runs the escrow primitives the Staking & Slashing Ledger and
// Governance Orchestrator rely on for bond custody and timelocked
// execution. A production deployment wires this to its chain client; tests
// wire it to an in-memory fake.
type LedgerSubstrate interface {
	CurrentLedgerIndex() (uint64, error)
	SubmitMemo(destination string, memoType MemoType, payload []byte) (SubmitResult, error)
	CreateEscrow(owner string, amountDrops string, finishAfter uint64) (seq uint64, err error)
	FinishEscrow(owner string, seq uint64) error
	CancelEscrow(owner string, seq uint64) error
	LedgerHash(index uint64) ([32]byte, error)
}

// SubmitResult is what SubmitMemo returns: the substrate's receipt for an
// outbound memo, including whether it has already reached validated
// finality.
type SubmitResult struct {
	TxHash      string
	LedgerIndex uint64
	Validated   bool
}

// SemanticAssessor is the external "soft" Channel B collaborator: an
// opaque reasoning service that scores a proposal's alignment and
// decidability class. The core never replays or emulates its judgment; on
// assessor failure, a caller falls back to types.FallbackChannelBVerdict.
type SemanticAssessor interface {
	Assess(proposalID string, logicAST string, naturalLanguageText string) (AssessmentResult, error)
}

// AssessmentResult is the tuple a SemanticAssessor returns.
type AssessmentResult struct {
	AlignmentScore     float64
	DecidabilityClass  string
	AIInterestConflict bool
	EpistemicFlag      string
}
