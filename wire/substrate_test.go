package wire

import (
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeLedgerSubstrate is a hand-written in-memory LedgerSubstrate double.
// Submitted memos are recorded verbatim so a test can assert on exactly
// what the core tried to send, without a generated-mock framework.
type fakeLedgerSubstrate struct {
	mu      sync.Mutex
	index   uint64
	memos   []fakeSubmittedMemo
	escrows map[uint64]string
	nextSeq uint64
}

type fakeSubmittedMemo struct {
	Destination string
	Type        MemoType
	Payload     []byte
}

func newFakeLedgerSubstrate(startIndex uint64) *fakeLedgerSubstrate {
	return &fakeLedgerSubstrate{index: startIndex, escrows: make(map[uint64]string)}
}

func (f *fakeLedgerSubstrate) CurrentLedgerIndex() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index, nil
}

func (f *fakeLedgerSubstrate) SubmitMemo(destination string, memoType MemoType, payload []byte) (SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index++
	f.memos = append(f.memos, fakeSubmittedMemo{Destination: destination, Type: memoType, Payload: payload})
	return SubmitResult{
		TxHash:      fmt.Sprintf("fake-tx-%d", f.index),
		LedgerIndex: f.index,
		Validated:   true,
	}, nil
}

func (f *fakeLedgerSubstrate) CreateEscrow(owner string, amountDrops string, finishAfter uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSeq++
	f.escrows[f.nextSeq] = owner
	return f.nextSeq, nil
}

func (f *fakeLedgerSubstrate) FinishEscrow(owner string, seq uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.escrows[seq] != owner {
		return fmt.Errorf("wire: escrow %d not owned by %s", seq, owner)
	}
	delete(f.escrows, seq)
	return nil
}

func (f *fakeLedgerSubstrate) CancelEscrow(owner string, seq uint64) error {
	return f.FinishEscrow(owner, seq)
}

func (f *fakeLedgerSubstrate) LedgerHash(index uint64) ([32]byte, error) {
	var h [32]byte
	h[0] = byte(index)
	return h, nil
}

var _ LedgerSubstrate = (*fakeLedgerSubstrate)(nil)

func TestFakeLedgerSubstrateSubmitsEncodedMemo(t *testing.T) {
	sub := newFakeLedgerSubstrate(100)

	memo, err := NewOracleRegisterMemo("oracleA", big.NewInt(100_000_000_000), 1700000000)
	require.NoError(t, err)
	payload, err := EncodeOracleRegister(memo)
	require.NoError(t, err)

	result, err := sub.SubmitMemo("oracle-registry", MemoOracleRegister, payload)
	require.NoError(t, err)
	require.True(t, result.Validated)
	require.Equal(t, uint64(101), result.LedgerIndex)

	require.Len(t, sub.memos, 1)
	env, err := DecodeEnvelope(sub.memos[0].Payload)
	require.NoError(t, err)
	require.Equal(t, MemoOracleRegister, env.Type)

	decoded, err := DecodeOracleRegister(env)
	require.NoError(t, err)
	bond, err := decoded.BondAmount()
	require.NoError(t, err)
	require.Equal(t, int64(100_000_000_000), bond.Int64())
}

func TestFakeLedgerSubstrateEscrowLifecycle(t *testing.T) {
	sub := newFakeLedgerSubstrate(0)

	seq, err := sub.CreateEscrow("oracleA", "100000000000", 1700003600)
	require.NoError(t, err)

	require.Error(t, sub.FinishEscrow("oracleB", seq))
	require.NoError(t, sub.FinishEscrow("oracleA", seq))
}

// fakeSemanticAssessor is a hand-written SemanticAssessor double that
// returns a fixed assessment, or an error when primed to simulate an
// assessor timeout.
type fakeSemanticAssessor struct {
	result AssessmentResult
	err    error
}

func (f fakeSemanticAssessor) Assess(string, string, string) (AssessmentResult, error) {
	return f.result, f.err
}

var _ SemanticAssessor = fakeSemanticAssessor{}

func TestFakeSemanticAssessorReturnsPrimedResult(t *testing.T) {
	assessor := fakeSemanticAssessor{result: AssessmentResult{AlignmentScore: 0.75, DecidabilityClass: "II"}}
	got, err := assessor.Assess("p1", "{}", "text")
	require.NoError(t, err)
	require.Equal(t, 0.75, got.AlignmentScore)
}
