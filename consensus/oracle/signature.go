package oracle

import (
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureVerifier authenticates that a commit or reveal submission's
// digest was signed by the oracle it claims to come from. The round logic
// is signature-agnostic: a deployment that authenticates oracles at the
// transport layer (mTLS, a gateway) can pass NoopSignatureVerifier instead.
type SignatureVerifier interface {
	Verify(oracleAddressHex string, digest [32]byte, sig []byte) error
}

// NoopSignatureVerifier accepts every submission, for deployments that
// authenticate oracles below this package.
type NoopSignatureVerifier struct{}

func (NoopSignatureVerifier) Verify(string, [32]byte, []byte) error { return nil }

// ECDSASignatureVerifier recovers the signer from a 65-byte
// recoverable secp256k1 signature and checks it against the claimed oracle
// address, the same recovery idiom this lineage's evidence-reporter checks
// use.
type ECDSASignatureVerifier struct{}

func (ECDSASignatureVerifier) Verify(oracleAddressHex string, digest [32]byte, sig []byte) error {
	if len(sig) != 65 {
		return &ValidationError{Reason: RejectReasonHashMismatch, Message: "signature must be 65 bytes"}
	}
	pubKey, err := ethcrypto.SigToPub(digest[:], sig)
	if err != nil {
		return &ValidationError{Reason: RejectReasonHashMismatch, Message: fmt.Sprintf("invalid signature: %v", err)}
	}
	recovered := ethcrypto.PubkeyToAddress(*pubKey)
	want := strings.TrimPrefix(oracleAddressHex, "0x")
	if !strings.EqualFold(recovered.Hex()[2:], want) {
		return &ValidationError{Reason: RejectReasonHashMismatch, Message: "signature does not match oracle address"}
	}
	return nil
}
