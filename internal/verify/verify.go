// Package verify implements Channel A, the deterministic verification
// engine: canonicalization is delegated to the canon package, and this
// package applies the complexity bound, paradox detection, and cycle
// detection passes. Every exported entry point is a pure function of its
// inputs so that two conforming implementations compute byte-identical
// verdicts.
package verify

import (
	"governcore/core/types"
	"governcore/internal/canon"
)

// MaxComplexity is the upper bound on the deflate-compressed length of a
// proposal's canonical bytes.
const MaxComplexity = 10000

// MaxRawASTBytes bounds the cycle-detection pass; inputs whose canonical
// bytes exceed this budget are treated as cyclic rather than walked
// unbounded.
const MaxRawASTBytes = 64 * 1024

// Verify runs the full Channel A pipeline against the supplied proposal
// fields and returns the resulting verdict.
func Verify(proposer, logicAST, text, layer string) types.ChannelAVerdict {
	payload, err := canon.Canonicalize(proposer, logicAST, text, layer)
	if err != nil {
		return types.ChannelAVerdict{}
	}
	return VerifyCanonical(payload.Bytes)
}

// VerifyCanonical runs the complexity, paradox, and cycle passes directly
// against already-canonicalized bytes. The fraud-proof verifier re-executes
// this function on witness bytes without canonicalizing first.
func VerifyCanonical(canonicalBytes []byte) types.ChannelAVerdict {
	complexityScore := Complexity(canonicalBytes)

	normalizedText := textSuffix(canonicalBytes)
	paradoxFound := ParadoxFound(normalizedText)

	var cycleFound bool
	if len(canonicalBytes) > MaxRawASTBytes {
		cycleFound = true
	} else {
		jsonPart := jsonPrefix(canonicalBytes)
		cycleFound = CycleFound(jsonPart)
	}

	pass := complexityScore <= MaxComplexity && !paradoxFound && !cycleFound
	return types.ChannelAVerdict{
		Pass:            pass,
		ComplexityScore: complexityScore,
		ParadoxFound:    paradoxFound,
		CycleFound:      cycleFound,
	}
}

// jsonPrefix returns the canonical JSON portion of the canonical bytes (the
// part before the final '.' separator introduced by canon.Canonicalize).
func jsonPrefix(canonicalBytes []byte) []byte {
	idx := lastIndexByte(canonicalBytes, '.')
	if idx < 0 {
		return canonicalBytes
	}
	return canonicalBytes[:idx]
}

// textSuffix returns the normalized text portion of the canonical bytes (the
// part after the last '.' separator).
func textSuffix(canonicalBytes []byte) []byte {
	idx := lastIndexByte(canonicalBytes, '.')
	if idx < 0 || idx+1 > len(canonicalBytes) {
		return nil
	}
	return canonicalBytes[idx+1:]
}

func lastIndexByte(b []byte, c byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}
