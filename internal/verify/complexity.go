package verify

import (
	"bytes"
	"compress/flate"
)

// Complexity computes the deflate-compressed length of the canonical bytes
// at level 9 with the default window size and no custom dictionary (RFC
// 1951). The standard library's compress/flate is the reference codec: it
// is pinned to one implementation and version by the Go release itself, so
// no third-party codec improves on its determinism.
func Complexity(canonicalBytes []byte) uint64 {
	var buf bytes.Buffer
	// flate.NewWriter never fails for a valid compression level.
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	_, _ = w.Write(canonicalBytes)
	_ = w.Close()
	return uint64(buf.Len())
}
