package types

import (
	"fmt"
	"strings"
)

// Layer identifies a proposal's position in the immutability-ordered
// governance hierarchy. Higher layers require stricter friction before a
// change can take effect; L0 cannot be modified at all.
type Layer uint8

const (
	// LayerUnspecified marks an unset or invalid layer and must never be
	// persisted against a submitted proposal.
	LayerUnspecified Layer = iota
	// LayerImmutable (L0) can never be modified through governance.
	LayerImmutable
	// LayerConstitutional (L1) governs the rules that constrain all other
	// layers and carries the highest friction floors.
	LayerConstitutional
	// LayerOperational (L2) covers day-to-day parameter and policy changes.
	LayerOperational
	// LayerExecution (L3) covers low-friction execution-level changes.
	LayerExecution
)

// ParseLayer converts the wire string form of a layer ("L0-Immutable", ...)
// into its typed representation.
func ParseLayer(s string) (Layer, error) {
	switch strings.TrimSpace(s) {
	case "L0-Immutable":
		return LayerImmutable, nil
	case "L1-Constitutional":
		return LayerConstitutional, nil
	case "L2-Operational":
		return LayerOperational, nil
	case "L3-Execution":
		return LayerExecution, nil
	default:
		return LayerUnspecified, fmt.Errorf("types: unknown layer %q", s)
	}
}

// String renders the canonical wire representation of the layer.
func (l Layer) String() string {
	switch l {
	case LayerImmutable:
		return "L0-Immutable"
	case LayerConstitutional:
		return "L1-Constitutional"
	case LayerOperational:
		return "L2-Operational"
	case LayerExecution:
		return "L3-Execution"
	default:
		return "unspecified"
	}
}

// Valid reports whether the layer is one of the four recognised values.
func (l Layer) Valid() bool {
	switch l {
	case LayerImmutable, LayerConstitutional, LayerOperational, LayerExecution:
		return true
	default:
		return false
	}
}
