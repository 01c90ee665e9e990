package wire

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// AmountWord renders a drops-denominated amount (arbitrary-precision in the
// core's own ledger arithmetic) as a 256-bit word and its 0x-prefixed hex
// form, the encoding an EVM-style ledger substrate expects for a memo
// amount field. drops must fit in 256 bits and must not be negative;
// bond_drops and amount_drops are u128 per spec §4.7, so this never
// truncates a value the core itself produced.
func AmountWord(drops *big.Int) (*uint256.Int, string, error) {
	if drops == nil {
		return nil, "", fmt.Errorf("wire: nil amount")
	}
	if drops.Sign() < 0 {
		return nil, "", fmt.Errorf("wire: negative amount %s", drops.String())
	}
	word, overflow := uint256.FromBig(drops)
	if overflow {
		return nil, "", fmt.Errorf("wire: amount %s overflows 256 bits", drops.String())
	}
	return word, word.Hex(), nil
}

// ParseAmountWord parses a 0x-prefixed hex word (as produced by AmountWord)
// back into a big.Int for the core's own arithmetic.
func ParseAmountWord(hex string) (*big.Int, error) {
	word, err := uint256.FromHex(hex)
	if err != nil {
		return nil, fmt.Errorf("wire: parse amount word: %w", err)
	}
	return word.ToBig(), nil
}
