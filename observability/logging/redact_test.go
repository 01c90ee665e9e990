package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskFieldRedactsSensitiveKeys(t *testing.T) {
	attr := MaskField("commitment_hash", "deadbeef")
	require.Equal(t, RedactedValue, attr.Value.String())

	attr = MaskField("nonce", "0011223344")
	require.Equal(t, RedactedValue, attr.Value.String())

	attr = MaskField("amount_drop", "15000000000")
	require.Equal(t, RedactedValue, attr.Value.String())

	attr = MaskField("bond_drops", "100000000000")
	require.Equal(t, RedactedValue, attr.Value.String())

	attr = MaskField("power", "500")
	require.Equal(t, RedactedValue, attr.Value.String())
}

func TestMaskFieldPassesAllowlistedKeys(t *testing.T) {
	attr := MaskField("reason", "quorum not reached")
	require.Equal(t, "quorum not reached", attr.Value.String())

	attr = MaskField("error", "boom")
	require.Equal(t, "boom", attr.Value.String())

	attr = MaskField("proposal_id", "abc123")
	require.Equal(t, "abc123", attr.Value.String())

	attr = MaskField("oracle_id", "oracle-1")
	require.Equal(t, "oracle-1", attr.Value.String())
}

func TestMaskValueLeavesEmptyAlone(t *testing.T) {
	require.Equal(t, "", MaskValue(""))
	require.Equal(t, RedactedValue, MaskValue("100000000000"))
}

func TestRedactionAllowlistSorted(t *testing.T) {
	keys := RedactionAllowlist()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		require.Less(t, keys[i-1], keys[i])
	}
}
