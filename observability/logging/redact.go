package logging

import (
	"log/slog"
	"sort"
	"strings"
)

// RedactedValue is the canonical placeholder used for sensitive fields in logs.
const RedactedValue = "[REDACTED]"

// The allowlist names every log key that may pass through unmasked.
// Identifiers, phases, and routing outcomes are safe to log; anything
// value-bearing (bond amounts, vote power, nonces, commitment hashes)
// stays off this list and is masked.
var redactionAllowlist = map[string]struct{}{
	"service":   {},
	"env":       {},
	"message":   {},
	"severity":  {},
	"timestamp": {},
	"error":     {},
	"reason":    {},
	"component": {},

	"proposal_id":    {},
	"oracle_id":      {},
	"proposer":       {},
	"voter":          {},
	"layer":          {},
	"route":          {},
	"phase":          {},
	"from":           {},
	"to":             {},
	"choice":         {},
	"verdict":        {},
	"epoch":          {},
	"active_size":    {},
	"jury_size":      {},
	"ejected":        {},
	"passed":         {},
	"quorum_reached": {},
	"channel_a_pass": {},
	"discrepancy_at": {},
	"quorum":         {},
	"timelock":       {},
}

// IsAllowlisted reports whether the provided key is exempt from automatic redaction.
func IsAllowlisted(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	_, ok := redactionAllowlist[normalized]
	return ok
}

// RedactionAllowlist returns a sorted copy of the log keys that are allowed to be emitted
// without redaction. Tests use this to ensure sensitive keys remain masked.
func RedactionAllowlist() []string {
	keys := make([]string, 0, len(redactionAllowlist))
	for key := range redactionAllowlist {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MaskValue returns the canonical redacted placeholder for non-empty values. Empty values
// are returned unchanged to avoid introducing noise in logs.
func MaskValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	return RedactedValue
}

// MaskField returns a slog.Attr that redacts the supplied value unless the key is
// explicitly allowlisted. The original key casing is preserved for readability.
func MaskField(key, value string) slog.Attr {
	if strings.TrimSpace(value) == "" || IsAllowlisted(key) {
		return slog.String(key, value)
	}
	return slog.String(key, RedactedValue)
}
