package verify

import "regexp"

// paradoxPatterns is the pinned liar's-paradox and self-reference pattern
// set. They run under Go's regexp package, which is RE2-based and therefore
// immune to catastrophic-backtracking denial-of-service on adversarial
// input text.
var paradoxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(this proposal|the motion).*(passes|fails)\s*iff.*(fails|passes)`),
	regexp.MustCompile(`(?i)(this (rule|statement|proposal)|the following statement)\s*is\s*false`),
	regexp.MustCompile(`(?i)if\s+this.*(true|passes).*then.*(false|fails)`),
}

// ParadoxFound reports whether any pinned pattern matches the normalized
// text substring of the canonical payload.
func ParadoxFound(normalizedText []byte) bool {
	for _, pattern := range paradoxPatterns {
		if pattern.Match(normalizedText) {
			return true
		}
	}
	return false
}
