// Package canon implements the byte-exact canonicalization contract that
// underlies proposal identifiers, the Channel A verification pipeline, and
// fraud proofs. Its output must be reproducible byte-for-byte across
// conforming implementations.
package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// ErrMalformedAST is returned when logic_ast fails to parse as JSON or
// contains a value outside the JSON data model (e.g. NaN/Infinity).
var ErrMalformedAST = errors.New("canon: malformed logic_ast")

// Payload is the byte-exact canonical reduction of a proposal, together with
// its SHA-256 identifier.
type Payload struct {
	Bytes []byte
	Hash  [32]byte
}

// HashHex renders the payload hash as lowercase hex, the form used as the
// proposal identifier.
func (p Payload) HashHex() string { return hex.EncodeToString(p.Hash[:]) }

var collapseWhitespace = regexp.MustCompile(`\s+`)

// Canonicalize produces the canonical payload for a proposal's logic_ast and
// text. proposer and layer are accepted for interface symmetry with the
// specification's contract but do not currently participate in the
// canonical byte stream (the identifier is a pure function of the
// machine-readable logic and its natural-language description).
func Canonicalize(proposer string, logicAST string, text string, layer string) (Payload, error) {
	_ = proposer
	_ = layer

	canonicalJSON, err := CanonicalJSON(logicAST)
	if err != nil {
		return Payload{}, err
	}

	normalizedText := NormalizeText(text)

	bytes := make([]byte, 0, len(canonicalJSON)+1+len(normalizedText))
	bytes = append(bytes, canonicalJSON...)
	bytes = append(bytes, '.')
	bytes = append(bytes, normalizedText...)

	hash := sha256.Sum256(bytes)
	return Payload{Bytes: bytes, Hash: hash}, nil
}

// CanonicalJSON parses the supplied JSON document and re-serializes it with
// recursively sorted object keys, shortest round-trip numeric formatting,
// and escape-minimal strings. Arrays retain their original element order.
func CanonicalJSON(rawJSON string) ([]byte, error) {
	dec := json.NewDecoder(strings.NewReader(rawJSON))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAST, err)
	}
	// Reject trailing garbage after the first JSON value.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedAST)
	}
	if err := validateJSONValue(value); err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := encodeCanonical(&buf, value); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// validateJSONValue rejects values the JSON data model cannot express, such
// as json.Number strings encoding NaN/Infinity produced by permissive
// upstream parsers.
func validateJSONValue(v interface{}) error {
	switch typed := v.(type) {
	case json.Number:
		s := typed.String()
		if strings.EqualFold(s, "nan") || strings.Contains(strings.ToLower(s), "inf") {
			return fmt.Errorf("%w: non-finite number %q", ErrMalformedAST, s)
		}
	case map[string]interface{}:
		for _, child := range typed {
			if err := validateJSONValue(child); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, child := range typed {
			if err := validateJSONValue(child); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeCanonical(buf *strings.Builder, v interface{}) error {
	switch typed := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if typed {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case json.Number:
		buf.WriteString(typed.String())
		return nil
	case string:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedAST, err)
		}
		buf.Write(encoded)
		return nil
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range typed {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return codepointLess(keys[i], keys[j])
		})
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyBytes, err := json.Marshal(k)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedAST, err)
			}
			buf.Write(keyBytes)
			buf.WriteByte(':')
			if err := encodeCanonical(buf, typed[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("%w: unsupported value type %T", ErrMalformedAST, v)
	}
}

// codepointLess orders strings by Unicode code point. Plain Go string
// comparison already does this for UTF-8 encoded strings.
func codepointLess(a, b string) bool { return a < b }

// NormalizeText lowercases via Unicode simple case-fold, strips
// non-word/non-space characters, collapses whitespace runs to a single
// U+0020, and trims the result.
func NormalizeText(text string) string {
	lowered := strings.Map(unicode.ToLower, text)

	var filtered strings.Builder
	filtered.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) || isWordChar(r) {
			filtered.WriteRune(r)
		}
	}

	collapsed := collapseWhitespace.ReplaceAllString(filtered.String(), " ")
	return strings.TrimSpace(collapsed)
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
