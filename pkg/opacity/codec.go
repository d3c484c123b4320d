package opacity

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	casn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// HexDecode decodes a hex string, rejecting odd-length or non-hex input.
func HexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("opacity: invalid hex %q: %w", s, err)
	}
	return b, nil
}

// HexEncode lower-case hex-encodes b.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// Concat returns a freshly allocated concatenation of parts, in order.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// TLVField is one decoded BER-TLV entry: a one-byte tag and its value,
// length stripped.
type TLVField struct {
	Tag   byte
	Value []byte
}

// DecodeOuterTemplate asserts that data is a single BER-TLV object tagged
// tag, supporting 1- and 2-byte BER length forms, and returns its value.
func DecodeOuterTemplate(data []byte, tag byte) ([]byte, error) {
	s := cryptobyte.String(data)
	var value cryptobyte.String
	if !s.ReadASN1(&value, casn1.Tag(tag)) {
		return nil, &ParseError{Field: fmt.Sprintf("outer template 0x%02X", tag)}
	}
	if len(s) != 0 {
		return nil, &ParseError{Field: fmt.Sprintf("outer template 0x%02X", tag), Cause: fmt.Errorf("%d trailing bytes", len(s))}
	}
	return []byte(value), nil
}

// DecodeTLVSequence decodes a flat concatenation of BER-TLV objects,
// preserving the order they appear in. It does not canonicalise or dedupe
// repeated tags — the caller dispatches on Tag as it sees fit.
func DecodeTLVSequence(data []byte) ([]TLVField, error) {
	s := cryptobyte.String(data)
	var fields []TLVField
	for !s.Empty() {
		var value cryptobyte.String
		var tag casn1.Tag
		if !s.ReadAnyASN1(&value, &tag) {
			return nil, &ParseError{Field: "TLV sequence", Cause: fmt.Errorf("malformed tag/length at offset %d", len(data)-len(s))}
		}
		fields = append(fields, TLVField{Tag: byte(tag), Value: []byte(value)})
	}
	return fields, nil
}
