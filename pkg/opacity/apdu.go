package opacity

// tagDynAuthTemplate and tagDynAuthData are the two inner tags inside the
// 0x7C GENERAL AUTHENTICATE request template this core sends.
const (
	tagDynAuthTemplate byte = 0x80
	tagDynAuthData     byte = 0x81
)

// BuildGeneralAuthenticateRequest encodes the GENERAL AUTHENTICATE request
// body: a 0x7C template containing an empty 0x80 challenge marker and a
// 0x81 field holding CBH || IDH || hostPub(65), per SP 800-73-4 §4.1.4.
func BuildGeneralAuthenticateRequest(cbh byte, idh [idLen]byte, hostPubSEC1 []byte) ([]byte, error) {
	if len(hostPubSEC1) != sec1UncompressedLen {
		return nil, &ParseError{Field: "hostPub", Cause: nil}
	}

	inner := Concat([]byte{cbh}, idh[:], hostPubSEC1)
	tag81 := encodeTLV(tagDynAuthData, inner)
	tag80 := encodeTLV(tagDynAuthTemplate, nil)
	body := Concat(tag80, tag81)
	return encodeTLV(outerTemplateTag, body), nil
}

// encodeTLV BER-encodes a single tag/value pair using the short length form
// or the long form with one or two length bytes, matching the forms
// DecodeOuterTemplate/DecodeTLVSequence accept.
func encodeTLV(tag byte, value []byte) []byte {
	n := len(value)
	switch {
	case n < 0x80:
		return Concat([]byte{tag, byte(n)}, value)
	case n <= 0xFF:
		return Concat([]byte{tag, 0x81, byte(n)}, value)
	default:
		return Concat([]byte{tag, 0x82, byte(n >> 8), byte(n)}, value)
	}
}
