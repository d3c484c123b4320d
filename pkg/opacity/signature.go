package opacity

import "fmt"

// outerTemplateTag is the Dynamic Authentication Template wrapping every
// GENERAL AUTHENTICATE response this core consumes.
const outerTemplateTag = 0x7C

const (
	tagNonce      byte = 0x81
	tagCryptogram byte = 0x82
	tagCardInfo   byte = 0x83
)

// CardSignature is the decoded content of a card's GENERAL AUTHENTICATE
// response: its nonce, AuthCryptogram, and the signed identity block that
// nests cb/id/issuerId/guid/algorithmOID/publicKey/cvc.
type CardSignature struct {
	Nonce      [nonceLen]byte
	Cryptogram [cryptoLen]byte
	CB         byte
	ID         [idLen]byte
	IssuerID   [idLen]byte
	GUID       [guidLen]byte
	AlgOID     [oidLen]byte
	PublicKey  [sec1UncompressedLen]byte
	CVC        []byte
}

// ParseCardSignature decodes raw, the R-APDU body of a GENERAL AUTHENTICATE
// response, tag-dispatching fields rather than assuming a fixed byte offset
// — the reference reads by offset, which breaks on field reordering; this
// core dispatches by tag per field and by fixed offset only within the
// nested 0x83 block, where the PIV profile defines no sub-tags.
func ParseCardSignature(raw []byte) (*CardSignature, error) {
	tmpl, err := DecodeOuterTemplate(raw, outerTemplateTag)
	if err != nil {
		return nil, err
	}
	fields, err := DecodeTLVSequence(tmpl)
	if err != nil {
		return nil, err
	}

	sig := &CardSignature{}
	var haveNonce, haveCryptogram, haveInfo bool
	for _, f := range fields {
		switch f.Tag {
		case tagNonce:
			if len(f.Value) != nonceLen {
				return nil, &ParseError{Field: "nonce", Cause: fmt.Errorf("want %d bytes, got %d", nonceLen, len(f.Value))}
			}
			copy(sig.Nonce[:], f.Value)
			haveNonce = true
		case tagCryptogram:
			if len(f.Value) != cryptoLen {
				return nil, &ParseError{Field: "cryptogram", Cause: fmt.Errorf("want %d bytes, got %d", cryptoLen, len(f.Value))}
			}
			copy(sig.Cryptogram[:], f.Value)
			haveCryptogram = true
		case tagCardInfo:
			if err := parseCardInfoBlock(sig, f.Value); err != nil {
				return nil, err
			}
			haveInfo = true
		}
	}

	if !haveNonce {
		return nil, &ParseError{Field: "nonce", Cause: fmt.Errorf("tag 0x%02X absent", tagNonce)}
	}
	if !haveCryptogram {
		return nil, &ParseError{Field: "cryptogram", Cause: fmt.Errorf("tag 0x%02X absent", tagCryptogram)}
	}
	if !haveInfo {
		return nil, &ParseError{Field: "card info block", Cause: fmt.Errorf("tag 0x%02X absent", tagCardInfo)}
	}
	return sig, nil
}

// parseCardInfoBlock decodes the fixed-offset layout nested under tag 0x83:
// cb(1) || id(8) || issuerId(8) || guid(16) || algorithmOID(8) || publicKey(65) || cvc(rest).
// The PIV profile defines no sub-tags here, so offset parsing is the only
// option within this block; everything above it is tag-dispatched.
func parseCardInfoBlock(sig *CardSignature, v []byte) error {
	const fixedLen = 1 + idLen + idLen + guidLen + oidLen + sec1UncompressedLen
	if len(v) < fixedLen {
		return &ParseError{Field: "card info block", Cause: fmt.Errorf("need at least %d bytes, got %d", fixedLen, len(v))}
	}

	off := 0
	sig.CB = v[off]
	off++
	copy(sig.ID[:], v[off:off+idLen])
	off += idLen
	copy(sig.IssuerID[:], v[off:off+idLen])
	off += idLen
	copy(sig.GUID[:], v[off:off+guidLen])
	off += guidLen
	copy(sig.AlgOID[:], v[off:off+oidLen])
	off += oidLen

	if v[off] != 0x04 {
		return &ParseError{Field: "publicKey", Cause: fmt.Errorf("expected uncompressed SEC1 prefix 0x04, got 0x%02X", v[off])}
	}
	copy(sig.PublicKey[:], v[off:off+sec1UncompressedLen])
	off += sec1UncompressedLen

	if !bytesEqual(sig.AlgOID[:], OIDECDHP256) {
		return &ParseError{Field: "algorithmOID", Cause: fmt.Errorf("got %x, want %x", sig.AlgOID[:], OIDECDHP256)}
	}

	sig.CVC = append([]byte(nil), v[off:]...)
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
