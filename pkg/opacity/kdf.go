package opacity

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// otherInfoHostXLen is the number of leading bytes of the host ephemeral
// public key's X coordinate folded into OtherInfo. This is NOT the full
// 32-byte X coordinate (let alone the 64-byte X||Y point used in the
// cryptogram message, see BuildCryptogramMessage) — it is a literal,
// deliberate carry-forward of a quirk in the reference implementation.
// See SPEC_FULL.md §4.4/§9 before reusing this constant against a real
// card transcript.
const otherInfoHostXLen = 16

// OtherInfoInputs carries every transcript value the KDF's context-binding
// string depends on. Every field is fixed-length; the struct exists so
// BuildOtherInfo can validate lengths in one place instead of at each call
// site.
type OtherInfoInputs struct {
	IDH       [idLen]byte
	CBH       byte
	HostPubX  []byte // full 32-byte X coordinate; only the first 16 bytes are used
	CardSigID []byte // 8 bytes
	CardNonce []byte // 16 bytes
	CardCB    byte
}

// BuildOtherInfo assembles the exact 61-byte OtherInfo buffer defined by
// SPEC_FULL.md §4.4: preamble(6) || IDH(8) || 01,CBH(2) || 10,X16(17) ||
// 08,cardSigId(9) || 10,cardNonce(17) || 01,cardCb(2).
func BuildOtherInfo(in OtherInfoInputs) ([]byte, error) {
	if len(in.HostPubX) < otherInfoHostXLen {
		return nil, fmt.Errorf("opacity: host public X too short for OtherInfo, len=%d", len(in.HostPubX))
	}
	if len(in.CardSigID) != idLen {
		return nil, fmt.Errorf("opacity: card signer id must be %d bytes, got %d", idLen, len(in.CardSigID))
	}
	if len(in.CardNonce) != nonceLen {
		return nil, fmt.Errorf("opacity: card nonce must be %d bytes, got %d", nonceLen, len(in.CardNonce))
	}

	buf := Concat(
		otherInfoPreamble,
		in.IDH[:],
		[]byte{0x01, in.CBH},
		append([]byte{byte(otherInfoHostXLen)}, in.HostPubX[:otherInfoHostXLen]...),
		append([]byte{byte(idLen)}, in.CardSigID...),
		append([]byte{byte(nonceLen)}, in.CardNonce...),
		[]byte{0x01, in.CardCB},
	)
	const wantLen = 61
	if len(buf) != wantLen {
		return nil, fmt.Errorf("opacity: OtherInfo assembled to %d bytes, want %d", len(buf), wantLen)
	}
	return buf, nil
}

// KDF64 runs the NIST SP 800-56A §5.8.1 single-step KDF with SHA-256,
// producing exactly 64 bytes (keydatalen=512 bits) from shared secret z
// and context string otherInfo.
func KDF64(z, otherInfo []byte) ([]byte, error) {
	const keydatalenBytes = 64
	const hLen = sha256.Size

	rounds := (keydatalenBytes + hLen - 1) / hLen
	out := make([]byte, 0, rounds*hLen)
	for counter := uint32(1); counter <= uint32(rounds); counter++ {
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], counter)
		h := sha256.New()
		h.Write(ctr[:])
		h.Write(z)
		h.Write(otherInfo)
		out = append(out, h.Sum(nil)...)
	}
	return out[:keydatalenBytes], nil
}

// PartitionKeyBlock splits a 64-byte KDF output into the four fixed-order
// 16-byte session keys.
func PartitionKeyBlock(block []byte) (SessionKeys, error) {
	if len(block) != kdfBlockLen {
		return SessionKeys{}, fmt.Errorf("opacity: key block must be %d bytes, got %d", kdfBlockLen, len(block))
	}
	var keys SessionKeys
	copy(keys.CFRM[:], block[0:16])
	copy(keys.MAC[:], block[16:32])
	copy(keys.ENC[:], block[32:48])
	copy(keys.RMAC[:], block[48:64])
	return keys, nil
}
