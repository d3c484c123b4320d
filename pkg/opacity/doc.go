/*
Package opacity implements the host side of the Opacity secure-tunnel
handshake defined by NIST SP 800-73-4 Cipher Suite 2: a one-sided
authenticated key-agreement between a host application and a PIV smart
card, yielding four symmetric session keys (CFRM, MAC, ENC, RMAC) for a
downstream Secure Messaging channel.

The handshake combines ephemeral-static ECDH over curve P-256, the NIST
SP 800-56A §5.8.1 single-step KDF with SHA-256, and a CMAC-AES-128
cryptogram check against the card's signed response.

# State machine

	INIT ── generate ephemeral kp ──▶ KP_READY
	KP_READY ── transceive GA(CBH,IDH,hostPub) ──▶ AWAIT_RESP
	AWAIT_RESP ── parse CardSignature ──▶ SIG_PARSED
	SIG_PARSED ── if cb != 0 ──▶ rejected, fatal
	SIG_PARSED ── checkKey(cardPub) ──▶ CURVE_OK
	CURVE_OK ── ECDH(priv, cardPub) = Z ──▶ Z_READY
	Z_READY ── KDF(Z, OtherInfo) ──▶ KEYS_DERIVED
	KEYS_DERIVED ── CMAC(cfrm, message) ──▶ CRYPTOGRAM_OK
	CRYPTOGRAM_OK ── return keys ──▶ DONE

Every transition is strictly serial; OpenTunnel is synchronous and holds
no state across calls. Any failure closes the Transceiver, zeroises the
shared secret and any derived key material, drops the ephemeral private
key (crypto/ecdh gives no way to overwrite the scalar in place), and
returns one of the typed errors in errors.go. Either four session keys come back
with a nil error, or nothing does.

# OtherInfo versus the cryptogram message

Two different encodings of the host's ephemeral public key appear in this
handshake and must not be confused:

  - The KDF's OtherInfo context string folds in only the first 16 bytes
    of the host public key's X coordinate (BuildOtherInfo) — a literal
    carry-forward of the reference implementation's behaviour, not a
    simplification. See SPEC_FULL.md §4.4/§9.
  - The AuthCryptogram message folds in the full 64-byte X||Y point with
    no 0x04 prefix (BuildCryptogramMessage).

# Transport

The byte-level card transport is an external collaborator (Transceiver);
this package never dials a reader itself. See pkg/pcsc for a PC/SC-backed
implementation.

# Observability

Logging is an injected Observer rather than calls interleaved with the
cryptography: the core emits named state transitions, and callers decide
how (or whether) to render them. No private scalar or session key is
ever passed to an Observer method.
*/
package opacity
