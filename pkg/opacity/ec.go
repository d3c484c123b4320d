package opacity

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
)

const (
	fieldElementLen     = 32
	sec1UncompressedLen = 1 + 2*fieldElementLen
)

// EphemeralKeyPair is the host's one-shot P-256 keypair for a single
// handshake. The private key is held only for the ECDH step and must be
// zeroised via Zeroise on every exit path.
type EphemeralKeyPair struct {
	priv *ecdh.PrivateKey
	x, y [fieldElementLen]byte
}

// GenerateEphemeralKeyPair creates a fresh P-256 keypair using crypto/rand.
func GenerateEphemeralKeyPair() (*EphemeralKeyPair, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, &CryptoInitError{Op: "generate ephemeral keypair", Cause: err}
	}
	pub := priv.PublicKey().Bytes()
	if len(pub) != sec1UncompressedLen || pub[0] != 0x04 {
		return nil, &CryptoInitError{Op: "generate ephemeral keypair", Cause: fmt.Errorf("unexpected public key encoding, len=%d", len(pub))}
	}
	kp := &EphemeralKeyPair{priv: priv}
	copy(kp.x[:], pub[1:1+fieldElementLen])
	copy(kp.y[:], pub[1+fieldElementLen:])
	return kp, nil
}

// PublicKeyXY returns the 64-byte X||Y encoding, without the 0x04 prefix.
func (kp *EphemeralKeyPair) PublicKeyXY() []byte {
	return Concat(kp.x[:], kp.y[:])
}

// PublicKeySEC1 returns the 65-byte 04||X||Y uncompressed encoding.
func (kp *EphemeralKeyPair) PublicKeySEC1() []byte {
	return Concat([]byte{0x04}, kp.x[:], kp.y[:])
}

// Zeroise overwrites the cached public coordinates and drops the reference
// to the private key; the private scalar's own bytes are not overwritten.
// It is safe to call more than once and on a partially-initialised value.
func (kp *EphemeralKeyPair) Zeroise() {
	if kp == nil {
		return
	}
	for i := range kp.x {
		kp.x[i] = 0
		kp.y[i] = 0
	}
	// crypto/ecdh.PrivateKey does not expose its scalar for in-place
	// wiping; dropping the reference lets GC reclaim it. The field
	// elements above are the only bytes this package can zero directly.
	kp.priv = nil
}

// CheckCardPublicKey validates a SEC1-uncompressed card public key: on
// curve P-256, not the identity, correct encoding length and prefix. A
// failed decode IS the on-curve/order check — crypto/ecdh performs it as
// part of NewPublicKey. This check is always fatal; there is no swallowed
// warning path.
func CheckCardPublicKey(sec1 []byte) (*ecdh.PublicKey, error) {
	if len(sec1) != sec1UncompressedLen || sec1[0] != 0x04 {
		return nil, &KeyValidationError{Cause: fmt.Errorf("not a 65-byte uncompressed point, len=%d", len(sec1))}
	}
	pub, err := ecdh.P256().NewPublicKey(sec1)
	if err != nil {
		return nil, &KeyValidationError{Cause: err}
	}
	return pub, nil
}

// ECDH computes Z = X-coordinate(priv . cardPub) as a 32-byte big-endian
// field element, leading-zero padded. Fails if the resulting point is the
// identity (crypto/ecdh.ECDH returns an error in that case).
func ECDH(kp *EphemeralKeyPair, cardPub *ecdh.PublicKey) ([]byte, error) {
	if kp == nil || kp.priv == nil {
		return nil, &EcdhError{Cause: fmt.Errorf("ephemeral private key already zeroised")}
	}
	z, err := kp.priv.ECDH(cardPub)
	if err != nil {
		return nil, &EcdhError{Cause: err}
	}
	if len(z) != fieldElementLen {
		return nil, &EcdhError{Cause: fmt.Errorf("unexpected shared secret length %d", len(z))}
	}
	return z, nil
}
