package opacity

import (
	"context"
	"time"
)

// HandshakeMetrics carries observability data recorded only on a
// successful handshake.
type HandshakeMetrics struct {
	TunnelCreationMS int64
}

const (
	stateInit         = "INIT"
	stateKPReady      = "KP_READY"
	stateAwaitResp    = "AWAIT_RESP"
	stateSigParsed    = "SIG_PARSED"
	stateCurveOK      = "CURVE_OK"
	stateZReady       = "Z_READY"
	stateKeysDerived  = "KEYS_DERIVED"
	stateCryptogramOK = "CRYPTOGRAM_OK"
	stateDone         = "DONE"
)

// OpenTunnel drives the Opacity handshake state machine end to end: it
// generates an ephemeral keypair, exchanges one GENERAL AUTHENTICATE APDU
// with t, parses and validates the card's signed response, derives the
// session keys, and verifies the card's AuthCryptogram.
//
// On any failure the transceiver is closed, all sensitive intermediate
// material is zeroised, and a typed error from this package is returned.
// Either four session keys are returned with a nil error, or the zero
// value and a non-nil error — never both.
func OpenTunnel(ctx context.Context, t Transceiver, cfg HandshakeConfig) (SessionKeys, HandshakeMetrics, error) {
	if err := cfg.validate(); err != nil {
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, &PolicyError{CB: cfg.CBH}
	}
	obs := cfg.Observer
	start := time.Now()

	notifyState(obs, stateInit)
	kp, err := GenerateEphemeralKeyPair()
	if err != nil {
		notifyError(obs, stateInit, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}
	defer kp.Zeroise()
	notifyState(obs, stateKPReady)

	req, err := BuildGeneralAuthenticateRequest(cfg.CBH, cfg.HostID, kp.PublicKeySEC1())
	if err != nil {
		notifyError(obs, stateKPReady, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}

	resp, err := t.Transceive(ctx, "GENERAL AUTHENTICATE", req)
	if err != nil {
		terr := &TransportError{Op: "GENERAL AUTHENTICATE", Cause: err}
		notifyError(obs, stateAwaitResp, terr)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, terr
	}
	if !resp.Success() {
		terr := &TransportError{Op: "GENERAL AUTHENTICATE", SW: resp.SW}
		notifyError(obs, stateAwaitResp, terr)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, terr
	}
	notifyState(obs, stateAwaitResp)

	sig, err := ParseCardSignature(resp.Data)
	if err != nil {
		notifyError(obs, stateAwaitResp, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}
	notifyState(obs, stateSigParsed)

	if sig.CB != CBHNoBinding {
		perr := &PolicyError{CB: sig.CB}
		notifyError(obs, stateSigParsed, perr)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, perr
	}

	cardPub, err := CheckCardPublicKey(sig.PublicKey[:])
	if err != nil {
		notifyError(obs, stateSigParsed, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}
	notifyState(obs, stateCurveOK)

	z, err := ECDH(kp, cardPub)
	if err != nil {
		notifyError(obs, stateCurveOK, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}
	defer zeroiseBytes(z)
	notifyState(obs, stateZReady)

	otherInfo, err := BuildOtherInfo(OtherInfoInputs{
		IDH:       cfg.HostID,
		CBH:       cfg.CBH,
		HostPubX:  kp.PublicKeyXY()[:32],
		CardSigID: sig.ID[:],
		CardNonce: sig.Nonce[:],
		CardCB:    sig.CB,
	})
	if err != nil {
		notifyError(obs, stateZReady, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}

	block, err := KDF64(z, otherInfo)
	if err != nil {
		notifyError(obs, stateZReady, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}
	defer zeroiseBytes(block)

	keys, err := PartitionKeyBlock(block)
	if err != nil {
		notifyError(obs, stateZReady, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}
	notifyState(obs, stateKeysDerived)

	message := BuildCryptogramMessage(sig.ID[:], cfg.HostID, kp.PublicKeyXY())
	ok, err := CMACVerify(keys.CFRM[:], message, sig.Cryptogram[:])
	if err != nil {
		keys.Zeroise()
		notifyError(obs, stateKeysDerived, err)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, err
	}
	if !ok {
		keys.Zeroise()
		aerr := &AuthenticationError{}
		notifyError(obs, stateKeysDerived, aerr)
		_ = t.Close()
		return SessionKeys{}, HandshakeMetrics{}, aerr
	}
	notifyState(obs, stateCryptogramOK)

	if cfg.VerifyCVC != nil {
		if err := cfg.VerifyCVC(sig.CVC, sig.PublicKey[:]); err != nil {
			keys.Zeroise()
			notifyError(obs, stateCryptogramOK, err)
			_ = t.Close()
			return SessionKeys{}, HandshakeMetrics{}, err
		}
	}

	notifyState(obs, stateDone)
	metrics := HandshakeMetrics{TunnelCreationMS: time.Since(start).Milliseconds()}
	return keys, metrics, nil
}

// BuildCryptogramMessage assembles the exact message CMAC'd against cfrm:
// "KC_1_V"(6) || cardId(8) || IDH(8) || hostPubXY(64). hostPubXY here is
// the full 64-byte X||Y point, unlike OtherInfo's 16-byte truncated X.
func BuildCryptogramMessage(cardID []byte, idh [idLen]byte, hostPubXY []byte) []byte {
	return Concat(KCTag, cardID, idh[:], hostPubXY)
}

func zeroiseBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
