package opacity

import "testing"

func TestGenerateEphemeralKeyPair_Unique(t *testing.T) {
	kp1, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() error = %v", err)
	}
	defer kp1.Zeroise()

	kp2, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() error = %v", err)
	}
	defer kp2.Zeroise()

	if bytesEqual(kp1.PublicKeyXY(), kp2.PublicKeyXY()) {
		t.Error("two generated ephemeral public keys are identical")
	}
}

func TestEphemeralKeyPair_PublicKeyEncodings(t *testing.T) {
	kp, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() error = %v", err)
	}
	defer kp.Zeroise()

	xy := kp.PublicKeyXY()
	if len(xy) != 64 {
		t.Errorf("PublicKeyXY() length = %d, want 64", len(xy))
	}
	sec1 := kp.PublicKeySEC1()
	if len(sec1) != 65 || sec1[0] != 0x04 {
		t.Errorf("PublicKeySEC1() = %d bytes, prefix=%#02x, want 65 bytes prefixed 0x04", len(sec1), sec1[0])
	}
	if !bytesEqual(sec1[1:], xy) {
		t.Error("PublicKeySEC1() body does not match PublicKeyXY()")
	}
}

func TestEphemeralKeyPair_Zeroise(t *testing.T) {
	kp, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() error = %v", err)
	}
	kp.Zeroise()

	var zero [fieldElementLen]byte
	if !bytesEqual(kp.x[:], zero[:]) || !bytesEqual(kp.y[:], zero[:]) {
		t.Error("Zeroise() left non-zero bytes in the cached public coordinates")
	}

	cardKP, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() error = %v", err)
	}
	cardPub, err := CheckCardPublicKey(cardKP.PublicKeySEC1())
	if err != nil {
		t.Fatalf("CheckCardPublicKey() error = %v", err)
	}
	if _, err := ECDH(kp, cardPub); err == nil {
		t.Error("ECDH() with a zeroised keypair should fail")
	}
}

func TestCheckCardPublicKey_RejectsWrongLength(t *testing.T) {
	if _, err := CheckCardPublicKey(make([]byte, 64)); err == nil {
		t.Error("CheckCardPublicKey() with 64 bytes should fail")
	}
}

func TestCheckCardPublicKey_RejectsWrongPrefix(t *testing.T) {
	buf := make([]byte, sec1UncompressedLen)
	buf[0] = 0x02
	if _, err := CheckCardPublicKey(buf); err == nil {
		t.Error("CheckCardPublicKey() with compressed-point prefix should fail")
	}
}

func TestCheckCardPublicKey_RejectsOffCurve(t *testing.T) {
	buf := make([]byte, sec1UncompressedLen)
	buf[0] = 0x04
	for i := 1; i < len(buf); i++ {
		buf[i] = byte(i)
	}
	if _, err := CheckCardPublicKey(buf); err == nil {
		t.Error("CheckCardPublicKey() with an arbitrary non-curve point should fail")
	}
}

func TestECDH_Agreement(t *testing.T) {
	host, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() host error = %v", err)
	}
	defer host.Zeroise()

	cardKP, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() card error = %v", err)
	}
	defer cardKP.Zeroise()

	cardPub, err := CheckCardPublicKey(cardKP.PublicKeySEC1())
	if err != nil {
		t.Fatalf("CheckCardPublicKey() error = %v", err)
	}

	z, err := ECDH(host, cardPub)
	if err != nil {
		t.Fatalf("ECDH() error = %v", err)
	}
	if len(z) != fieldElementLen {
		t.Errorf("ECDH() length = %d, want %d", len(z), fieldElementLen)
	}

	var zero [fieldElementLen]byte
	if bytesEqual(z, zero[:]) {
		t.Error("ECDH() produced an all-zero shared secret")
	}
}
