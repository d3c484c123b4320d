package opacity

import "testing"

func TestCMACCompute_Deterministic(t *testing.T) {
	key, _ := HexDecode("2b7e151628aed2a6abf7158809cf4f3c")
	msg, _ := HexDecode("6bc1bee22e409f96e93d7e117393172a")

	tag1, err := CMACCompute(key, msg)
	if err != nil {
		t.Fatalf("CMACCompute() error = %v", err)
	}
	tag2, err := CMACCompute(key, msg)
	if err != nil {
		t.Fatalf("CMACCompute() error = %v", err)
	}
	if !bytesEqual(tag1, tag2) {
		t.Errorf("CMACCompute() not deterministic: %x != %x", tag1, tag2)
	}
	if len(tag1) != cmacBlockLen {
		t.Errorf("CMACCompute() tag length = %d, want %d", len(tag1), cmacBlockLen)
	}

	// Published AES-128 CMAC example vector for this key and one-block message.
	if got, want := HexEncode(tag1), "070a16b46b4d4144f79bdd9dd04a287c"; got != want {
		t.Errorf("CMACCompute() = %s, want %s", got, want)
	}
}

func TestCMACCompute_EmptyMessage(t *testing.T) {
	key, _ := HexDecode("2b7e151628aed2a6abf7158809cf4f3c")

	tag, err := CMACCompute(key, nil)
	if err != nil {
		t.Fatalf("CMACCompute(nil) error = %v", err)
	}
	if len(tag) != cmacBlockLen {
		t.Errorf("CMACCompute(nil) tag length = %d, want %d", len(tag), cmacBlockLen)
	}

	var zero [cmacBlockLen]byte
	if bytesEqual(tag, zero[:]) {
		t.Error("CMACCompute(nil) produced an all-zero tag")
	}
}

func TestCMACCompute_NonBlockAligned(t *testing.T) {
	key, _ := HexDecode("2b7e151628aed2a6abf7158809cf4f3c")
	msg, _ := HexDecode("6bc1bee22e409f96e93d7e117393172aae2d8a57")
	if len(msg)%cmacBlockLen == 0 {
		t.Fatalf("test fixture must be non-block-aligned, got len=%d", len(msg))
	}

	tag, err := CMACCompute(key, msg)
	if err != nil {
		t.Fatalf("CMACCompute() error = %v", err)
	}
	if len(tag) != cmacBlockLen {
		t.Errorf("CMACCompute() tag length = %d, want %d", len(tag), cmacBlockLen)
	}

	blockAligned, _ := HexDecode("6bc1bee22e409f96e93d7e117393172a")
	tagAligned, err := CMACCompute(key, blockAligned)
	if err != nil {
		t.Fatalf("CMACCompute() error = %v", err)
	}
	if bytesEqual(tag, tagAligned) {
		t.Error("padded and block-aligned messages of different content produced the same tag")
	}
}

func TestCMACVerify_RoundTrip(t *testing.T) {
	key, _ := HexDecode("00112233445566778899aabbccddeeff")
	msg := []byte("opacity cryptogram test message")

	tag, err := CMACCompute(key, msg)
	if err != nil {
		t.Fatalf("CMACCompute() error = %v", err)
	}

	ok, err := CMACVerify(key, msg, tag)
	if err != nil {
		t.Fatalf("CMACVerify() error = %v", err)
	}
	if !ok {
		t.Error("CMACVerify() = false, want true for matching tag")
	}
}

func TestCMACVerify_Tampered(t *testing.T) {
	key, _ := HexDecode("00112233445566778899aabbccddeeff")
	msg := []byte("opacity cryptogram test message")

	tag, err := CMACCompute(key, msg)
	if err != nil {
		t.Fatalf("CMACCompute() error = %v", err)
	}
	tag[0] ^= 0xFF

	ok, err := CMACVerify(key, msg, tag)
	if err != nil {
		t.Fatalf("CMACVerify() error = %v", err)
	}
	if ok {
		t.Error("CMACVerify() = true, want false for tampered tag")
	}
}

func TestCMACVerify_TamperedAnyByte(t *testing.T) {
	// Constant-time verify must catch a mismatch regardless of which byte
	// differs, not just the first.
	key, _ := HexDecode("00112233445566778899aabbccddeeff")
	msg := []byte("opacity cryptogram test message")
	tag, err := CMACCompute(key, msg)
	if err != nil {
		t.Fatalf("CMACCompute() error = %v", err)
	}

	for i := range tag {
		mutated := append([]byte(nil), tag...)
		mutated[i] ^= 0x01
		ok, err := CMACVerify(key, msg, mutated)
		if err != nil {
			t.Fatalf("CMACVerify() error = %v", err)
		}
		if ok {
			t.Errorf("CMACVerify() accepted a tag mutated at byte %d", i)
		}
	}
}

func TestCMACCompute_WrongKeyLength(t *testing.T) {
	_, err := CMACCompute(make([]byte, 10), []byte("x"))
	if err == nil {
		t.Error("CMACCompute() with short key should fail")
	}
}
