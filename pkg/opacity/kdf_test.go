package opacity

import "testing"

func fixedOtherInfoInputs() OtherInfoInputs {
	var idh [idLen]byte
	copy(idh[:], []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	hostX := make([]byte, 32)
	for i := range hostX {
		hostX[i] = byte(i)
	}
	cardSigID := []byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7}
	cardNonce := make([]byte, 16)
	for i := range cardNonce {
		cardNonce[i] = 0xB0 + byte(i)
	}
	return OtherInfoInputs{
		IDH:       idh,
		CBH:       CBHNoBinding,
		HostPubX:  hostX,
		CardSigID: cardSigID,
		CardNonce: cardNonce,
		CardCB:    CBHNoBinding,
	}
}

func TestBuildOtherInfo_Length(t *testing.T) {
	buf, err := BuildOtherInfo(fixedOtherInfoInputs())
	if err != nil {
		t.Fatalf("BuildOtherInfo() error = %v", err)
	}
	if len(buf) != 61 {
		t.Errorf("BuildOtherInfo() length = %d, want 61", len(buf))
	}
}

func TestBuildOtherInfo_UsesOnlyFirst16BytesOfX(t *testing.T) {
	in := fixedOtherInfoInputs()
	buf, err := BuildOtherInfo(in)
	if err != nil {
		t.Fatalf("BuildOtherInfo() error = %v", err)
	}

	// preamble(6) || IDH(8) || 01,CBH(2) || len,X16(17) ...
	xStart := 6 + idLen + 2 + 1
	got := buf[xStart : xStart+16]
	want := in.HostPubX[:16]
	if !bytesEqual(got, want) {
		t.Errorf("OtherInfo hostPubXY field = %x, want first 16 bytes of X = %x", got, want)
	}

	// Mutating bytes 16..32 of HostPubX must not change the encoded OtherInfo.
	in2 := fixedOtherInfoInputs()
	for i := 16; i < 32; i++ {
		in2.HostPubX[i] ^= 0xFF
	}
	buf2, err := BuildOtherInfo(in2)
	if err != nil {
		t.Fatalf("BuildOtherInfo() error = %v", err)
	}
	if !bytesEqual(buf, buf2) {
		t.Error("OtherInfo changed when only bytes 16..32 of the host X coordinate were mutated; only the first 16 bytes should matter")
	}
}

func TestBuildOtherInfo_RejectsShortInputs(t *testing.T) {
	in := fixedOtherInfoInputs()
	in.CardNonce = in.CardNonce[:10]
	if _, err := BuildOtherInfo(in); err == nil {
		t.Error("BuildOtherInfo() with short nonce should fail")
	}
}

func TestKDF64_Deterministic(t *testing.T) {
	z := make([]byte, 32)
	for i := range z {
		z[i] = byte(i)
	}
	otherInfo, err := BuildOtherInfo(fixedOtherInfoInputs())
	if err != nil {
		t.Fatalf("BuildOtherInfo() error = %v", err)
	}

	block1, err := KDF64(z, otherInfo)
	if err != nil {
		t.Fatalf("KDF64() error = %v", err)
	}
	block2, err := KDF64(z, otherInfo)
	if err != nil {
		t.Fatalf("KDF64() error = %v", err)
	}
	if len(block1) != 64 {
		t.Errorf("KDF64() length = %d, want 64", len(block1))
	}
	if !bytesEqual(block1, block2) {
		t.Error("KDF64() is not deterministic for identical inputs")
	}

	// S1 known answer, pinned from this implementation.
	const want = "6a5a53bed0e17ca5a33c6fd027848621cd147d2d7c5445104a7394c3182fb4c7" +
		"a7cde0dd7bc32635206ff9e94892b115f2d1a5b9edda1ba3446b41f5d6ce1ea8"
	if got := HexEncode(block1); got != want {
		t.Errorf("KDF64() = %s, want %s", got, want)
	}
}

func TestKDF64_SensitiveToOtherInfo(t *testing.T) {
	z := make([]byte, 32)
	in := fixedOtherInfoInputs()
	otherInfo, _ := BuildOtherInfo(in)
	block1, _ := KDF64(z, otherInfo)

	in.CardCB = 0x01
	otherInfo2, _ := BuildOtherInfo(in)
	block2, _ := KDF64(z, otherInfo2)

	if bytesEqual(block1, block2) {
		t.Error("KDF64() produced identical output for different OtherInfo")
	}
}

func TestPartitionKeyBlock_Order(t *testing.T) {
	block := make([]byte, 64)
	for i := range block {
		block[i] = byte(i)
	}
	keys, err := PartitionKeyBlock(block)
	if err != nil {
		t.Fatalf("PartitionKeyBlock() error = %v", err)
	}
	if keys.CFRM[0] != 0 || keys.MAC[0] != 16 || keys.ENC[0] != 32 || keys.RMAC[0] != 48 {
		t.Errorf("PartitionKeyBlock() wrong slice order: cfrm[0]=%d mac[0]=%d enc[0]=%d rmac[0]=%d",
			keys.CFRM[0], keys.MAC[0], keys.ENC[0], keys.RMAC[0])
	}
}

func TestPartitionKeyBlock_WrongLength(t *testing.T) {
	if _, err := PartitionKeyBlock(make([]byte, 63)); err == nil {
		t.Error("PartitionKeyBlock() with 63 bytes should fail")
	}
}
