package opacity

// Fixed protocol constants (NIST SP 800-73-4 Cipher Suite 2 / SP 800-56A).
var (
	// OIDECDHP256 is the algorithm OID the card must report in its signed
	// response: id-ecDH over curve P-256.
	OIDECDHP256 = []byte{0x2A, 0x86, 0x48, 0xCE, 0x3D, 0x03, 0x01, 0x07}

	// KCTag is the ASCII KeyConfirmation label "KC_1_V" prefixed to the
	// cryptogram message.
	KCTag = []byte("KC_1_V")

	// otherInfoPreamble is the AlgorithmID length-tagged header per
	// SP 800-56A §5.8.1.2.
	otherInfoPreamble = []byte{0x04, 0x09, 0x09, 0x09, 0x09, 0x08}
)

const (
	// CBHNoBinding is the host control byte signalling "no persistent
	// binding" — the only mode this core supports.
	CBHNoBinding byte = 0x00

	idLen       = 8
	nonceLen    = 16
	cryptoLen   = 16
	guidLen     = 16
	oidLen      = 8
	kdfKeyLen   = 16
	kdfBlockLen = 4 * kdfKeyLen // cfrm||mac||enc||rmac
)
