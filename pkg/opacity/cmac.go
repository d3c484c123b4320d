package opacity

import (
	"crypto/aes"
	"crypto/subtle"
	"fmt"
)

const cmacBlockLen = 16

// CMACCompute computes a one-shot AES-128 CMAC (NIST SP 800-38B) over msg
// using key. key must be exactly 16 bytes; msg may be any length, including
// zero.
func CMACCompute(key, msg []byte) ([]byte, error) {
	if len(key) != cmacBlockLen {
		return nil, fmt.Errorf("opacity: CMAC key must be 16 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	k1, k2 := cmacSubkeys(block)

	n := (len(msg) + cmacBlockLen - 1) / cmacBlockLen
	if n == 0 {
		n = 1
	}
	lastComplete := len(msg) != 0 && len(msg)%cmacBlockLen == 0

	last := make([]byte, cmacBlockLen)
	if lastComplete {
		copy(last, msg[(n-1)*cmacBlockLen:])
		cmacXor(last, last, k1)
	} else {
		remain := len(msg) - (n-1)*cmacBlockLen
		if remain > 0 {
			copy(last, msg[(n-1)*cmacBlockLen:])
		}
		last[remain] = 0x80
		cmacXor(last, last, k2)
	}

	x := make([]byte, cmacBlockLen)
	y := make([]byte, cmacBlockLen)
	for i := 0; i < n-1; i++ {
		start := i * cmacBlockLen
		cmacXor(y, x, msg[start:start+cmacBlockLen])
		block.Encrypt(x, y)
	}
	cmacXor(y, x, last)
	block.Encrypt(x, y)
	return x, nil
}

// CMACVerify recomputes the CMAC over msg and compares it to expected in
// constant time.
func CMACVerify(key, msg, expected []byte) (bool, error) {
	tag, err := CMACCompute(key, msg)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(tag, expected) == 1, nil
}

func cmacSubkeys(block cipherBlock) (k1, k2 []byte) {
	const rb = 0x87
	zero := make([]byte, cmacBlockLen)
	l := make([]byte, cmacBlockLen)
	block.Encrypt(l, zero)

	k1 = make([]byte, cmacBlockLen)
	cmacLeftShift1(k1, l)
	if (l[0] & 0x80) != 0 {
		k1[cmacBlockLen-1] ^= rb
	}

	k2 = make([]byte, cmacBlockLen)
	cmacLeftShift1(k2, k1)
	if (k1[0] & 0x80) != 0 {
		k2[cmacBlockLen-1] ^= rb
	}
	return k1, k2
}

type cipherBlock interface {
	Encrypt(dst, src []byte)
}

func cmacLeftShift1(dst, src []byte) {
	var carry byte
	for i := len(src) - 1; i >= 0; i-- {
		b := src[i]
		dst[i] = (b << 1) | carry
		carry = (b >> 7) & 1
	}
}

func cmacXor(dst, a, b []byte) {
	for i := 0; i < len(a) && i < len(b); i++ {
		dst[i] = a[i] ^ b[i]
	}
}
