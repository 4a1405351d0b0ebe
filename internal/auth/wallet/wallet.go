// Package wallet recovers Ethereum addresses from personal_sign signatures.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// ErrInvalidSignature covers every signature that cannot yield an address.
var ErrInvalidSignature = errors.New("invalid signature")

const signatureLength = 65

// HashMessage returns the EIP-191 personal_sign digest of message.
func HashMessage(message string) []byte {
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message))
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(prefix))
	h.Write([]byte(message))
	return h.Sum(nil)
}

// Recover returns the checksum-free, lower-case 0x address that signed message.
// The signature is r||s||v as hex with an optional 0x prefix; v may be 27/28
// or 0/1.
func Recover(message, signature string) (string, error) {
	raw, err := decodeHex(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(raw) != signatureLength {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, signatureLength, len(raw))
	}

	v := raw[64]
	switch v {
	case 0, 1:
		v += 27
	case 27, 28:
	default:
		return "", fmt.Errorf("%w: bad recovery id %d", ErrInvalidSignature, raw[64])
	}

	compact := make([]byte, signatureLength)
	compact[0] = v
	copy(compact[1:], raw[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, HashMessage(message))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return PublicKeyToAddress(pub), nil
}

// PublicKeyToAddress derives the lower-case 0x address of pub.
func PublicKeyToAddress(pub *secp256k1.PublicKey) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub.SerializeUncompressed()[1:])
	return "0x" + hex.EncodeToString(h.Sum(nil)[12:])
}

// SignMessage produces a personal_sign signature (hex, 0x-prefixed, v=27/28).
func SignMessage(key *secp256k1.PrivateKey, message string) string {
	compact := ecdsa.SignCompact(key, HashMessage(message), false)
	sig := make([]byte, signatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return "0x" + hex.EncodeToString(sig)
}

// EqualAddress compares two addresses ignoring case and the 0x prefix.
func EqualAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b) && NormalizeAddress(a) != ""
}

// NormalizeAddress lower-cases an address and ensures the 0x prefix. It
// returns "" for anything that is not 20 bytes of hex.
func NormalizeAddress(addr string) string {
	raw, err := decodeHex(strings.TrimSpace(addr))
	if err != nil || len(raw) != 20 {
		return ""
	}
	return "0x" + hex.EncodeToString(raw)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, errors.New("empty hex")
	}
	return hex.DecodeString(s)
}
