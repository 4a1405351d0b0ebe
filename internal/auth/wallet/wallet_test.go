package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development key (first Hardhat/Anvil account).
const (
	devKeyHex  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devAddress = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
)

func devKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	raw, err := hex.DecodeString(devKeyHex)
	require.NoError(t, err)
	return secp256k1.PrivKeyFromBytes(raw)
}

func TestPublicKeyToAddress(t *testing.T) {
	assert.Equal(t, devAddress, PublicKeyToAddress(devKey(t).PubKey()))
}

func TestHashMessage(t *testing.T) {
	// keccak256("\x19Ethereum Signed Message:\n11hello world")
	assert.Equal(t,
		"d9eba16ed0ecae432b71fe008c98cc872bb4cc214d3220a36f365326cf807d68",
		hex.EncodeToString(HashMessage("hello world")))
}

func TestSignRecoverRoundTrip(t *testing.T) {
	key := devKey(t)
	msg := "Sign in to EcoHubs admin\nNonce: 01J0000000000000000000000"

	sig := SignMessage(key, msg)

	addr, err := Recover(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, devAddress, addr)

	t.Run("without 0x prefix", func(t *testing.T) {
		addr, err := Recover(msg, strings.TrimPrefix(sig, "0x"))
		require.NoError(t, err)
		assert.Equal(t, devAddress, addr)
	})

	t.Run("v as 0/1", func(t *testing.T) {
		raw, _ := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
		raw[64] -= 27
		addr, err := Recover(msg, hex.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, devAddress, addr)
	})

	t.Run("different message recovers a different address", func(t *testing.T) {
		addr, err := Recover(msg+"!", sig)
		if err == nil {
			assert.NotEqual(t, devAddress, addr)
		}
	})
}

func TestRecoverRejectsMalformed(t *testing.T) {
	valid := SignMessage(devKey(t), "m")
	raw, _ := hex.DecodeString(strings.TrimPrefix(valid, "0x"))
	badV := append([]byte{}, raw...)
	badV[64] = 5

	cases := map[string]string{
		"empty":      "",
		"not hex":    "0xzz",
		"too short":  valid[:20],
		"too long":   valid + "00",
		"bad v":      hex.EncodeToString(badV),
		"zero bytes": "0x" + strings.Repeat("00", 65),
	}
	for name, sig := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Recover("m", sig)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestEqualAddress(t *testing.T) {
	assert.True(t, EqualAddress("0xF39Fd6e51aad88F6F4ce6aB8827279cffFb92266", devAddress))
	assert.True(t, EqualAddress("f39fd6e51aad88f6f4ce6ab8827279cfffb92266", devAddress))
	assert.False(t, EqualAddress("0x0000000000000000000000000000000000000001", devAddress))
	assert.False(t, EqualAddress("", ""))
	assert.Equal(t, "", NormalizeAddress("0x1234"))
}
