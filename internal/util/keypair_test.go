package util

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeypair_JSONByteArray(t *testing.T) {
	generated, err := GenerateKeypair()
	require.NoError(t, err)
	secret, err := generated.SecretJSON()
	require.NoError(t, err)

	parsed, err := ParseKeypair(string(secret))
	require.NoError(t, err)
	assert.Equal(t, generated.PublicKey(), parsed.PublicKey())
}

func TestParseKeypair_Base58Seed(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	want := base58.Encode(ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey))

	parsed, err := ParseKeypair(base58.Encode(seed))
	require.NoError(t, err)
	assert.Equal(t, want, parsed.PublicKey())
}

func TestParseKeypair_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"short array":  "[1,2,3]",
		"out of range": "[300]",
		"not base58":   "0OIl",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseKeypair(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseKeypair_RejectsMismatchedPublicHalf(t *testing.T) {
	a, _ := GenerateKeypair()
	b, _ := GenerateKeypair()
	secret := append(append([]byte{}, a.private[:ed25519.SeedSize]...), b.private[ed25519.SeedSize:]...)

	_, err := ParseKeypair(base58.Encode(secret))
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	msg := []byte("roll the dice")
	sig := base58.Encode(kp.Sign(msg))

	assert.True(t, VerifySignature(kp.PublicKey(), msg, sig))
	assert.False(t, VerifySignature(kp.PublicKey(), []byte("other"), sig))
	assert.False(t, VerifySignature("not-a-wallet", msg, sig))
	assert.False(t, VerifySignature(kp.PublicKey(), msg, "garbage"))
}

func TestKeypairStringHidesSecret(t *testing.T) {
	kp, _ := GenerateKeypair()
	assert.Equal(t, kp.PublicKey(), kp.String())
}
