package util

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Keypair is an ed25519 signing identity addressed by its base58 public key.
type Keypair struct {
	private ed25519.PrivateKey
	public  string
}

// ParseKeypair accepts the secret key as a JSON byte array (the Solana CLI
// keypair file format) or as a base58 string. Both a 64-byte secret key and a
// 32-byte seed are accepted.
func ParseKeypair(raw string) (*Keypair, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("keypair: empty secret key")
	}

	var secret []byte
	if strings.HasPrefix(raw, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(raw), &ints); err != nil {
			return nil, fmt.Errorf("keypair: decode byte array: %w", err)
		}
		secret = make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("keypair: byte %d out of range", i)
			}
			secret[i] = byte(v)
		}
	} else {
		decoded, err := base58.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("keypair: decode base58: %w", err)
		}
		secret = decoded
	}

	var private ed25519.PrivateKey
	switch len(secret) {
	case ed25519.SeedSize:
		private = ed25519.NewKeyFromSeed(secret)
	case ed25519.PrivateKeySize:
		private = ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize])
		if !private.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(secret[ed25519.SeedSize:])) {
			return nil, errors.New("keypair: public half does not match seed")
		}
	default:
		return nil, fmt.Errorf("keypair: secret key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(secret))
	}

	return newKeypair(private), nil
}

// GenerateKeypair creates a fresh random identity.
func GenerateKeypair() (*Keypair, error) {
	_, private, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return newKeypair(private), nil
}

func newKeypair(private ed25519.PrivateKey) *Keypair {
	return &Keypair{
		private: private,
		public:  base58.Encode(private.Public().(ed25519.PublicKey)),
	}
}

func (k *Keypair) PublicKey() string { return k.public }

func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.private, message)
}

// SecretJSON renders the secret key in the Solana CLI keypair file format.
func (k *Keypair) SecretJSON() ([]byte, error) {
	ints := make([]int, len(k.private))
	for i, b := range k.private {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// String never reveals the secret half.
func (k *Keypair) String() string { return k.public }

// DecodePublicKey validates a base58 wallet address.
func DecodePublicKey(address string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(strings.TrimSpace(address))
	if err != nil {
		return nil, errors.New("wallet address must be base58")
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.New("wallet address must encode 32 bytes")
	}
	return ed25519.PublicKey(decoded), nil
}

// VerifySignature checks a base58 ed25519 signature by address over message.
func VerifySignature(address string, message []byte, signature string) bool {
	pub, err := DecodePublicKey(address)
	if err != nil {
		return false
	}
	sig, err := base58.Decode(strings.TrimSpace(signature))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}
