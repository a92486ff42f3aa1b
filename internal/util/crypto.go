package util

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrSealedPayload = errors.New("sealed payload is truncated or was written with another key")

const (
	SaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

func ValidatePassphrase(pass string) error {
	if len(pass) < 8 {
		return fmt.Errorf("passphrase must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range pass {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("passphrase must contain uppercase, lowercase, and digit")
	}
	return nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches a passphrase into a cache key with Argon2id.
func DeriveKey(pass string, salt []byte) []byte {
	return argon2.IDKey([]byte(pass), salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
}

// Sealer encrypts cached record payloads at rest.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init sealer: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns nonce || ciphertext. additional binds the payload to its row.
func (s *Sealer) Seal(plain, additional []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plain)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plain, additional), nil
}

func (s *Sealer) Open(sealed, additional []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, ErrSealedPayload
	}
	plain, err := s.aead.Open(nil, sealed[:n], sealed[n:], additional)
	if err != nil {
		return nil, ErrSealedPayload
	}
	return plain, nil
}
