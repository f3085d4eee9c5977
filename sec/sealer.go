package sec

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer encrypts short values at rest with XChaCha20-Poly1305.
// The output is nonce||ciphertext, base64 (raw URL alphabet) encoded.
type Sealer struct {
	aead cipher.AEAD
}

var ErrSealedTooShort = errors.New("sec: sealed value too short")

func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("sec: key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// NewSealerBase64 takes the key as it is written in config files (std or raw URL base64)
func NewSealerBase64(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		if key, err = base64.RawURLEncoding.DecodeString(encodedKey); err != nil {
			return nil, fmt.Errorf("sec: key is not base64: %w", err)
		}
	}
	return NewSealer(key)
}

// Seal uses a fresh random nonce on every call. additional binds the value to its slot.
func (s *Sealer) Seal(plaintext []byte, additional []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(s.aead.Seal(nonce, nonce, plaintext, additional)), nil
}

func (s *Sealer) Open(sealed string, additional []byte) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, err
	}
	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize+s.aead.Overhead() {
		return nil, ErrSealedTooShort
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return s.aead.Open(nil, nonce, ciphertext, additional)
}
