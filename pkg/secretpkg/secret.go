// Package secretpkg provides authenticated encryption for one-time secrets.
package secretpkg

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrInvalidKey indicates a cipher key of the wrong size or encoding.
	ErrInvalidKey = errors.New("invalid cipher key")
	// ErrDecryptionFailed indicates a ciphertext that could not be opened.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Cipher seals and opens short secrets with ChaCha20-Poly1305.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher returns a Cipher for the given hex-encoded 32-byte key.
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrInvalidKey
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrInvalidKey
	}

	return &Cipher{aead: aead}, nil
}

// Seal encrypts the plaintext with a fresh random nonce prepended to the output.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a ciphertext produced by Seal.
func (c *Cipher) Open(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return nil, ErrDecryptionFailed
	}

	nonce, sealed := ciphertext[:c.aead.NonceSize()], ciphertext[c.aead.NonceSize():]

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// NewKey generates a hex-encoded random key suitable for NewCipher.
func NewKey() (string, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}

	return hex.EncodeToString(key), nil
}
