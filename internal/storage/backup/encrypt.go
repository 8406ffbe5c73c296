package backup

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Encryption errors.
var (
	ErrPassphraseTooWeak = errors.New("backup: passphrase too weak (minimum 8 characters)")
	ErrDecryptionFailed  = errors.New("backup: decryption failed - wrong passphrase or corrupted data")
)

const (
	// MinPassphraseLength is the minimum passphrase length.
	MinPassphraseLength = 8

	// SaltLength is the salt length used in key derivation.
	SaltLength = 16

	// Argon2id parameters for key derivation from passphrase.
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// ValidatePassphrase checks passphrase strength. An empty passphrase
// disables encryption and is valid.
func ValidatePassphrase(passphrase []byte) error {
	if len(passphrase) > 0 && len(passphrase) < MinPassphraseLength {
		return ErrPassphraseTooWeak
	}
	return nil
}

// NewSalt returns a fresh random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("backup: generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a XChaCha20-Poly1305 key from passphrase and salt
// using Argon2id.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if err := ValidatePassphrase(passphrase); err != nil {
		return nil, err
	}
	if len(salt) != SaltLength {
		return nil, fmt.Errorf("backup: invalid salt length %d", len(salt))
	}
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, chacha20poly1305.KeySize), nil
}

// seal encrypts plaintext and prepends the random nonce.
func seal(key, plaintext, additionalData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("backup: generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// open decrypts data produced by seal.
func open(key, sealed, additionalData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrDecryptionFailed
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

// ZeroKey zeros a key in memory.
func ZeroKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
