package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	verrors "github.com/pagevault/pagevault/internal/errors"
)

const (
	// KeySize is the symmetric key length (AES-256).
	KeySize = 32

	// IVSize is the GCM initialization vector length.
	IVSize = 12

	// TagSize is the GCM authentication tag length.
	TagSize = 16

	// Algorithm is the tag recorded in envelope metadata.
	Algorithm = "AES-256-GCM"
)

// Result holds the output of one Encrypt call. Ciphertext carries the
// authentication tag in its final TagSize bytes; AuthTag aliases those bytes
// so the metadata record can carry them explicitly.
type Result struct {
	Ciphertext []byte
	IV         []byte
	AuthTag    []byte
}

// GenerateKey generates a new random 256-bit symmetric key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}

	return key, nil
}

// Encrypt seals plaintext under key with AES-256-GCM. A fresh random IV is
// drawn on every call; the same (key, IV) pair never repeats for the life
// of a key.
func Encrypt(plaintext, key []byte) (*Result, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	ciphertext := gcm.Seal(nil, iv, plaintext, nil)

	return &Result{
		Ciphertext: ciphertext,
		IV:         iv,
		AuthTag:    ciphertext[len(ciphertext)-TagSize:],
	}, nil
}

// Decrypt opens ciphertext with key and iv. If the embedded tag does not
// verify, it fails with ErrAuthentication and returns no plaintext: a tag
// mismatch is tamper or corruption, never a retryable condition.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", verrors.ErrAuthentication, IVSize, len(iv))
	}
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext too short", verrors.ErrAuthentication)
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, verrors.ErrAuthentication
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid symmetric key length: expected %d bytes, got %d bytes", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return gcm, nil
}
