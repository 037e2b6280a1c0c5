package envelope

import (
	"bytes"
	"errors"
	"testing"

	verrors "github.com/pagevault/pagevault/internal/errors"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	plaintext := []byte("the original document bytes")

	result, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if bytes.Equal(result.Ciphertext, plaintext) {
		t.Fatal("Ciphertext should not equal plaintext")
	}
	if len(result.IV) != IVSize {
		t.Errorf("Expected %d-byte IV, got %d", IVSize, len(result.IV))
	}
	if len(result.AuthTag) != TagSize {
		t.Errorf("Expected %d-byte tag, got %d", TagSize, len(result.AuthTag))
	}

	decrypted, err := Decrypt(result.Ciphertext, key, result.IV)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Expected %q, got %q", plaintext, decrypted)
	}
}

func TestDecrypt_BitFlipFailsAuthentication(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	plaintext := []byte("tamper detection test payload")
	result, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Flip one bit at every byte position, covering both the ciphertext
	// body and the trailing tag region.
	for i := range result.Ciphertext {
		corrupted := make([]byte, len(result.Ciphertext))
		copy(corrupted, result.Ciphertext)
		corrupted[i] ^= 0x01

		decrypted, err := Decrypt(corrupted, key, result.IV)
		if !errors.Is(err, verrors.ErrAuthentication) {
			t.Fatalf("Flipping byte %d: expected ErrAuthentication, got %v", i, err)
		}
		if decrypted != nil {
			t.Fatalf("Flipping byte %d: expected no plaintext, got %d bytes", i, len(decrypted))
		}
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	key1, _ := GenerateKey()
	key2, _ := GenerateKey()

	result, err := Encrypt([]byte("secret"), key1)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	_, err = Decrypt(result.Ciphertext, key2, result.IV)
	if !errors.Is(err, verrors.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication with wrong key, got %v", err)
	}
}

func TestEncrypt_IVsAreDistinct(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	const n = 64
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		result, err := Encrypt([]byte("same plaintext"), key)
		if err != nil {
			t.Fatalf("Encrypt %d failed: %v", i, err)
		}
		iv := string(result.IV)
		if seen[iv] {
			t.Fatalf("IV repeated after %d encryptions", i)
		}
		seen[iv] = true
	}
}

func TestEncrypt_InvalidKeyLength(t *testing.T) {
	if _, err := Encrypt([]byte("data"), []byte("short")); err == nil {
		t.Fatal("Encrypt should fail with a short key")
	}
	if _, err := Decrypt([]byte("0123456789abcdef0123456789abcdef"), []byte("short"), make([]byte, IVSize)); err == nil {
		t.Fatal("Decrypt should fail with a short key")
	}
}

func TestGenerateKey_Size(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("Expected %d-byte key, got %d", KeySize, len(key))
	}
}
