package keystore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	verrors "github.com/pagevault/pagevault/internal/errors"
)

// Manager owns the process-wide RSA keypair used to wrap and unwrap
// per-document symmetric keys. It is an explicit once-initialized owner:
// Initialize is single-flight, so concurrent first callers share one
// generate-or-load and never race two keypairs onto disk.
type Manager struct {
	publicPath  string
	privatePath string
	bits        int

	once    sync.Once
	initErr error

	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// New returns a Manager for the keypair at the given PEM file paths.
// Initialize must be called before WrapKey or UnwrapKey.
func New(publicPath, privatePath string, bits int) *Manager {
	return &Manager{
		publicPath:  publicPath,
		privatePath: privatePath,
		bits:        bits,
	}
}

// Initialize loads the persisted keypair, or generates and persists a new
// one if none exists. It is idempotent and safe for concurrent callers:
// every caller observes the result of the single underlying attempt.
//
// Returns ErrKeyStore on I/O failure or malformed key material. This is
// fatal at process startup.
func (m *Manager) Initialize() error {
	m.once.Do(func() {
		m.initErr = m.initialize()
	})
	return m.initErr
}

func (m *Manager) initialize() error {
	_, pubErr := os.Stat(m.publicPath)
	_, privErr := os.Stat(m.privatePath)

	if pubErr == nil && privErr == nil {
		return m.load()
	}
	if os.IsNotExist(pubErr) || os.IsNotExist(privErr) {
		return m.generateAndSave()
	}
	if pubErr != nil {
		return fmt.Errorf("%w: %v", verrors.ErrKeyStore, pubErr)
	}
	return fmt.Errorf("%w: %v", verrors.ErrKeyStore, privErr)
}

// WrapKey encrypts a symmetric key with the public half using RSA-OAEP
// with SHA-256.
func (m *Manager) WrapKey(symmetricKey []byte) ([]byte, error) {
	if m.public == nil {
		return nil, fmt.Errorf("%w: keystore not initialized", verrors.ErrKeyStore)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, m.public, symmetricKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap symmetric key: %w", err)
	}

	return wrapped, nil
}

// UnwrapKey decrypts a wrapped symmetric key with the private half.
// Returns ErrUnwrap if the ciphertext is malformed or was wrapped under a
// different keypair.
func (m *Manager) UnwrapKey(wrapped []byte) ([]byte, error) {
	if m.private == nil {
		return nil, fmt.Errorf("%w: keystore not initialized", verrors.ErrKeyStore)
	}

	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, m.private, wrapped, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrUnwrap, err)
	}

	return key, nil
}

func (m *Manager) load() error {
	private, err := loadPrivateKey(m.privatePath)
	if err != nil {
		return fmt.Errorf("%w: %v", verrors.ErrKeyStore, err)
	}

	public, err := loadPublicKey(m.publicPath)
	if err != nil {
		return fmt.Errorf("%w: %v", verrors.ErrKeyStore, err)
	}

	m.private = private
	m.public = public
	return nil
}

func (m *Manager) generateAndSave() error {
	private, err := rsa.GenerateKey(rand.Reader, m.bits)
	if err != nil {
		return fmt.Errorf("%w: failed to generate RSA keypair: %v", verrors.ErrKeyStore, err)
	}

	if err := savePrivateKey(m.privatePath, private); err != nil {
		return fmt.Errorf("%w: %v", verrors.ErrKeyStore, err)
	}
	if err := savePublicKey(m.publicPath, &private.PublicKey); err != nil {
		return fmt.Errorf("%w: %v", verrors.ErrKeyStore, err)
	}

	m.private = private
	m.public = &private.PublicKey
	return nil
}

// loadPrivateKey loads an RSA private key from disk.
func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA private key")
	}
	return rsaKey, nil
}

// loadPublicKey loads an RSA public key from disk.
func loadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPub, nil
}

func savePrivateKey(path string, key *rsa.PrivateKey) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for private key: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create private key file at %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close private key file: %w", closeErr)
		}
	}()

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}

	return pem.Encode(file, &pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func savePublicKey(path string, key *rsa.PublicKey) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for public key: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create public key file at %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close public key file: %w", closeErr)
		}
	}()

	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal public key: %w", err)
	}

	return pem.Encode(file, &pem.Block{Type: "PUBLIC KEY", Bytes: der})
}
