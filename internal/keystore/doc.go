// Package keystore manages the asymmetric half of pagevault's envelope
// encryption: the process-wide RSA keypair that wraps per-document
// symmetric keys.
//
// # Key Lifecycle
//
// The keypair is generated once (2048-bit by default) and persisted as PEM:
//
//   - Private key: PKCS#8, "PRIVATE KEY" block, mode 0600
//   - Public key: PKIX, "PUBLIC KEY" block
//
// On later starts the same files are loaded, so wrapped keys written by an
// earlier process remain unwrappable. Initialization is single-flight;
// racing first callers cannot generate two competing keypairs.
//
// # Wrapping
//
// Keys are wrapped with RSA-OAEP using SHA-256, which carries its own
// integrity check: unwrapping a ciphertext produced under a different
// keypair fails with errors.ErrUnwrap rather than yielding garbage bytes.
package keystore
