// Package envelope implements the symmetric half of pagevault's envelope
// encryption: AES-256-GCM over whole document buffers with a fresh random
// 96-bit IV per call and a 128-bit authentication tag.
//
// Operations are stateless and safe to run fully in parallel across
// documents. Decryption fails closed: a tag mismatch returns
// errors.ErrAuthentication and never any plaintext bytes.
//
// The companion Metadata type is the versioned on-disk record
// (D.meta.json) binding a ciphertext to its IV, tag, and upload details.
package envelope
