package errors

import "errors"

// Upload errors indicate the submitted document was rejected before any
// artifact was produced.
var (
	// ErrValidation indicates the upload payload is empty or has the wrong content type.
	ErrValidation = errors.New("invalid upload")

	// ErrFormat indicates the document could not be parsed or contains no pages.
	ErrFormat = errors.New("unreadable document format")
)

// Cryptographic errors indicate failures in the envelope or key pipeline.
var (
	// ErrAuthentication indicates the GCM authentication tag did not verify.
	// The ciphertext must be treated as tampered or corrupted.
	ErrAuthentication = errors.New("ciphertext authentication failed")

	// ErrKeyStore indicates the process keypair could not be loaded or generated.
	ErrKeyStore = errors.New("keypair load or generation failed")

	// ErrUnwrap indicates a wrapped key is malformed or was wrapped under a
	// different keypair.
	ErrUnwrap = errors.New("failed to unwrap document key")
)

// Access errors indicate the caller may not perform the requested operation.
var (
	// ErrAuthorization indicates the identity lacks the required tier or flag.
	ErrAuthorization = errors.New("identity is not authorized for this operation")

	// ErrNotFound indicates an unknown or inactive document, or an
	// out-of-range page number.
	ErrNotFound = errors.New("document or page not found")
)

// Pipeline errors indicate ingestion failed after validation.
var (
	// ErrIngest indicates the ingestion pipeline failed and every artifact
	// written so far has been cleaned up. The upload can be retried.
	ErrIngest = errors.New("document ingestion failed")
)
