// Package errors provides typed error values for the pagevault pipeline.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Upload errors: Rejected payloads (ErrValidation, ErrFormat)
//   - Crypto errors: Envelope and key failures (ErrAuthentication, ErrKeyStore, ErrUnwrap)
//   - Access errors: Authorization and lookup failures (ErrAuthorization, ErrNotFound)
//   - Pipeline errors: Ingestion failures after cleanup (ErrIngest)
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(data) == 0 {
//	    return nil, errors.ErrValidation
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %v", verrors.ErrUnwrap, err)
//
// Handle errors in the calling layer:
//
//	pages, err := gate.RasterPage(ctx, id, docID, page)
//	if errors.Is(err, verrors.ErrNotFound) {
//	    // Map to a user-visible not-found response.
//	}
//
// Every crypto, codec, or I/O failure inside the pipeline is wrapped into one
// of these kinds before it crosses a package boundary.
package errors
