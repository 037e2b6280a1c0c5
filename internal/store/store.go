// Package store persists document metadata records. The pipeline treats it
// as a narrow transactional surface: implementations exist for sqlite (via
// gorm) and for memory (tests).
package store

import "context"

// Store is the metadata persistence surface consumed by the ingestor and
// the access gate.
type Store interface {
	// Create persists a new document record.
	Create(ctx context.Context, doc *Document) error

	// Update persists changes to an existing record.
	Update(ctx context.Context, doc *Document) error

	// FindByID returns the record regardless of its active flag.
	// Returns errors.ErrNotFound if no record exists.
	FindByID(ctx context.Context, id string) (*Document, error)

	// FindActive returns the record only if it is active.
	// Returns errors.ErrNotFound for unknown or inactive documents.
	FindActive(ctx context.Context, id string) (*Document, error)

	// ListActive returns all active documents, newest first.
	ListActive(ctx context.Context) ([]Document, error)

	// Deactivate clears the active flag, hiding the document from readers.
	Deactivate(ctx context.Context, id string) error
}
