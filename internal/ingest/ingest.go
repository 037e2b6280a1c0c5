package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pagevault/pagevault/internal/envelope"
	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/identity"
	"github.com/pagevault/pagevault/internal/keystore"
	"github.com/pagevault/pagevault/internal/store"
)

// documentContentType is the only upload content type accepted.
const documentContentType = "application/pdf"

// state names one step of the ingestion pipeline.
type state string

const (
	stateValidating  state = "validating"
	stateEncrypting  state = "encrypting"
	stateWrapping    state = "wrapping"
	statePersisting  state = "persisting"
	stateRasterizing state = "rasterizing"
	stateCommitted   state = "committed"
)

// Rasterizer converts document bytes into watermarked page images. The
// raster package satisfies it; tests substitute stubs.
type Rasterizer interface {
	PageCount(data []byte) (int, error)
	ConvertAll(ctx context.Context, data []byte, viewer identity.Identity, destDir string) ([]string, error)
}

// Options describes one upload.
type Options struct {
	Title       string
	Author      string
	Description string

	// Filename and ContentType come from the upload request.
	Filename    string
	ContentType string

	// Data is the whole document payload.
	Data []byte

	// Uploader is the identity whose label gets baked into the page
	// watermarks.
	Uploader identity.Identity
}

// Result contains the outcome of a successful ingestion.
type Result struct {
	// Document is the committed, active metadata record.
	Document *store.Document
}

// Ingestor drives the upload pipeline: validate, encrypt, wrap, persist,
// rasterize, commit. Ingestions for distinct documents are independent and
// may run concurrently.
type Ingestor struct {
	store     store.Store
	keys      *keystore.Manager
	raster    Rasterizer
	vaultPath string
	logger    *zap.Logger
}

// New returns an Ingestor writing artifacts under vaultPath.
func New(st store.Store, keys *keystore.Manager, raster Rasterizer, vaultPath string, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		store:     st,
		keys:      keys,
		raster:    raster,
		vaultPath: vaultPath,
		logger:    logger.With(zap.String("service", "ingestor")),
	}
}

// Ingest processes one upload end to end.
//
// The pipeline walks validating → encrypting → wrapping → persisting →
// rasterizing → committed. Every artifact write is tracked, and a deferred
// cleanup removes all of them on any exit (error or cancellation) before
// step seven commits. The document record is created inactive to obtain an
// identifier and flipped active only at commit, so readers never observe a
// partial ingestion.
//
// Returns ErrValidation for empty or non-PDF payloads, ErrFormat for
// unparsable or zero-page documents, and ErrIngest for any later pipeline
// failure (after cleanup has run).
func (ing *Ingestor) Ingest(ctx context.Context, opts Options) (_ *Result, err error) {
	start := time.Now()

	// Step 1: validate the payload.
	ing.logState(stateValidating, "")
	if len(opts.Data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", verrors.ErrValidation)
	}
	if opts.ContentType != documentContentType {
		return nil, fmt.Errorf("%w: content type %q is not %s", verrors.ErrValidation, opts.ContentType, documentContentType)
	}

	// Step 2: parse the document structure.
	pages, err := ing.raster.PageCount(opts.Data)
	if err != nil {
		return nil, err
	}

	// Create the record inactive to obtain an identifier.
	doc := &store.Document{
		ID:        uuid.New().String(),
		Title:     opts.Title,
		Author:    opts.Author,
		OwnerID:   opts.Uploader.ID,
		FileSize:  int64(len(opts.Data)),
		CreatedAt: time.Now(),

		Description: opts.Description,
	}
	if err := ing.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}

	// Everything written from here on is removed again unless the
	// pipeline commits. The record itself stays behind, inactive.
	artifacts := newTracker()
	committed := false
	defer func() {
		if !committed {
			ing.logger.Warn("Ingestion failed, cleaning up artifacts",
				zap.String("doc_id", doc.ID),
				zap.Error(err))
			artifacts.cleanup(ing.logger)
		}
	}()

	if err := os.MkdirAll(ing.vaultPath, 0700); err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}

	// Step 3: generate a document key and encrypt the payload.
	ing.logState(stateEncrypting, doc.ID)
	key, err := envelope.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}
	sealed, err := envelope.Encrypt(opts.Data, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}

	// Step 4: wrap the document key under the process keypair.
	ing.logState(stateWrapping, doc.ID)
	wrappedKey, err := ing.keys.WrapKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}

	// Step 5: persist ciphertext, wrapped key, and envelope metadata.
	ing.logState(statePersisting, doc.ID)
	meta := envelope.NewMetadata(sealed, opts.Filename, int64(len(opts.Data)))
	metaBytes, err := meta.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}

	doc.EncryptedFile = doc.ID + ".blob.enc"
	doc.KeyFile = doc.ID + ".key.enc"
	doc.MetadataFile = doc.ID + ".meta.json"
	doc.RasterDir = doc.ID + "_images"

	for _, artifact := range []struct {
		name string
		data []byte
	}{
		{doc.EncryptedFile, sealed.Ciphertext},
		{doc.KeyFile, wrappedKey},
		{doc.MetadataFile, metaBytes},
	} {
		if err := ing.writeArtifact(artifacts, artifact.name, artifact.data); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}

	// Step 6: rasterize and watermark every page with the uploader's
	// identity.
	ing.logState(stateRasterizing, doc.ID)
	rasterDir := filepath.Join(ing.vaultPath, doc.RasterDir)
	artifacts.dir(rasterDir)
	if _, err := ing.raster.ConvertAll(ctx, opts.Data, opts.Uploader, rasterDir); err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}

	// Step 7: commit. This is the only moment the document becomes
	// visible to readers.
	doc.PageCount = pages
	doc.Active = true
	if err := ing.store.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrIngest, err)
	}
	committed = true
	ing.logState(stateCommitted, doc.ID)

	ing.logger.Info("Document ingested",
		zap.String("doc_id", doc.ID),
		zap.Int("pages", pages),
		zap.Int64("size", doc.FileSize),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{Document: doc}, nil
}

// Purge removes every artifact belonging to a document: ciphertext, wrapped
// key, metadata, and the raster directory. Used by deletion after the
// record is deactivated.
func (ing *Ingestor) Purge(doc *store.Document) {
	artifacts := newTracker()
	for _, name := range []string{doc.EncryptedFile, doc.KeyFile, doc.MetadataFile} {
		if name != "" {
			artifacts.file(filepath.Join(ing.vaultPath, name))
		}
	}
	if doc.RasterDir != "" {
		artifacts.dir(filepath.Join(ing.vaultPath, doc.RasterDir))
	}
	artifacts.cleanup(ing.logger)
}

func (ing *Ingestor) writeArtifact(artifacts *tracker, name string, data []byte) error {
	path := filepath.Join(ing.vaultPath, name)
	artifacts.file(path)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", verrors.ErrIngest, name, err)
	}
	return nil
}

func (ing *Ingestor) logState(s state, docID string) {
	fields := []zap.Field{zap.String("state", string(s))}
	if docID != "" {
		fields = append(fields, zap.String("doc_id", docID))
	}
	ing.logger.Debug("Ingestion state", fields...)
}
