package access

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pagevault/pagevault/internal/audit"
	"github.com/pagevault/pagevault/internal/envelope"
	verrors "github.com/pagevault/pagevault/internal/errors"
	"github.com/pagevault/pagevault/internal/identity"
	"github.com/pagevault/pagevault/internal/keystore"
	"github.com/pagevault/pagevault/internal/raster"
	"github.com/pagevault/pagevault/internal/store"
)

// ArtifactPurger removes a document's on-disk artifacts. The ingest package
// satisfies it.
type ArtifactPurger interface {
	Purge(doc *store.Document)
}

// Gate mediates every read and delete on protected documents. Page views
// are open to any identity, original downloads require the elevated
// download entitlement, and deletion requires the ADMIN tier.
type Gate struct {
	store     store.Store
	keys      *keystore.Manager
	audit     *audit.Log
	purger    ArtifactPurger
	vaultPath string
	logger    *zap.Logger
}

// New returns a Gate serving documents stored under vaultPath.
func New(st store.Store, keys *keystore.Manager, log *audit.Log, purger ArtifactPurger, vaultPath string, logger *zap.Logger) *Gate {
	return &Gate{
		store:     st,
		keys:      keys,
		audit:     log,
		purger:    purger,
		vaultPath: vaultPath,
		logger:    logger.With(zap.String("service", "access")),
	}
}

// RasterPage returns the watermarked JPEG for one page of an active
// document. Pages are numbered from 1. Any authenticated identity may view
// pages; every successful view is recorded in the audit log.
func (g *Gate) RasterPage(ctx context.Context, viewer identity.Identity, docID string, page int) ([]byte, error) {
	doc, err := g.store.FindActive(ctx, docID)
	if err != nil {
		return nil, err
	}
	if page < 1 || page > doc.PageCount {
		return nil, fmt.Errorf("%w: page %d of document %s", verrors.ErrNotFound, page, docID)
	}

	path := filepath.Join(g.vaultPath, doc.RasterDir, raster.PageFileName(page))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: page image for %s: %v", verrors.ErrNotFound, docID, err)
	}

	if err := g.audit.Append(audit.Entry{
		DocumentID: docID,
		IdentityID: viewer.ID,
		Email:      viewer.Email,
		Type:       audit.EventRasterView,
		Page:       page,
	}); err != nil {
		g.logger.Error("Failed to record page view",
			zap.String("doc_id", docID),
			zap.Error(err))
	}

	return data, nil
}

// DownloadRequest carries the client details recorded alongside an original
// download.
type DownloadRequest struct {
	ClientIP  string
	UserAgent string
}

// OriginalDownload decrypts and returns the original document bytes.
//
// The caller's identity must carry the elevated download entitlement;
// otherwise ErrAuthorization is returned and nothing is audited. The
// decryption path returns ErrUnwrap when the stored key cannot be unwrapped
// and ErrAuthentication when the ciphertext fails integrity checking, and
// never releases plaintext in either case.
func (g *Gate) OriginalDownload(ctx context.Context, viewer identity.Identity, docID string, req DownloadRequest) ([]byte, error) {
	doc, err := g.store.FindActive(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !viewer.ElevatedDownload {
		return nil, fmt.Errorf("%w: identity %s may not download originals", verrors.ErrAuthorization, viewer.ID)
	}

	ciphertext, err := g.readArtifact(doc.EncryptedFile)
	if err != nil {
		return nil, err
	}
	wrappedKey, err := g.readArtifact(doc.KeyFile)
	if err != nil {
		return nil, err
	}
	metaBytes, err := g.readArtifact(doc.MetadataFile)
	if err != nil {
		return nil, err
	}
	meta, err := envelope.UnmarshalMetadata(metaBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrAuthentication, err)
	}
	iv, err := meta.DecodeIV()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verrors.ErrAuthentication, err)
	}

	key, err := g.keys.UnwrapKey(wrappedKey)
	if err != nil {
		return nil, err
	}
	plaintext, err := envelope.Decrypt(ciphertext, key, iv)
	if err != nil {
		return nil, err
	}

	if err := g.audit.Append(audit.Entry{
		DocumentID: docID,
		IdentityID: viewer.ID,
		Email:      viewer.Email,
		Type:       audit.EventOriginalDownload,
		ClientIP:   req.ClientIP,
		UserAgent:  req.UserAgent,
	}); err != nil {
		g.logger.Error("Failed to record download",
			zap.String("doc_id", docID),
			zap.Error(err))
	}

	g.logger.Info("Original downloaded",
		zap.String("doc_id", docID),
		zap.String("uid", viewer.ID))

	return plaintext, nil
}

// Delete deactivates a document and purges its artifacts. Only identities
// in the ADMIN tier may delete.
func (g *Gate) Delete(ctx context.Context, caller identity.Identity, docID string) error {
	if caller.Tier != identity.TierAdmin {
		return fmt.Errorf("%w: deletion requires the %s tier", verrors.ErrAuthorization, identity.TierAdmin)
	}

	doc, err := g.store.FindByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := g.store.Deactivate(ctx, docID); err != nil {
		return err
	}
	g.purger.Purge(doc)

	g.logger.Info("Document deleted",
		zap.String("doc_id", docID),
		zap.String("uid", caller.ID))
	return nil
}

// Stats returns per-event-type access counts for one document, derived
// from the audit log.
func (g *Gate) Stats(ctx context.Context, docID string) (map[audit.EventType]int, error) {
	if _, err := g.store.FindByID(ctx, docID); err != nil {
		return nil, err
	}
	return g.audit.CountByType(docID)
}

func (g *Gate) readArtifact(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(g.vaultPath, name))
	if err != nil {
		return nil, fmt.Errorf("%w: artifact %s: %v", verrors.ErrNotFound, name, err)
	}
	return data, nil
}
